// File: transport/listener.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Listener contract and the portable net.Listener-backed implementation.
// The native epoll variant lives in listener_linux.go.

package transport

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/momentics/hioload-listen/api"
)

// Listener is a bound TCP listening socket. Exactly one server lifecycle
// instance owns a Listener at a time; ownership never transfers.
type Listener interface {
	// Accept blocks until an inbound connection completes its handshake.
	// Returns api.ErrListenerClosed after Close.
	Accept() (net.Conn, error)

	// Port returns the OS-confirmed bound port.
	Port() int

	// Kind reports which implementation backs this listener.
	Kind() api.ListenerKind

	// Close releases the listening socket. Idempotent.
	Close() error
}

// Listen binds a listening socket of the requested kind. port 0 requests an
// OS-assigned ephemeral port; the bound port is always readable via Port.
// On hosts where the native kind is unavailable the portable implementation
// is used regardless of the request.
func Listen(kind api.ListenerKind, host string, port, backlog int) (Listener, error) {
	if kind == api.ListenerEpoll {
		return listenNative(host, port, backlog)
	}
	return listenPortable(host, port)
}

// portableListener wraps net.TCPListener. The kernel picks the backlog.
type portableListener struct {
	ln   *net.TCPListener
	port int

	closeOnce sync.Once
	closeErr  error
}

func listenPortable(host string, port int) (Listener, error) {
	ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("portable listen: %w", err)
	}
	tl := ln.(*net.TCPListener)
	return &portableListener{
		ln:   tl,
		port: tl.Addr().(*net.TCPAddr).Port,
	}, nil
}

// Accept implements Listener.
func (l *portableListener) Accept() (net.Conn, error) {
	conn, err := l.ln.Accept()
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return nil, api.ErrListenerClosed
		}
		return nil, fmt.Errorf("portable accept: %w", err)
	}
	return conn, nil
}

// Port implements Listener.
func (l *portableListener) Port() int { return l.port }

// Kind implements Listener.
func (l *portableListener) Kind() api.ListenerKind { return api.ListenerPortable }

// Close implements Listener.
func (l *portableListener) Close() error {
	l.closeOnce.Do(func() {
		l.closeErr = l.ln.Close()
	})
	return l.closeErr
}
