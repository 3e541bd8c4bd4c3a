//go:build linux

// File: transport/listener_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Native epoll-backed listening socket. The socket is non-blocking; Accept
// parks in epoll_wait until the listen fd is readable or the eventfd wakeup
// fires during Close. Accept is single-consumer: only the acceptor poller
// worker calls it.

package transport

import (
	"encoding/binary"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-listen/api"
)

type epollListener struct {
	fd     int // listening socket
	epfd   int // epoll instance owned by this listener
	wakefd int // eventfd used to interrupt a parked Accept on Close
	port   int
	addr   *net.TCPAddr

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// listenNative creates, binds, and listens a non-blocking socket, then wires
// it into a dedicated epoll instance. Every failure branch closes whatever
// was already created.
func listenNative(host string, port, backlog int) (Listener, error) {
	fd, err := listenSocket(host, port, backlog)
	if err != nil {
		return nil, err
	}

	bound, err := unix.Getsockname(fd)
	if err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("getsockname", err)
	}
	addr := sockaddrToTCPAddr(bound)
	if addr == nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: unexpected bound address family", api.ErrInvalidArgument)
	}

	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("epoll_create1", err)
	}
	wakefd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		unix.Close(epfd)
		unix.Close(fd)
		return nil, os.NewSyscallError("eventfd", err)
	}

	for _, watch := range []int{fd, wakefd} {
		ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(watch)}
		if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, watch, &ev); err != nil {
			unix.Close(wakefd)
			unix.Close(epfd)
			unix.Close(fd)
			return nil, os.NewSyscallError("epoll_ctl", err)
		}
	}

	return &epollListener{
		fd:     fd,
		epfd:   epfd,
		wakefd: wakefd,
		port:   addr.Port,
		addr:   addr,
	}, nil
}

// Accept implements Listener.
func (l *epollListener) Accept() (net.Conn, error) {
	var events [4]unix.EpollEvent
	for {
		if l.closed.Load() {
			return nil, api.ErrListenerClosed
		}

		nfd, sa, err := unix.Accept4(l.fd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
		switch err {
		case nil:
			return newRawConn(nfd, l.addr, sockaddrToTCPAddr(sa)), nil
		case unix.EINTR, unix.ECONNABORTED:
			continue
		case unix.EAGAIN:
			// Fall through to epoll_wait below.
		default:
			if l.closed.Load() {
				return nil, api.ErrListenerClosed
			}
			return nil, os.NewSyscallError("accept4", err)
		}

		n, err := unix.EpollWait(l.epfd, events[:], -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if l.closed.Load() {
				return nil, api.ErrListenerClosed
			}
			return nil, os.NewSyscallError("epoll_wait", err)
		}
		for i := 0; i < n; i++ {
			if int(events[i].Fd) == l.wakefd {
				return nil, api.ErrListenerClosed
			}
		}
	}
}

// Port implements Listener.
func (l *epollListener) Port() int { return l.port }

// Kind implements Listener.
func (l *epollListener) Kind() api.ListenerKind { return api.ListenerEpoll }

// Close implements Listener. The eventfd is signalled before the fds are
// released so a parked Accept wakes through the event rather than through a
// closed descriptor.
func (l *epollListener) Close() error {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		var one [8]byte
		binary.LittleEndian.PutUint64(one[:], 1)
		_, _ = unix.Write(l.wakefd, one[:])
		l.closeErr = unix.Close(l.fd)
		_ = unix.Close(l.epfd)
		_ = unix.Close(l.wakefd)
		if l.closeErr != nil {
			l.closeErr = os.NewSyscallError("close", l.closeErr)
		}
	})
	return l.closeErr
}

// listenSocket creates, binds, and listens the non-blocking socket. An empty
// host binds the IPv6 any address with IPV6_V6ONLY cleared, so IPv4 and IPv6
// clients are both reachable, same as the portable listener; a kernel without
// IPv6 support falls back to IPv4-any.
func listenSocket(host string, port, backlog int) (int, error) {
	sa, family, err := resolveSockaddr(host, port)
	if err != nil {
		return -1, err
	}

	fd, err := unix.Socket(family, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if host == "" && err == unix.EAFNOSUPPORT {
		family = unix.AF_INET
		sa = &unix.SockaddrInet4{Port: port}
		fd, err = unix.Socket(family, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	}
	if err != nil {
		return -1, os.NewSyscallError("socket", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return -1, os.NewSyscallError("setsockopt", err)
	}
	if host == "" && family == unix.AF_INET6 {
		if err := unix.SetsockoptInt(fd, unix.IPPROTO_IPV6, unix.IPV6_V6ONLY, 0); err != nil {
			unix.Close(fd)
			return -1, os.NewSyscallError("setsockopt", err)
		}
	}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return -1, os.NewSyscallError("bind", err)
	}
	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return -1, os.NewSyscallError("listen", err)
	}
	return fd, nil
}

// resolveSockaddr maps host/port onto a sockaddr and address family.
// An empty host resolves to the IPv6 any address; listenSocket turns that
// into a dual-stack bind.
func resolveSockaddr(host string, port int) (unix.Sockaddr, int, error) {
	if host == "" {
		return &unix.SockaddrInet6{Port: port}, unix.AF_INET6, nil
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return nil, 0, fmt.Errorf("%w: host %q is not an IP address", api.ErrInvalidArgument, host)
	}
	if ip4 := ip.To4(); ip4 != nil {
		sa := &unix.SockaddrInet4{Port: port}
		copy(sa.Addr[:], ip4)
		return sa, unix.AF_INET, nil
	}
	sa := &unix.SockaddrInet6{Port: port}
	copy(sa.Addr[:], ip.To16())
	return sa, unix.AF_INET6, nil
}

// sockaddrToTCPAddr converts a kernel sockaddr into net.TCPAddr.
func sockaddrToTCPAddr(sa unix.Sockaddr) *net.TCPAddr {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return &net.TCPAddr{IP: append([]byte(nil), a.Addr[:]...), Port: a.Port}
	case *unix.SockaddrInet6:
		return &net.TCPAddr{IP: append([]byte(nil), a.Addr[:]...), Port: a.Port}
	default:
		return nil
	}
}
