//go:build linux

// File: transport/rawconn_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Minimal net.Conn over a raw accepted fd from the epoll listener. The fd is
// non-blocking; Read and Write park in poll(2) on EAGAIN. Deadlines are not
// supported at this layer; the protocol layer above the accept hook is
// expected to bring its own timeout discipline.

package transport

import (
	"io"
	"net"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-listen/api"
)

type rawConn struct {
	fd     int
	local  *net.TCPAddr
	remote *net.TCPAddr

	closeOnce sync.Once
	closeErr  error
}

func newRawConn(fd int, local, remote *net.TCPAddr) *rawConn {
	_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
	return &rawConn{fd: fd, local: local, remote: remote}
}

// Read implements net.Conn.
func (c *rawConn) Read(p []byte) (int, error) {
	for {
		n, err := unix.Read(c.fd, p)
		switch err {
		case nil:
			if n == 0 {
				return 0, io.EOF
			}
			return n, nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			if err := c.waitReady(unix.POLLIN); err != nil {
				return 0, err
			}
		default:
			return 0, os.NewSyscallError("read", err)
		}
	}
}

// Write implements net.Conn.
func (c *rawConn) Write(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		n, err := unix.Write(c.fd, p[written:])
		switch err {
		case nil:
			written += n
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			if err := c.waitReady(unix.POLLOUT); err != nil {
				return written, err
			}
		default:
			return written, os.NewSyscallError("write", err)
		}
	}
	return written, nil
}

func (c *rawConn) waitReady(events int16) error {
	fds := []unix.PollFd{{Fd: int32(c.fd), Events: events}}
	for {
		_, err := unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return os.NewSyscallError("poll", err)
		}
		return nil
	}
}

// Close implements net.Conn.
func (c *rawConn) Close() error {
	c.closeOnce.Do(func() {
		if err := unix.Close(c.fd); err != nil {
			c.closeErr = os.NewSyscallError("close", err)
		}
	})
	return c.closeErr
}

// LocalAddr implements net.Conn.
func (c *rawConn) LocalAddr() net.Addr { return c.local }

// RemoteAddr implements net.Conn.
func (c *rawConn) RemoteAddr() net.Addr { return c.remote }

// SetDeadline implements net.Conn.
func (c *rawConn) SetDeadline(time.Time) error { return api.ErrNotSupported }

// SetReadDeadline implements net.Conn.
func (c *rawConn) SetReadDeadline(time.Time) error { return api.ErrNotSupported }

// SetWriteDeadline implements net.Conn.
func (c *rawConn) SetWriteDeadline(time.Time) error { return api.ErrNotSupported }
