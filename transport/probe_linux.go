//go:build linux

// File: transport/probe_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux capability probe. Epoll is expected on every supported kernel, but
// the probe still verifies it: absence is a reason to fall back, never an
// error.

package transport

import (
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-listen/api"
)

// probeListenerKind checks whether an epoll instance can be created.
func probeListenerKind() api.ListenerKind {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return api.ListenerPortable
	}
	_ = unix.Close(epfd)
	return api.ListenerEpoll
}
