// File: api/transport.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Platform-neutral contracts for transport selection. The selector isolates
// all OS-specific branching so the server lifecycle stays portable and can be
// tested against fake implementations.

package api

import (
	"net"

	"github.com/momentics/hioload-listen/concurrency"
)

// ListenerKind identifies the listening-socket implementation chosen for the
// current host.
type ListenerKind int

const (
	// ListenerPortable is the generic non-blocking implementation built on
	// net.Listener. Works everywhere.
	ListenerPortable ListenerKind = iota

	// ListenerEpoll is the native epoll-backed implementation available on
	// Linux hosts.
	ListenerEpoll
)

// String returns a human-readable kind name for logs and metrics labels.
func (k ListenerKind) String() string {
	switch k {
	case ListenerEpoll:
		return "epoll"
	case ListenerPortable:
		return "portable"
	default:
		return "unknown"
	}
}

// TransportSelector produces the I/O primitives best suited to the running
// platform. Implementations are stateless factories; all owned state lives in
// the objects they create.
type TransportSelector interface {
	// NewPollerGroup creates a group of workers poller goroutines named
	// "{namePrefix}-{seq}" with seq starting at 1. workers must be >= 1 and
	// namePrefix non-empty; violations fail with ErrInvalidArgument before
	// anything is spawned.
	NewPollerGroup(workers int, namePrefix string) (PollerGroup, error)

	// ListenerKind probes host capabilities and returns the most efficient
	// listening-socket implementation available. Absence of the optimal
	// mechanism is not an error, only a reason to fall back; there is no
	// failure path.
	ListenerKind() ListenerKind
}

// PollerGroup is an owned pool of worker goroutines responsible for I/O
// readiness work. A running server owns exactly two: a size-1 acceptor group
// and a worker group sized to host parallelism.
type PollerGroup interface {
	// Submit enqueues a task onto one of the group's workers. Returns
	// ErrGroupClosed once Shutdown has been initiated.
	Submit(task func()) error

	// Shutdown stops the group gracefully: already-queued tasks drain, then
	// workers exit. The returned future completes at quiescence. Repeated
	// calls return the same future.
	Shutdown() *concurrency.Future

	// Size returns the number of workers in the group.
	Size() int

	// Name returns the group's name prefix.
	Name() string
}

// AcceptFunc is invoked once per accepted connection with the raw connection
// handle. The protocol layer built on top of this core registers its
// per-connection pipeline here; the core itself registers nothing.
type AcceptFunc func(conn net.Conn)
