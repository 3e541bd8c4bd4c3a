// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Common error taxonomy for hioload-listen. Every failure of a public
// operation is reported through one of these sentinels or wrapping types,
// never swallowed and never logged-only.

package api

import (
	"errors"
	"fmt"
)

// Sentinel errors used across the library.
var (
	// ErrInvalidArgument reports malformed input at a public boundary
	// (port out of range, nil collaborator, non-positive worker count,
	// empty name prefix). Always detected before any resource allocation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAlreadyStarted reports a Start call on an instance that is already
	// starting or running. A Server is single-use; construct a new instance
	// to bind again.
	ErrAlreadyStarted = errors.New("server already started")

	// ErrServerClosed reports that the server was stopped while an
	// operation was still in flight.
	ErrServerClosed = errors.New("server closed")

	// ErrGroupClosed is returned by PollerGroup.Submit after Shutdown.
	ErrGroupClosed = errors.New("poller group closed")

	// ErrListenerClosed is returned by Listener.Accept once the listening
	// socket has been closed. Signals graceful shutdown, not a fault.
	ErrListenerClosed = errors.New("listener closed")

	// ErrCloseTimeout reports that the bounded-time Close exceeded its
	// ceiling before both poller groups reached quiescence.
	ErrCloseTimeout = errors.New("close timeout")

	// ErrNotSupported reports an operation the underlying transport does
	// not implement (e.g. deadlines on raw epoll connections).
	ErrNotSupported = errors.New("operation not supported")
)

// BindError wraps the transport-level cause of a failed bind attempt.
// The requested port is recorded so callers can distinguish privileged-port
// failures from ordinary address-in-use conditions.
type BindError struct {
	Port  int
	Cause error
}

// Error implements the error interface.
func (e *BindError) Error() string {
	return fmt.Sprintf("bind port %d: %v", e.Port, e.Cause)
}

// Unwrap exposes the underlying OS cause for errors.Is/As.
func (e *BindError) Unwrap() error { return e.Cause }

// ShutdownError wraps failures reported by poller groups during graceful
// shutdown. A failure of one group never blocks the other; both causes are
// joined before being surfaced.
type ShutdownError struct {
	Cause error
}

// Error implements the error interface.
func (e *ShutdownError) Error() string {
	return fmt.Sprintf("graceful shutdown: %v", e.Cause)
}

// Unwrap exposes the joined per-group causes.
func (e *ShutdownError) Unwrap() error { return e.Cause }
