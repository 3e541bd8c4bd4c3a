// File: server/state.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

// State is the lifecycle phase of a Server instance. Transitions are
// serialized under the server's state lock; the only legal paths are
// Idle→Starting→Running→Stopping→Stopped and Starting→Stopped on bind
// failure.
type State int32

const (
	// StateIdle: constructed, never started.
	StateIdle State = iota
	// StateStarting: bind in flight on the acceptor worker.
	StateStarting
	// StateRunning: socket bound, port known, accept loop live.
	StateRunning
	// StateStopping: graceful shutdown in flight.
	StateStopping
	// StateStopped: terminal; all resources released.
	StateStopped
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
