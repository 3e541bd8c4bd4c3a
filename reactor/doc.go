// File: reactor/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package reactor implements poller groups: owned pools of worker goroutines
// that run I/O readiness work for the server lifecycle. A group is created
// through the transport selector, lives exactly as long as one server start,
// and reaches quiescence on graceful shutdown once queued work has drained
// and every worker has exited.
package reactor
