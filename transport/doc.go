// File: transport/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package transport selects and implements the platform I/O primitives for
// the listener core. The default selector probes host capabilities and picks
// the native epoll-backed listener on Linux, falling back to a portable
// net.Listener implementation everywhere else. All OS-specific branching is
// isolated here so the server lifecycle stays platform-neutral.
package transport
