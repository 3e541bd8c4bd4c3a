//go:build !linux

// File: transport/listener_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Off Linux the native kind is never selected by the probe, but a caller
// (or a fake selector in tests) may still request it; honor the request with
// the portable implementation instead of failing.

package transport

// listenNative falls back to the portable listener.
func listenNative(host string, port, backlog int) (Listener, error) {
	return listenPortable(host, port)
}
