//go:build !linux

// File: transport/probe_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Capability probe for platforms without epoll.

package transport

import "github.com/momentics/hioload-listen/api"

// probeListenerKind always selects the portable implementation off Linux.
func probeListenerKind() api.ListenerKind {
	return api.ListenerPortable
}
