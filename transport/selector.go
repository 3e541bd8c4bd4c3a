// File: transport/selector.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Default transport selector. Stateless: every call probes the host fresh
// and every poller group it creates is independently owned by the caller.

package transport

import (
	"github.com/rs/zerolog"

	"github.com/momentics/hioload-listen/api"
	"github.com/momentics/hioload-listen/reactor"
)

// Selector is the production api.TransportSelector.
type Selector struct {
	log zerolog.Logger
}

// SelectorOption customizes selector construction.
type SelectorOption func(*Selector)

// WithLogger routes worker lifecycle debug logs through log.
func WithLogger(log zerolog.Logger) SelectorOption {
	return func(s *Selector) {
		s.log = log
	}
}

// NewSelector builds a selector. Logging defaults to a no-op logger.
func NewSelector(opts ...SelectorOption) *Selector {
	s := &Selector{log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewPollerGroup implements api.TransportSelector.
func (s *Selector) NewPollerGroup(workers int, namePrefix string) (api.PollerGroup, error) {
	return reactor.NewGroup(workers, namePrefix, s.log)
}

// ListenerKind implements api.TransportSelector. Pure capability probe,
// deterministic for a fixed platform, re-evaluated on each call.
func (s *Selector) ListenerKind() api.ListenerKind {
	return probeListenerKind()
}

var _ api.TransportSelector = (*Selector)(nil)
