// File: server/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Functional options for Server construction.

package server

import (
	"github.com/rs/zerolog"

	"github.com/momentics/hioload-listen/api"
	"github.com/momentics/hioload-listen/control"
)

// Option customizes server initialization.
type Option func(*Server)

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithAcceptHook registers the per-connection initializer invoked once for
// each accepted connection. Without it accepted connections are left to the
// protocol layer untouched.
func WithAcceptHook(hook api.AcceptFunc) Option {
	return func(s *Server) {
		s.hook = hook
	}
}

// WithLogger routes lifecycle logs through log. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithMetrics attaches prometheus instrumentation.
func WithMetrics(m *control.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}
