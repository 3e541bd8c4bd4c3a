// File: internal/logging/logging.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package logging provides the zerolog constructor used by the example
// binaries. Library packages stay silent by default (zerolog.Nop) and only
// log when a caller wires a logger in through the options.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a timestamped JSON logger tagged with the component name.
func New(component string) zerolog.Logger {
	return zerolog.New(os.Stderr).With().
		Timestamp().
		Str("component", component).
		Logger()
}
