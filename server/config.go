// File: server/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds server-side tunables. The bind port is not configuration; it
// is the argument to Start.
type Config struct {
	// Host restricts the bind address. Empty binds all interfaces.
	Host string `env:"HOST" envDefault:""`
	// Backlog is the listen(2) backlog for the native listener.
	Backlog int `env:"BACKLOG" envDefault:"128"`
	// WorkerCount sizes the worker poller group. 0 uses host parallelism.
	WorkerCount int `env:"WORKERS" envDefault:"0"`
	// CloseTimeout bounds the scoped Close wait.
	CloseTimeout time.Duration `env:"CLOSE_TIMEOUT" envDefault:"30s"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:         "",
		Backlog:      128,
		WorkerCount:  0,
		CloseTimeout: 30 * time.Second,
	}
}

// ConfigFromEnv populates a Config from HIOLOAD_-prefixed environment
// variables, falling back to the defaults above.
func ConfigFromEnv() (*Config, error) {
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "HIOLOAD_"}); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	return &cfg, nil
}

// normalize fills invalid values with defaults.
func (c *Config) normalize() {
	if c.Backlog <= 0 {
		c.Backlog = 128
	}
	if c.WorkerCount < 0 {
		c.WorkerCount = 0
	}
	if c.CloseTimeout <= 0 {
		c.CloseTimeout = 30 * time.Second
	}
}
