// File: control/metrics.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Prometheus instrumentation for the listener core. Collectors are owned by
// the Metrics value; passing a nil registerer creates working but
// unregistered collectors, which keeps tests free of global registry state.

package control

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics aggregates the listener core's collectors.
type Metrics struct {
	StartsTotal   prometheus.Counter
	BindFailures  prometheus.Counter
	AcceptedTotal prometheus.Counter
	ServerState   prometheus.Gauge
	PollerWorkers prometheus.Gauge
}

// NewMetrics builds the collector set. reg may be nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		StartsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hioload",
			Subsystem: "listen",
			Name:      "starts_total",
			Help:      "Total number of accepted start attempts",
		}),
		BindFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hioload",
			Subsystem: "listen",
			Name:      "bind_failures_total",
			Help:      "Total number of failed bind attempts",
		}),
		AcceptedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hioload",
			Subsystem: "listen",
			Name:      "accepted_connections_total",
			Help:      "Total number of accepted inbound connections",
		}),
		ServerState: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "hioload",
			Subsystem: "listen",
			Name:      "server_state",
			Help:      "Current lifecycle state (0 idle, 1 starting, 2 running, 3 stopping, 4 stopped)",
		}),
		PollerWorkers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "hioload",
			Subsystem: "listen",
			Name:      "poller_workers",
			Help:      "Number of live poller workers across both groups",
		}),
	}
}
