// File: control/metrics_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package control

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetricsUnregistered(t *testing.T) {
	// nil registerer must yield working collectors.
	m := NewMetrics(nil)
	m.AcceptedTotal.Inc()
	m.AcceptedTotal.Inc()
	if got := testutil.ToFloat64(m.AcceptedTotal); got != 2 {
		t.Fatalf("accepted_connections_total = %v, want 2", got)
	}
	m.ServerState.Set(2)
	if got := testutil.ToFloat64(m.ServerState); got != 2 {
		t.Fatalf("server_state = %v, want 2", got)
	}
}

func TestNewMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.StartsTotal.Inc()
	m.BindFailures.Inc()
	m.PollerWorkers.Set(5)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}
	if len(families) != 5 {
		t.Fatalf("gathered %d metric families, want 5", len(families))
	}
}
