// File: reactor/group_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Tests for poller group dispatch, naming, and graceful shutdown.

package reactor

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/momentics/hioload-listen/api"
)

func newTestGroup(t *testing.T, workers int, prefix string) *Group {
	t.Helper()
	g, err := NewGroup(workers, prefix, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGroup(%d, %q) error: %v", workers, prefix, err)
	}
	return g
}

func TestNewGroupValidation(t *testing.T) {
	cases := []struct {
		name    string
		workers int
		prefix  string
	}{
		{"zero workers", 0, "w"},
		{"negative workers", -3, "w"},
		{"empty prefix", 2, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := NewGroup(tc.workers, tc.prefix, zerolog.Nop())
			if !errors.Is(err, api.ErrInvalidArgument) {
				t.Fatalf("NewGroup error = %v, want ErrInvalidArgument", err)
			}
			if g != nil {
				t.Fatal("NewGroup returned a group despite invalid arguments")
			}
		})
	}
}

func TestWorkerNaming(t *testing.T) {
	g := newTestGroup(t, 3, "acceptor")
	defer g.Shutdown().Wait()

	want := []string{"acceptor-1", "acceptor-2", "acceptor-3"}
	got := g.WorkerNames()
	if len(got) != len(want) {
		t.Fatalf("WorkerNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("WorkerNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if g.Size() != 3 || g.Name() != "acceptor" {
		t.Fatalf("Size()/Name() = %d/%q", g.Size(), g.Name())
	}
}

func TestSubmitExecutesTasks(t *testing.T) {
	g := newTestGroup(t, 4, "worker")

	const n = 64
	var counter atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		if err := g.Submit(func() {
			counter.Add(1)
			wg.Done()
		}); err != nil {
			t.Fatalf("Submit error: %v", err)
		}
	}
	wg.Wait()
	if counter.Load() != n {
		t.Fatalf("executed %d tasks, want %d", counter.Load(), n)
	}
	if err := g.Shutdown().Wait(); err != nil {
		t.Fatalf("Shutdown() = %v", err)
	}
}

func TestShutdownDrainsQueuedTasks(t *testing.T) {
	g := newTestGroup(t, 1, "worker")

	release := make(chan struct{})
	var drained atomic.Bool

	// First task blocks the single worker so the second stays queued.
	if err := g.Submit(func() { <-release }); err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if err := g.Submit(func() { drained.Store(true) }); err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	fut := g.Shutdown()
	select {
	case <-fut.Done():
		t.Fatal("Shutdown completed while a task was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	if err := fut.Wait(); err != nil {
		t.Fatalf("Shutdown() = %v", err)
	}
	if !drained.Load() {
		t.Fatal("queued task was dropped instead of drained before quiescence")
	}
}

func TestSubmitAfterShutdown(t *testing.T) {
	g := newTestGroup(t, 2, "worker")
	if err := g.Shutdown().Wait(); err != nil {
		t.Fatalf("Shutdown() = %v", err)
	}
	if err := g.Submit(func() {}); !errors.Is(err, api.ErrGroupClosed) {
		t.Fatalf("Submit after shutdown = %v, want ErrGroupClosed", err)
	}
}

func TestShutdownIdempotent(t *testing.T) {
	g := newTestGroup(t, 2, "worker")
	first := g.Shutdown()
	second := g.Shutdown()
	if first != second {
		t.Fatal("repeated Shutdown() returned a different future")
	}
	if err := first.Wait(); err != nil {
		t.Fatalf("Shutdown() = %v", err)
	}
}

func TestPanicContainment(t *testing.T) {
	g := newTestGroup(t, 1, "worker")

	var after atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)
	if err := g.Submit(func() { panic("hook misbehaved") }); err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if err := g.Submit(func() {
		after.Store(true)
		wg.Done()
	}); err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	wg.Wait()
	if !after.Load() {
		t.Fatal("worker died on task panic")
	}
	g.Shutdown().Wait()
}
