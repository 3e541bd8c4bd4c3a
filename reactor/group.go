// File: reactor/group.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Group implements api.PollerGroup: a fixed-size pool of named poller
// workers with round-robin task dispatch and a graceful, future-reporting
// shutdown.

package reactor

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/momentics/hioload-listen/api"
	"github.com/momentics/hioload-listen/concurrency"
)

// Group is an owned pool of poller workers. Create through NewGroup; the
// zero value is not usable.
type Group struct {
	name    string
	log     zerolog.Logger
	workers []*worker
	next    atomic.Uint64
	wg      sync.WaitGroup
	closed  atomic.Bool

	shutdownOnce sync.Once
	shutdownFut  *concurrency.Future
}

// NewGroup spawns workers goroutines named "{namePrefix}-{seq}", seq starting
// at 1. workers must be >= 1 and namePrefix non-empty; violations fail with
// api.ErrInvalidArgument before any goroutine is spawned.
func NewGroup(workers int, namePrefix string, log zerolog.Logger) (*Group, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: worker count %d, must be >= 1", api.ErrInvalidArgument, workers)
	}
	if namePrefix == "" {
		return nil, fmt.Errorf("%w: empty name prefix", api.ErrInvalidArgument)
	}

	g := &Group{
		name:    namePrefix,
		log:     log,
		workers: make([]*worker, workers),
	}
	for i := 0; i < workers; i++ {
		g.workers[i] = newWorker(fmt.Sprintf("%s-%d", namePrefix, i+1))
	}
	for _, w := range g.workers {
		g.wg.Add(1)
		go w.run(log, &g.wg)
	}
	return g, nil
}

// Submit enqueues a task on the next worker in round-robin order.
func (g *Group) Submit(task func()) error {
	if g.closed.Load() {
		return api.ErrGroupClosed
	}
	idx := (g.next.Add(1) - 1) % uint64(len(g.workers))
	if !g.workers[idx].push(task) {
		return api.ErrGroupClosed
	}
	return nil
}

// Shutdown stops the group gracefully. Queued tasks drain before workers
// exit; the returned future completes at quiescence. Idempotent: repeated
// calls return the same future.
func (g *Group) Shutdown() *concurrency.Future {
	g.shutdownOnce.Do(func() {
		g.closed.Store(true)
		g.shutdownFut = concurrency.NewFuture()
		for _, w := range g.workers {
			w.close()
		}
		go func() {
			g.wg.Wait()
			g.log.Debug().Str("group", g.name).Msg("poller group quiescent")
			g.shutdownFut.Complete(nil)
		}()
	})
	return g.shutdownFut
}

// Size returns the number of workers in the group.
func (g *Group) Size() int { return len(g.workers) }

// Name returns the group's name prefix.
func (g *Group) Name() string { return g.name }

// WorkerNames returns the deterministic worker names, in creation order.
func (g *Group) WorkerNames() []string {
	names := make([]string, len(g.workers))
	for i, w := range g.workers {
		names[i] = w.name
	}
	return names
}
