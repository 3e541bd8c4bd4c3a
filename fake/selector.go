// File: fake/selector.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fake transport selector and poller groups for testing. Provides
// predictable, controllable behavior: injectable allocation failures, a
// forced listener kind, and per-group shutdown delays and errors so the
// lifecycle's failure branches and the bounded close can be exercised
// without touching platform transports.

package fake

import (
	"fmt"
	"sync"
	"time"

	"github.com/momentics/hioload-listen/api"
	"github.com/momentics/hioload-listen/concurrency"
)

// Selector is a fake api.TransportSelector. The zero value selects the
// portable listener kind and creates well-behaved groups.
type Selector struct {
	// Kind is returned from ListenerKind.
	Kind api.ListenerKind
	// FailPrefix, when non-empty, makes NewPollerGroup fail with GroupErr
	// for that name prefix.
	FailPrefix string
	// GroupErr is the allocation error injected for FailPrefix.
	GroupErr error
	// ShutdownDelay stalls every created group's shutdown.
	ShutdownDelay time.Duration
	// ShutdownErr fails every created group's shutdown future.
	ShutdownErr error
	// TaskDelay postpones execution of every submitted task, keeping the
	// lifecycle in Starting long enough for tests to race it.
	TaskDelay time.Duration

	mu     sync.Mutex
	groups []*Group
}

// NewPollerGroup implements api.TransportSelector with the same argument
// validation as the production selector.
func (s *Selector) NewPollerGroup(workers int, namePrefix string) (api.PollerGroup, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: worker count %d, must be >= 1", api.ErrInvalidArgument, workers)
	}
	if namePrefix == "" {
		return nil, fmt.Errorf("%w: empty name prefix", api.ErrInvalidArgument)
	}
	if s.FailPrefix != "" && namePrefix == s.FailPrefix {
		err := s.GroupErr
		if err == nil {
			err = fmt.Errorf("fake allocation failure for %q", namePrefix)
		}
		return nil, err
	}

	g := &Group{
		name:          namePrefix,
		size:          workers,
		shutdownDelay: s.ShutdownDelay,
		shutdownErr:   s.ShutdownErr,
		taskDelay:     s.TaskDelay,
	}
	s.mu.Lock()
	s.groups = append(s.groups, g)
	s.mu.Unlock()
	return g, nil
}

// ListenerKind implements api.TransportSelector.
func (s *Selector) ListenerKind() api.ListenerKind {
	return s.Kind
}

// Created returns every group this selector has produced, in creation order.
// Used by tests to assert that failed starts leak no groups.
func (s *Selector) Created() []*Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Group, len(s.groups))
	copy(out, s.groups)
	return out
}

var _ api.TransportSelector = (*Selector)(nil)

// Group is a fake api.PollerGroup backed by plain goroutines.
type Group struct {
	name          string
	size          int
	shutdownDelay time.Duration
	shutdownErr   error
	taskDelay     time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup

	shutdownOnce sync.Once
	fut          *concurrency.Future
}

// Submit implements api.PollerGroup; each task runs on its own goroutine.
func (g *Group) Submit(task func()) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return api.ErrGroupClosed
	}
	g.wg.Add(1)
	g.mu.Unlock()
	go func() {
		defer g.wg.Done()
		if g.taskDelay > 0 {
			time.Sleep(g.taskDelay)
		}
		task()
	}()
	return nil
}

// Shutdown implements api.PollerGroup, honoring the injected delay and error.
func (g *Group) Shutdown() *concurrency.Future {
	g.shutdownOnce.Do(func() {
		g.mu.Lock()
		g.closed = true
		g.mu.Unlock()
		g.fut = concurrency.NewFuture()
		go func() {
			g.wg.Wait()
			if g.shutdownDelay > 0 {
				time.Sleep(g.shutdownDelay)
			}
			g.fut.Complete(g.shutdownErr)
		}()
	})
	return g.fut
}

// Size implements api.PollerGroup.
func (g *Group) Size() int { return g.size }

// Name implements api.PollerGroup.
func (g *Group) Name() string { return g.name }

// Closed reports whether shutdown has been initiated.
func (g *Group) Closed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

var _ api.PollerGroup = (*Group)(nil)
