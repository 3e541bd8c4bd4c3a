// File: reactor/worker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A single poller worker: named goroutine draining a FIFO inbox. The inbox is
// a ring-backed queue guarded by a mutex and condition variable; tasks queued
// before close still run, which is what makes group shutdown graceful rather
// than abortive.

package reactor

import (
	"sync"

	"github.com/eapache/queue"
	"github.com/rs/zerolog"
)

// worker owns one inbox and one goroutine. Workers are created only by
// NewGroup and named "{prefix}-{seq}" with seq starting at 1.
type worker struct {
	name string

	mu     sync.Mutex
	cond   *sync.Cond
	inbox  *queue.Queue
	closed bool
}

func newWorker(name string) *worker {
	w := &worker{
		name:  name,
		inbox: queue.New(),
	}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// push enqueues a task. Returns false once the worker is closed.
func (w *worker) push(task func()) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	w.inbox.Add(task)
	w.cond.Signal()
	return true
}

// close marks the worker for exit. The run loop drains the inbox first.
func (w *worker) close() {
	w.mu.Lock()
	w.closed = true
	w.cond.Broadcast()
	w.mu.Unlock()
}

// run drains tasks until closed and empty.
func (w *worker) run(log zerolog.Logger, wg *sync.WaitGroup) {
	defer wg.Done()
	log.Debug().Str("worker", w.name).Msg("poller worker started")
	for {
		w.mu.Lock()
		for w.inbox.Length() == 0 && !w.closed {
			w.cond.Wait()
		}
		if w.inbox.Length() == 0 {
			w.mu.Unlock()
			break
		}
		task := w.inbox.Remove().(func())
		w.mu.Unlock()
		w.execute(log, task)
	}
	log.Debug().Str("worker", w.name).Msg("poller worker stopped")
}

// execute runs one task, containing panics so a misbehaving hook cannot take
// the worker down with it.
func (w *worker) execute(log zerolog.Logger, task func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("worker", w.name).Interface("panic", r).Msg("task panicked")
		}
	}()
	task()
}
