// File: concurrency/future.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Single-shot completion primitive used by the server lifecycle to report
// asynchronous outcomes (bind, graceful shutdown). A Future completes exactly
// once regardless of how many paths race to finish it; the error value is
// published before the done channel closes, so readers never observe a torn
// state.

package concurrency

import (
	"errors"
	"time"
)

// ErrWaitTimeout is returned by WaitTimeout when the ceiling elapses before
// the future completes. The underlying operation keeps running; only the wait
// is abandoned.
var ErrWaitTimeout = errors.New("wait timeout")

// Future is a one-shot asynchronous result. The zero value is not usable;
// construct with NewFuture or Completed.
type Future struct {
	done chan struct{}
	sem  chan struct{} // buffered size 1, grants the right to complete
	err  error
}

// NewFuture returns a pending future.
func NewFuture() *Future {
	f := &Future{
		done: make(chan struct{}),
		sem:  make(chan struct{}, 1),
	}
	f.sem <- struct{}{}
	return f
}

// Completed returns a future that is already finished with err (nil for
// success).
func Completed(err error) *Future {
	f := NewFuture()
	f.Complete(err)
	return f
}

// Complete finishes the future with err. Only the first call has any effect;
// later completions from racing paths are dropped.
func (f *Future) Complete(err error) {
	select {
	case <-f.sem:
		f.err = err
		close(f.done)
	default:
	}
}

// Done returns a channel closed on completion.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Err returns the completion error, or nil while the future is still
// pending. Use Done to distinguish "pending" from "completed successfully".
func (f *Future) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Wait blocks until completion and returns the result.
func (f *Future) Wait() error {
	<-f.done
	return f.err
}

// WaitTimeout blocks up to d for completion. On the ceiling it returns
// ErrWaitTimeout and control returns to the caller; the future itself stays
// pending until its operation finishes.
func (f *Future) WaitTimeout(d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-f.done:
		return f.err
	case <-timer.C:
		return ErrWaitTimeout
	}
}

// Combine returns a future that completes once every input future has
// completed. Individual failures are joined with errors.Join; one slow or
// failed input never masks the others.
func Combine(futures ...*Future) *Future {
	out := NewFuture()
	go func() {
		errs := make([]error, 0, len(futures))
		for _, f := range futures {
			if err := f.Wait(); err != nil {
				errs = append(errs, err)
			}
		}
		out.Complete(errors.Join(errs...))
	}()
	return out
}
