// File: concurrency/future_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Tests for the single-shot Future primitive.

package concurrency

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestFutureCompleteOnce(t *testing.T) {
	f := NewFuture()
	first := errors.New("first")

	var wg sync.WaitGroup
	f.Complete(first)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f.Complete(errors.New("late"))
		}(i)
	}
	wg.Wait()

	if err := f.Wait(); err != first {
		t.Fatalf("Wait() = %v, want the first completion error", err)
	}
}

func TestFutureErrWhilePending(t *testing.T) {
	f := NewFuture()
	if err := f.Err(); err != nil {
		t.Fatalf("Err() on pending future = %v, want nil", err)
	}
	select {
	case <-f.Done():
		t.Fatal("Done() closed on pending future")
	default:
	}
}

func TestFutureWaitTimeout(t *testing.T) {
	f := NewFuture()
	start := time.Now()
	err := f.WaitTimeout(20 * time.Millisecond)
	if !errors.Is(err, ErrWaitTimeout) {
		t.Fatalf("WaitTimeout() = %v, want ErrWaitTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("WaitTimeout blocked for %v, expected bounded wait", elapsed)
	}

	// Completion after the timeout is still observable.
	f.Complete(nil)
	if err := f.Wait(); err != nil {
		t.Fatalf("Wait() after late completion = %v", err)
	}
}

func TestCompleted(t *testing.T) {
	if err := Completed(nil).Wait(); err != nil {
		t.Fatalf("Completed(nil).Wait() = %v", err)
	}
	cause := errors.New("boom")
	if err := Completed(cause).Wait(); err != cause {
		t.Fatalf("Completed(cause).Wait() = %v, want %v", err, cause)
	}
}

func TestCombineJoinsErrors(t *testing.T) {
	e1 := errors.New("one")
	e2 := errors.New("two")
	combined := Combine(Completed(e1), Completed(nil), Completed(e2))

	err := combined.Wait()
	if err == nil {
		t.Fatal("Combine() with failed inputs completed successfully")
	}
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("combined error %v does not contain both causes", err)
	}
}

func TestCombineAllSuccessful(t *testing.T) {
	f1 := NewFuture()
	f2 := NewFuture()
	combined := Combine(f1, f2)

	select {
	case <-combined.Done():
		t.Fatal("Combine completed before inputs")
	case <-time.After(10 * time.Millisecond):
	}

	f1.Complete(nil)
	f2.Complete(nil)
	if err := combined.Wait(); err != nil {
		t.Fatalf("Combine of successful futures = %v", err)
	}
}
