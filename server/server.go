// File: server/server.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Server owns the bind/listen socket and both poller groups for one
// lifecycle: non-blocking start with an async bind, idempotent graceful stop,
// and a bounded-time Close for scoped cleanup. An instance is single-use;
// construct a new Server to bind again.
//
// All state transitions are serialized under one mutex so a late-arriving
// bind completion and a concurrent Stop can never race; Port reads are a
// lock-free atomic load and always observe a whole value.

package server

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/momentics/hioload-listen/affinity"
	"github.com/momentics/hioload-listen/api"
	"github.com/momentics/hioload-listen/concurrency"
	"github.com/momentics/hioload-listen/control"
	"github.com/momentics/hioload-listen/transport"
)

// Server is the TCP listener lifecycle. Create with New; the zero value is
// not usable.
type Server struct {
	selector api.TransportSelector
	cfg      *Config
	log      zerolog.Logger
	metrics  *control.Metrics
	hook     api.AcceptFunc

	mu       sync.Mutex
	state    State
	acceptor api.PollerGroup
	workers  api.PollerGroup
	listener transport.Listener
	startFut *concurrency.Future
	stopFut  *concurrency.Future

	port atomic.Int32
}

// New constructs an idle server. selector must be non-nil.
func New(selector api.TransportSelector, opts ...Option) (*Server, error) {
	if selector == nil {
		return nil, fmt.Errorf("%w: nil transport selector", api.ErrInvalidArgument)
	}
	s := &Server{
		selector: selector,
		cfg:      DefaultConfig(),
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	s.cfg.normalize()
	s.port.Store(-1)
	return s, nil
}

// Start binds the server on port (0 requests an OS-assigned ephemeral port)
// and returns without blocking. The future resolves once the socket is bound
// and fails with the underlying cause if the bind is refused. Start is
// accepted exactly once per instance; concurrent or repeated calls fail with
// api.ErrAlreadyStarted and leave existing resources untouched.
func (s *Server) Start(port int) *concurrency.Future {
	if port < 0 || port > 65535 {
		return concurrency.Completed(
			fmt.Errorf("%w: port %d outside [0, 65535]", api.ErrInvalidArgument, port))
	}

	s.mu.Lock()
	if s.state != StateIdle {
		state := s.state
		s.mu.Unlock()
		return concurrency.Completed(fmt.Errorf("%w (state %s)", api.ErrAlreadyStarted, state))
	}
	s.state = StateStarting
	s.publishStateLocked()
	fut := concurrency.NewFuture()
	s.startFut = fut

	acceptor, err := s.selector.NewPollerGroup(1, "acceptor")
	if err != nil {
		s.state = StateStopped
		s.publishStateLocked()
		s.mu.Unlock()
		fut.Complete(fmt.Errorf("allocate acceptor group: %w", err))
		return fut
	}
	workerCount := s.cfg.WorkerCount
	if workerCount == 0 {
		workerCount = affinity.Parallelism()
	}
	workers, err := s.selector.NewPollerGroup(workerCount, "worker")
	if err != nil {
		s.state = StateStopped
		s.publishStateLocked()
		s.mu.Unlock()
		acceptor.Shutdown()
		fut.Complete(fmt.Errorf("allocate worker group: %w", err))
		return fut
	}
	s.acceptor = acceptor
	s.workers = workers
	if s.metrics != nil {
		s.metrics.StartsTotal.Inc()
		s.metrics.PollerWorkers.Set(float64(acceptor.Size() + workers.Size()))
	}
	kind := s.selector.ListenerKind()
	s.mu.Unlock()

	s.log.Debug().Int("port", port).Stringer("kind", kind).
		Int("workers", workerCount).Msg("starting server")

	// The bind runs on the acceptor worker. Every completion path, including
	// a panic inside the transport, funnels into finishStart exactly once.
	bind := func() {
		defer func() {
			if r := recover(); r != nil {
				s.finishStart(nil, fmt.Errorf("bind panic: %v", r), port)
			}
		}()
		lis, err := transport.Listen(kind, s.cfg.Host, port, s.cfg.Backlog)
		s.finishStart(lis, err, port)
	}
	if err := acceptor.Submit(bind); err != nil {
		s.finishStart(nil, err, port)
	}
	return fut
}

// finishStart is the single finalize step for the start sequence. On success
// it records the port and hands the acceptor worker to the accept loop; on
// failure it unwinds every provisionally-allocated resource, including the
// partially-created listening socket, before rejecting the start future.
func (s *Server) finishStart(lis transport.Listener, bindErr error, reqPort int) {
	s.mu.Lock()
	fut := s.startFut

	if s.state != StateStarting {
		// A concurrent Stop won the race. Its shutdown sequence owns the
		// groups; a late successful bind only needs its socket closed.
		s.mu.Unlock()
		if lis != nil {
			_ = lis.Close()
		}
		fut.Complete(api.ErrServerClosed)
		return
	}

	if bindErr != nil {
		acceptor, workers := s.acceptor, s.workers
		s.acceptor, s.workers = nil, nil
		s.state = StateStopped
		s.port.Store(-1)
		s.publishStateLocked()
		s.mu.Unlock()

		if lis != nil {
			_ = lis.Close()
		}
		acceptor.Shutdown()
		workers.Shutdown()
		if s.metrics != nil {
			s.metrics.BindFailures.Inc()
			s.metrics.PollerWorkers.Set(0)
		}
		if reqPort > 0 && reqPort < 1024 {
			s.log.Error().Err(bindErr).Int("port", reqPort).
				Msg("bind failed; privileged port may need elevated permissions")
		} else {
			s.log.Error().Err(bindErr).Int("port", reqPort).
				Msg("bind failed; port may be in use or inaccessible")
		}
		fut.Complete(&api.BindError{Port: reqPort, Cause: bindErr})
		return
	}

	s.listener = lis
	s.state = StateRunning
	s.port.Store(int32(lis.Port()))
	s.publishStateLocked()
	workers := s.workers
	s.mu.Unlock()

	s.log.Info().Int("port", lis.Port()).Stringer("kind", lis.Kind()).Msg("server started")
	fut.Complete(nil)

	// Occupies the acceptor worker until the listener closes.
	s.acceptLoop(lis, workers)
}

// acceptLoop hands each accepted connection to the worker group, which runs
// the caller-supplied initializer. Exits when the listener is closed.
// Consecutive accept errors back off from 5ms up to 1s so a persistent
// condition such as fd exhaustion does not spin the acceptor worker.
func (s *Server) acceptLoop(lis transport.Listener, workers api.PollerGroup) {
	var delay time.Duration
	for {
		conn, err := lis.Accept()
		if err != nil {
			if errors.Is(err, api.ErrListenerClosed) {
				return
			}
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay *= 2
			}
			if delay > time.Second {
				delay = time.Second
			}
			s.log.Warn().Err(err).Dur("retry_in", delay).Msg("accept error")
			time.Sleep(delay)
			continue
		}
		delay = 0
		if s.metrics != nil {
			s.metrics.AcceptedTotal.Inc()
		}
		c := conn
		if err := workers.Submit(func() {
			if s.hook != nil {
				s.hook(c)
			}
		}); err != nil {
			// Worker group already shutting down; the connection cannot be
			// initialized anymore.
			_ = c.Close()
		}
	}
}

// Port returns the bound port while running and -1 in every other state.
// Safe to call concurrently from any goroutine; never blocks.
func (s *Server) Port() int {
	return int(s.port.Load())
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stop triggers graceful shutdown of the listener and both poller groups and
// returns without blocking. The future resolves once both groups report
// quiescence; a failed group shutdown surfaces as api.ShutdownError but never
// blocks the other group. Stop is idempotent from any state: with no
// resources allocated it resolves immediately, and repeated calls share one
// future.
func (s *Server) Stop() *concurrency.Future {
	s.mu.Lock()
	if s.stopFut != nil {
		fut := s.stopFut
		s.mu.Unlock()
		return fut
	}
	if s.acceptor == nil && s.workers == nil {
		// Never started, or a failed start already unwound everything.
		s.mu.Unlock()
		return concurrency.Completed(nil)
	}

	acceptor, workers, lis := s.acceptor, s.workers, s.listener
	s.acceptor, s.workers, s.listener = nil, nil, nil
	s.state = StateStopping
	s.port.Store(-1)
	s.publishStateLocked()
	fut := concurrency.NewFuture()
	s.stopFut = fut
	s.mu.Unlock()

	s.log.Info().Msg("stopping server")
	if lis != nil {
		_ = lis.Close()
	}

	combined := concurrency.Combine(acceptor.Shutdown(), workers.Shutdown())
	go func() {
		err := combined.Wait()
		s.mu.Lock()
		s.state = StateStopped
		s.publishStateLocked()
		s.mu.Unlock()
		if s.metrics != nil {
			s.metrics.PollerWorkers.Set(0)
		}
		if err != nil {
			fut.Complete(&api.ShutdownError{Cause: err})
			return
		}
		s.log.Info().Msg("server stopped")
		fut.Complete(nil)
	}()
	return fut
}

// Close is the bounded-time variant of Stop for scoped cleanup: it waits up
// to CloseTimeout for quiescence and converts a stall into api.ErrCloseTimeout
// instead of hanging. After the ceiling the shutdown keeps draining in the
// background; the caller regains control in a best-effort state.
func (s *Server) Close() error {
	if err := s.Stop().WaitTimeout(s.cfg.CloseTimeout); err != nil {
		if errors.Is(err, concurrency.ErrWaitTimeout) {
			return fmt.Errorf("%w after %v", api.ErrCloseTimeout, s.cfg.CloseTimeout)
		}
		return err
	}
	return nil
}

// publishStateLocked mirrors the state into the metrics gauge. Caller holds mu.
func (s *Server) publishStateLocked() {
	if s.metrics != nil {
		s.metrics.ServerState.Set(float64(s.state))
	}
}
