// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package schedule

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matt-FFFFFF/chore/internal/ctxlog"
)

var (
	// ErrAlreadyRunning is returned by Run when the loop of the handle is already running.
	ErrAlreadyRunning = errors.New("schedule is already running")
	// ErrTerminated is returned by Run when the handle has already terminated.
	ErrTerminated = errors.New("schedule has terminated")
	// ErrInvalidSchedule is returned by Run when the action is nil, the interval is not positive or MaxRuns is negative.
	ErrInvalidSchedule = errors.New("invalid schedule")
)

// State is the lifecycle state of a Handle.
type State int32

const (
	StateIdle       State = iota // Created, Run not called yet.
	StateRunning                 // The loop is running.
	StateTerminated              // MaxRuns reached, cancelled or the context ended.
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Tick describes one invocation of the action.
type Tick struct {
	Number    int // 1-based
	StartedAt time.Time
	Duration  time.Duration
	Err       error // The fault, nil when the action succeeded
}

// Handle is a single periodic schedule. Its fields must not be changed once Run has been called.
// The observers (RunsCompleted, State...) are safe to call from any goroutine.
type Handle struct {
	Label    string
	Action   Action
	Interval time.Duration
	MaxRuns  int                                 // 0 means unbounded
	OnTick   func(ctx context.Context, tick Tick) // Called after every tick, may be nil

	state     atomic.Int32
	runs      atomic.Int64
	faults    atomic.Int64
	mu        sync.Mutex
	lastFault error
	cancelCh  chan struct{}
	once      sync.Once
}

// New creates an idle handle.
func New(label string, action Action, interval time.Duration, maxRuns int) *Handle {
	return &Handle{
		Label:    label,
		Action:   action,
		Interval: interval,
		MaxRuns:  maxRuns,
	}
}

// Run blocks until MaxRuns is reached, Cancel is called or ctx ends.
// It returns nil in the first two cases and ctx.Err() in the last.
func (h *Handle) Run(ctx context.Context) error {
	if h.Action == nil || h.Interval <= 0 || h.MaxRuns < 0 {
		return ErrInvalidSchedule
	}

	if !h.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		if h.State() == StateTerminated {
			return ErrTerminated
		}

		return ErrAlreadyRunning
	}

	defer h.state.Store(int32(StateTerminated))

	logger := ctxlog.Logger(ctx).
		With("runnableType", "Schedule").
		With("label", h.Label)

	logger.Debug("schedule started", "interval", h.Interval.String(), "maxRuns", h.MaxRuns)

	cancelled := h.cancelled()

	for n := 1; ; n++ {
		select {
		case <-cancelled:
			logger.Info("schedule cancelled", "runsCompleted", h.RunsCompleted())
			return nil
		case <-ctx.Done():
			logger.Info("schedule context done", "runsCompleted", h.RunsCompleted(), "error", ctx.Err())
			return ctx.Err() //nolint:wrapcheck
		default:
		}

		h.tick(ctx, n, logger)

		if h.MaxRuns > 0 && n >= h.MaxRuns {
			logger.Info("schedule finished", "runsCompleted", h.RunsCompleted(), "faults", h.Faults())
			return nil
		}

		timer := time.NewTimer(h.Interval)

		select {
		case <-timer.C:
		case <-cancelled:
			timer.Stop()
			logger.Info("schedule cancelled", "runsCompleted", h.RunsCompleted())

			return nil
		case <-ctx.Done():
			timer.Stop()
			logger.Info("schedule context done", "runsCompleted", h.RunsCompleted(), "error", ctx.Err())

			return ctx.Err() //nolint:wrapcheck
		}
	}
}

func (h *Handle) tick(ctx context.Context, n int, logger *slog.Logger) {
	t := Tick{Number: n, StartedAt: time.Now()}

	logger.Debug("tick", "number", n)

	t.Err = runAction(ctx, h.Action)
	t.Duration = time.Since(t.StartedAt)

	if t.Err != nil {
		h.faults.Add(1)
		h.mu.Lock()
		h.lastFault = t.Err
		h.mu.Unlock()

		logger.Warn("scheduled action fault", "number", n, "error", t.Err)
	}

	h.runs.Add(1)

	if h.OnTick != nil {
		h.OnTick(ctx, t)
	}
}

// Cancel requests the loop to stop. An in-flight action is not interrupted.
// Cancel is idempotent and may be called before Run.
func (h *Handle) Cancel() {
	ch := h.cancelled()
	h.once.Do(func() { close(ch) })
}

func (h *Handle) cancelled() chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancelCh == nil {
		h.cancelCh = make(chan struct{})
	}

	return h.cancelCh
}

// RunsCompleted returns the number of ticks completed, faulted or not.
func (h *Handle) RunsCompleted() int {
	return int(h.runs.Load())
}

// Faults returns the number of ticks whose action failed or panicked.
func (h *Handle) Faults() int {
	return int(h.faults.Load())
}

// LastFault returns the most recent action fault, or nil.
func (h *Handle) LastFault() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.lastFault
}

// State returns the lifecycle state.
func (h *Handle) State() State {
	return State(h.state.Load())
}

// Active reports whether the loop is running.
func (h *Handle) Active() bool {
	return h.State() == StateRunning
}
