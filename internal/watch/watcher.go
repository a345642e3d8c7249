// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matt-FFFFFF/chore/internal/ctxlog"
	"github.com/spf13/afero"
)

var (
	// ErrWatchFault is wrapped by every *WatchFault.
	ErrWatchFault = errors.New("watch fault")
	// ErrAlreadyRunning is returned by Run when the watcher loop is already running.
	ErrAlreadyRunning = errors.New("watcher is already running")
	// ErrInvalidWatch is returned by Run when the root is empty or the interval is not positive.
	ErrInvalidWatch = errors.New("invalid watch")
	// ErrHandlerPanic is wrapped by the error recorded when a handler panics.
	ErrHandlerPanic = errors.New("change handler panic")
)

// WatchFault reports that the tree could not be read. It ends the watch session.
type WatchFault struct {
	Root string
	Err  error
}

func (e *WatchFault) Error() string {
	return fmt.Sprintf("watch fault on %s: %v", e.Root, e.Err)
}

// Unwrap returns ErrWatchFault and the underlying error.
func (e *WatchFault) Unwrap() []error {
	return []error{ErrWatchFault, e.Err}
}

// Handler is notified of non-empty change sets.
type Handler interface {
	OnChange(ctx context.Context, changes ChangeSet) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, changes ChangeSet) error

// OnChange calls f(ctx, changes).
func (f HandlerFunc) OnChange(ctx context.Context, changes ChangeSet) error {
	return f(ctx, changes)
}

// PollReport describes one poll.
type PollReport struct {
	Number     int // 1-based
	Baseline   bool
	Files      int // Tracked files after the poll
	Changes    ChangeSet
	Duration   time.Duration
	Err        error // Non-nil when the poll faulted
	HandlerErr error // Error returned by the handler, if it ran and failed
}

// Watcher polls a directory tree. It is owned by a single caller;
// only Stop and the counters may be used from other goroutines.
type Watcher struct {
	Root          string
	Interval      time.Duration
	Handler       Handler                                  // May be nil, changes are then only logged
	IncludeHidden bool                                     // Track entries whose name starts with '.'
	OnPoll        func(ctx context.Context, report PollReport) // Called after every poll, may be nil

	fs            afero.Fs
	snapshot      Snapshot
	polls         int
	handlerFaults atomic.Int64
	running       atomic.Bool
	mu            sync.Mutex
	stopCh        chan struct{}
	once          sync.Once
}

// New returns a watcher over the filesystem returned by FsFactory.
func New(root string, interval time.Duration, handler Handler) *Watcher {
	return &Watcher{
		Root:     root,
		Interval: interval,
		Handler:  handler,
		fs:       FsFactory(),
	}
}

func (w *Watcher) filesystem() afero.Fs {
	if w.fs == nil {
		w.fs = FsFactory()
	}

	return w.fs
}

// Poll takes a snapshot and compares it with the previous one.
// The first call records the baseline and returns an empty change set without calling the handler.
// Handler errors are logged and counted; they are not returned.
func (w *Watcher) Poll(ctx context.Context) (ChangeSet, error) {
	logger := ctxlog.Logger(ctx).
		With("runnableType", "Watcher").
		With("label", w.Root)

	w.polls++
	report := PollReport{Number: w.polls}
	start := time.Now()

	defer func() {
		report.Duration = time.Since(start)

		if w.OnPoll != nil {
			w.OnPoll(ctx, report)
		}
	}()

	snap, err := TakeSnapshot(ctx, w.filesystem(), w.Root, w.IncludeHidden)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			report.Err = err
			return ChangeSet{}, err //nolint:wrapcheck
		}

		fault := &WatchFault{Root: w.Root, Err: err}
		report.Err = fault
		logger.Error("poll failed", "error", err)

		return ChangeSet{}, fault
	}

	report.Files = len(snap)

	if w.snapshot == nil {
		w.snapshot = snap
		report.Baseline = true
		logger.Debug("baseline snapshot taken", "files", len(snap))

		return ChangeSet{}, nil
	}

	cs := Diff(w.snapshot, snap)
	w.snapshot = snap
	report.Changes = cs

	if cs.Empty() {
		return cs, nil
	}

	logger.Info("changes detected", "added", len(cs.Added), "removed", len(cs.Removed), "modified", len(cs.Modified))

	if w.Handler != nil {
		if err := w.callHandler(ctx, cs); err != nil {
			w.handlerFaults.Add(1)
			report.HandlerErr = err
			logger.Warn("change handler failed", "error", err)
		}
	}

	return cs, nil
}

func (w *Watcher) callHandler(ctx context.Context, cs ChangeSet) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()

	return w.Handler.OnChange(ctx, cs)
}

// Run polls every Interval until Stop is called, ctx ends or a poll faults.
// It returns nil after Stop, ctx.Err() when the context ends and a *WatchFault on a fault.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Root == "" || w.Interval <= 0 {
		return ErrInvalidWatch
	}

	if !w.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer w.running.Store(false)

	logger := ctxlog.Logger(ctx).
		With("runnableType", "Watcher").
		With("label", w.Root)

	logger.Debug("watch started", "interval", w.Interval.String(), "includeHidden", w.IncludeHidden)

	stopped := w.stopped()

	for {
		select {
		case <-stopped:
			logger.Info("watch stopped")
			return nil
		case <-ctx.Done():
			return ctx.Err() //nolint:wrapcheck
		default:
		}

		if _, err := w.Poll(ctx); err != nil {
			return w.pollError(ctx, logger, err)
		}

		timer := time.NewTimer(w.Interval)

		select {
		case <-timer.C:
		case <-stopped:
			timer.Stop()
			logger.Info("watch stopped")

			return nil
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err() //nolint:wrapcheck
		}
	}
}

func (w *Watcher) pollError(ctx context.Context, logger *slog.Logger, err error) error {
	if ctx.Err() != nil {
		return ctx.Err() //nolint:wrapcheck
	}

	logger.Error("watch session ended", "error", err)

	return err
}

// Stop ends the Run loop after the current poll. It is idempotent.
func (w *Watcher) Stop() {
	ch := w.stopped()
	w.once.Do(func() { close(ch) })
}

func (w *Watcher) stopped() chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopCh == nil {
		w.stopCh = make(chan struct{})
	}

	return w.stopCh
}

// HandlerFaults returns the number of handler invocations that failed or panicked.
func (w *Watcher) HandlerFaults() int {
	return int(w.handlerFaults.Load())
}

// Running reports whether the Run loop is active.
func (w *Watcher) Running() bool {
	return w.running.Load()
}
