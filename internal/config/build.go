// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matt-FFFFFF/chore/internal/ctxlog"
	"github.com/matt-FFFFFF/chore/internal/runbatch"
	"github.com/matt-FFFFFF/chore/internal/schedule"
	"github.com/matt-FFFFFF/chore/internal/watch"
)

// ErrBuild is returned when a validated definition cannot be turned into a runnable.
var ErrBuild = errors.New("failed to build job")

// Plan holds the runnables declared by a job file.
type Plan struct {
	Name      string
	Batches   []*runbatch.Batch
	Schedules []*schedule.Handle
	Watches   []*watch.Watcher
}

// Empty reports whether the plan has nothing to run.
func (p *Plan) Empty() bool {
	return len(p.Batches) == 0 && len(p.Schedules) == 0 && len(p.Watches) == 0
}

// BuildOptions are hooks threaded into every runnable the plan creates.
type BuildOptions struct {
	OnResult func(ctx context.Context, r *runbatch.Result)              // Every command result, may be nil
	OnTick   func(ctx context.Context, label string, t schedule.Tick)    // Every schedule tick, may be nil
	OnPoll   func(ctx context.Context, label string, r watch.PollReport) // Every watch poll, may be nil
}

// Build converts the definitions of f into runnables. f should be validated first.
func Build(f *File, opts BuildOptions) (*Plan, error) {
	plan := &Plan{Name: f.Name}

	for _, def := range f.Batches {
		o, err := def.Resolve()
		if err != nil {
			return nil, fmt.Errorf("%w: batch %q: %w", ErrBuild, def.Name, err)
		}

		continueOnError := true
		if def.ContinueOnError != nil {
			continueOnError = *def.ContinueOnError
		}

		plan.Batches = append(plan.Batches, &runbatch.Batch{
			Label:           def.Name,
			Commands:        def.Commands,
			Options:         o,
			ContinueOnError: continueOnError,
			OnResult:        opts.OnResult,
		})
	}

	for _, def := range f.Schedules {
		o, err := def.Resolve()
		if err != nil {
			return nil, fmt.Errorf("%w: schedule %q: %w", ErrBuild, def.Name, err)
		}

		interval, err := time.ParseDuration(def.Interval)
		if err != nil {
			return nil, fmt.Errorf("%w: schedule %q: %w", ErrBuild, def.Name, err)
		}

		cmd := &runbatch.Command{Label: def.Name, Line: def.Command, Options: o}
		h := schedule.New(def.Name, schedule.CommandAction(cmd, opts.OnResult), interval, def.MaxRuns)

		if opts.OnTick != nil {
			label := def.Name
			h.OnTick = func(ctx context.Context, t schedule.Tick) {
				opts.OnTick(ctx, label, t)
			}
		}

		plan.Schedules = append(plan.Schedules, h)
	}

	for _, def := range f.Watches {
		o, err := def.Resolve()
		if err != nil {
			return nil, fmt.Errorf("%w: watch %q: %w", ErrBuild, def.Name, err)
		}

		interval, err := time.ParseDuration(def.Interval)
		if err != nil {
			return nil, fmt.Errorf("%w: watch %q: %w", ErrBuild, def.Name, err)
		}

		w := watch.New(def.Path, interval, CommandHandler(def.Name, def.Command, o, opts.OnResult))
		w.IncludeHidden = def.IncludeHidden

		if opts.OnPoll != nil {
			label := def.Name
			w.OnPoll = func(ctx context.Context, r watch.PollReport) {
				opts.OnPoll(ctx, label, r)
			}
		}

		plan.Watches = append(plan.Watches, w)
	}

	return plan, nil
}

// CommandHandler returns a watch handler running line on every change set.
// With no line the changes are only logged.
func CommandHandler(label, line string, o runbatch.Options, onResult func(context.Context, *runbatch.Result)) watch.Handler {
	return watch.HandlerFunc(func(ctx context.Context, cs watch.ChangeSet) error {
		ctxlog.Info(ctx, "changes detected",
			"watch", label,
			"added", len(cs.Added),
			"removed", len(cs.Removed),
			"modified", len(cs.Modified),
		)

		if line == "" {
			return nil
		}

		cmd := &runbatch.Command{Label: label, Line: line, Options: o}
		res := cmd.Run(ctx)

		if onResult != nil {
			onResult(ctx, res)
		}

		if !res.Success {
			return fmt.Errorf("command %q failed: %w", line, res.Error)
		}

		return nil
	})
}

// Resolve converts the string settings into runbatch options, starting from the defaults.
func (c CommandOptions) Resolve() (runbatch.Options, error) {
	o := runbatch.DefaultOptions()
	o.UseShell = !c.NoShell
	o.CaptureOutput = !c.NoCapture

	if c.MaxOutputBytes > 0 {
		o.MaxOutputBytes = c.MaxOutputBytes
	}

	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return o, fmt.Errorf("timeout: %w", err)
		}

		o.Timeout = d
	}

	return o, nil
}
