// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"time"

	"github.com/matt-FFFFFF/chore/internal/ctxlog"
)

// Batch represents an ordered list of command lines, which are run serially.
type Batch struct {
	Label           string                              // Label of the batch
	Commands        []string                            // The command lines to run, in order
	Options         Options                             // Options for every command, the timeout applies per command
	ContinueOnError bool                                // Attempt every command regardless of failures
	OnResult        func(ctx context.Context, r *Result) // Called after each command, may be nil
}

// Outcome is the result of running a Batch.
type Outcome struct {
	Label     string
	Results   []*Result // Attempted commands, in submission order
	Total     int       // Number of commands submitted
	Succeeded int
	Failed    int
	StartedAt time.Time
	Duration  time.Duration
}

// Run runs each command in order using the batch options.
// Cancelling ctx kills the in-flight command and stops launching further ones.
func (b *Batch) Run(ctx context.Context) *Outcome {
	logger := ctxlog.Logger(ctx).
		With("runnableType", "Batch").
		With("label", b.Label)

	out := &Outcome{
		Label:     b.Label,
		Results:   make([]*Result, 0, len(b.Commands)),
		Total:     len(b.Commands),
		StartedAt: time.Now(),
	}

	defer func() {
		out.Duration = time.Since(out.StartedAt)
	}()

	ctx = ctxlog.With(ctx, "batch", b.Label)

	for i, line := range b.Commands {
		if ctx.Err() != nil {
			logger.Info("batch cancelled, not launching remaining commands", "remaining", len(b.Commands)-i)
			break
		}

		cmd := &Command{
			Label:   line,
			Line:    line,
			Options: b.Options,
		}

		res := cmd.Run(ctx)
		out.add(res)

		if b.OnResult != nil {
			b.OnResult(ctx, res)
		}

		if !res.Success && !b.ContinueOnError {
			logger.Info("stopping batch after failed command", "index", i, "remaining", len(b.Commands)-i-1)
			break
		}
	}

	logger.Debug("batch finished", "total", out.Total, "succeeded", out.Succeeded, "failed", out.Failed)

	return out
}

func (o *Outcome) add(r *Result) {
	o.Results = append(o.Results, r)

	if r.Success {
		o.Succeeded++
		return
	}

	o.Failed++
}

// Truncated reports whether some submitted commands were never attempted.
func (o *Outcome) Truncated() bool {
	return len(o.Results) < o.Total
}

// HasError reports whether any attempted command failed.
func (o *Outcome) HasError() bool {
	return o.Failed > 0
}

// Err returns a *BatchError listing the failed results, or nil.
func (o *Outcome) Err() error {
	if !o.HasError() {
		return nil
	}

	failed := make([]*Result, 0, o.Failed)

	for _, r := range o.Results {
		if !r.Success {
			failed = append(failed, r)
		}
	}

	return &BatchError{Label: o.Label, FailedResults: failed}
}
