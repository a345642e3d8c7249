// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package schedule implements `chore schedule`, which runs a command line on a fixed interval.
package schedule

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/matt-FFFFFF/chore/cmd/cmdstate"
	"github.com/matt-FFFFFF/chore/internal/ctxlog"
	"github.com/matt-FFFFFF/chore/internal/runbatch"
	"github.com/matt-FFFFFF/chore/internal/schedule"
	"github.com/urfave/cli/v3"
)

const (
	intervalFlag = "interval"
	maxRunsFlag  = "max-runs"
	labelFlag    = "label"
)

// ScheduleCmd runs a command line repeatedly.
var ScheduleCmd = &cli.Command{
	Name:      "schedule",
	Usage:     "Run a command line on a fixed interval",
	UsageText: "chore schedule --interval D [--max-runs N] [options] -- LINE",
	Description: `Run a command line immediately, then again after each interval.

The interval is measured from the end of one run to the start of the next.
With --max-runs the schedule stops after that many runs, otherwise it runs
until interrupted. A failed run does not stop the schedule.`,
	Flags: append(cmdstate.CommandFlags(), append(cmdstate.OutputFlags(),
		&cli.DurationFlag{
			Name:     intervalFlag,
			Aliases:  []string{"i"},
			Usage:    "Delay between the end of one run and the start of the next",
			Required: true,
			OnlyOnce: true,
		},
		&cli.IntFlag{
			Name:     maxRunsFlag,
			Aliases:  []string{"n"},
			Usage:    "Stop after this many runs, 0 runs until interrupted",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     labelFlag,
			Usage:    "Label used in logs",
			Value:    "schedule",
			OnlyOnce: true,
		},
	)...),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	line, err := cmdstate.CommandLine(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	c := &runbatch.Command{
		Label:   line,
		Line:    line,
		Options: cmdstate.Options(cmd),
	}

	h := schedule.New(
		cmd.String(labelFlag),
		schedule.CommandAction(c, resultPrinter(cmd.Writer, cmdstate.OutputOptions(cmd))),
		cmd.Duration(intervalFlag),
		cmd.Int(maxRunsFlag),
	)
	h.OnTick = logTick

	if err := h.Run(ctx); err != nil && !cmdstate.Stopped(ctx, err) {
		return cli.Exit(err.Error(), 1)
	}

	if h.Faults() > 0 {
		return cmdstate.Fail(ctx, "some scheduled runs failed", h.LastFault())
	}

	return nil
}

// resultPrinter writes each result to w. Ticks never overlap, the lock guards w against other writers.
func resultPrinter(w io.Writer, opts *runbatch.OutputOptions) func(context.Context, *runbatch.Result) {
	var mu sync.Mutex

	return func(ctx context.Context, r *runbatch.Result) {
		mu.Lock()
		defer mu.Unlock()

		if err := r.WriteText(w, opts); err != nil {
			ctxlog.Warn(ctx, "failed to write result", "error", err)
		}
	}
}

func logTick(ctx context.Context, t schedule.Tick) {
	ctxlog.Info(ctx, "tick finished",
		"tick", t.Number,
		"duration", t.Duration.Round(time.Millisecond).String(),
		"fault", t.Err != nil,
	)
}
