// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package up implements `chore up`, which runs everything declared in job files.
package up

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/matt-FFFFFF/chore/cmd/cmdstate"
	"github.com/matt-FFFFFF/chore/internal/config"
	"github.com/matt-FFFFFF/chore/internal/ctxlog"
	"github.com/matt-FFFFFF/chore/internal/metrics"
	"github.com/matt-FFFFFF/chore/internal/runbatch"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const (
	fileFlag             = "file"
	metricsAddrFlag      = "metrics-addr"
	configTimeoutFlag    = "config-timeout"
	configTimeoutDefault = 30 * time.Second
)

var (
	// ErrBatchFailed is returned when a batch declared in a job file had failures.
	ErrBatchFailed = errors.New("batch failed")
	// ErrScheduleFaults is returned when any scheduled run failed.
	ErrScheduleFaults = errors.New("scheduled runs failed")
)

// UpCmd loads job files and runs their batches, schedules and watches.
var UpCmd = &cli.Command{
	Name:      "up",
	Usage:     "Run the batches, schedules and watches declared in job files",
	UsageText: "chore up -f URL [-f URL...] [--metrics-addr ADDR]",
	Description: `Load each job file, run its batches in order, then run every schedule
and watch concurrently until they finish or the process is interrupted.

Job files can be YAML (.yaml, .yml), HCL (.hcl) or TOML (.toml). URLs use
Hashicorp's go-getter syntax, which allows for fetching files from various sources.
See https://github.com/hashicorp/go-getter.

With --metrics-addr, Prometheus metrics are served on /metrics while the job runs.`,
	Flags: append(cmdstate.OutputFlags(),
		&cli.StringSliceFlag{
			Name:     fileFlag,
			Aliases:  []string{"f"},
			Usage:    "URL of a job file. Specify multiple times to run several files",
			Sources:  cli.EnvVars("CHORE_FILE"),
			Required: true,
		},
		&cli.StringFlag{
			Name:     metricsAddrFlag,
			Usage:    "Listen address for the Prometheus metrics endpoint, e.g. :9090",
			Sources:  cli.EnvVars("CHORE_METRICS_ADDR"),
			OnlyOnce: true,
		},
		&cli.DurationFlag{
			Name:     configTimeoutFlag,
			Usage:    "Maximum time to fetch and parse the job files",
			Value:    configTimeoutDefault,
			OnlyOnce: true,
		},
	),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	configCtx, cancel := context.WithTimeout(ctx, cmd.Duration(configTimeoutFlag))
	defer cancel()

	var files []*config.File

	for _, u := range cmd.StringSlice(fileFlag) {
		if u == "" {
			return cli.Exit("job file URL must not be empty", 1)
		}

		f, err := config.Load(configCtx, u)
		if err != nil {
			return cmdstate.Fail(ctx, fmt.Sprintf("failed to load job file %s", u), err)
		}

		files = append(files, f)
	}

	reg := prometheus.NewRegistry()
	collectors := metrics.New(reg)

	r := &Runner{
		Out:    cmd.Writer,
		Output: cmdstate.OutputOptions(cmd),
		Hooks: config.BuildOptions{
			OnResult: collectors.ObserveResult,
			OnTick:   collectors.ObserveTick,
			OnPoll:   collectors.ObservePoll,
		},
	}

	var plans []*config.Plan

	for _, f := range files {
		plan, err := config.Build(f, r.Hooks)
		if err != nil {
			return cmdstate.Fail(ctx, "failed to build job", err)
		}

		plans = append(plans, plan)
	}

	srvCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()

	srvErr := make(chan error, 1)

	if addr := cmd.String(metricsAddrFlag); addr != "" {
		go func() {
			srvErr <- metrics.Serve(srvCtx, addr, reg)
		}()
	} else {
		srvErr <- nil
	}

	runErr := r.Run(ctx, plans...)

	stopServer()

	if err := <-srvErr; err != nil {
		ctxlog.Error(ctx, "metrics server failed", "error", err)
	}

	if runErr != nil && !cmdstate.Stopped(ctx, runErr) {
		return cmdstate.Fail(ctx, "job failed", runErr)
	}

	return nil
}

// Runner runs plans: batches first, in order, then schedules and watches concurrently.
type Runner struct {
	Out    io.Writer
	Output *runbatch.OutputOptions
	Hooks  config.BuildOptions
}

// Run runs every plan and returns the first failure.
// Schedules and watches keep running when a batch failed; the first watch
// fault stops the other schedules and watches.
func (r *Runner) Run(ctx context.Context, plans ...*config.Plan) error {
	var batchErr error

	for _, plan := range plans {
		for _, b := range plan.Batches {
			if ctx.Err() != nil {
				return ctx.Err() //nolint:wrapcheck
			}

			outcome := b.Run(ctx)

			if err := outcome.WriteText(r.Out, r.Output); err != nil {
				ctxlog.Warn(ctx, "failed to write outcome", "error", err)
			}

			if err := outcome.Err(); err != nil && batchErr == nil {
				batchErr = fmt.Errorf("%w: %w", ErrBatchFailed, err)
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, plan := range plans {
		for _, h := range plan.Schedules {
			g.Go(func() error {
				if err := h.Run(gctx); err != nil {
					return fmt.Errorf("schedule %q: %w", h.Label, err)
				}

				return nil
			})
		}

		for _, w := range plan.Watches {
			g.Go(func() error {
				if err := w.Run(gctx); err != nil {
					return fmt.Errorf("watch %q: %w", w.Root, err)
				}

				return nil
			})
		}
	}

	groupErr := g.Wait()

	if groupErr == nil {
		groupErr = scheduleFaults(plans)
	}

	return errors.Join(batchErr, groupErr)
}

func scheduleFaults(plans []*config.Plan) error {
	var errs []error

	for _, plan := range plans {
		for _, h := range plan.Schedules {
			if h.Faults() > 0 {
				errs = append(errs, fmt.Errorf("%w: %q: %d of %d runs: %w",
					ErrScheduleFaults, h.Label, h.Faults(), h.RunsCompleted(), h.LastFault()))
			}
		}
	}

	return errors.Join(errs...)
}
