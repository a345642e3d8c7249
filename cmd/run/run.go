// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run implements `chore run`, which runs a single command line.
package run

import (
	"context"
	"time"

	"github.com/matt-FFFFFF/chore/cmd/cmdstate"
	"github.com/matt-FFFFFF/chore/internal/ctxlog"
	"github.com/matt-FFFFFF/chore/internal/retry"
	"github.com/matt-FFFFFF/chore/internal/runbatch"
	"github.com/urfave/cli/v3"
)

const (
	retryFlag      = "retry"
	retryDelayFlag = "retry-delay"
)

// RunCmd runs one command line and prints its result.
var RunCmd = &cli.Command{
	Name:      "run",
	Usage:     "Run a single command line",
	UsageText: "chore run [options] -- LINE",
	Description: `Run a command line and print the result.

By default the line is run through the shell ($SHELL, /bin/sh or cmd.exe) with its
output captured, and killed after five minutes. Use --retry to run it again with
exponential backoff until it succeeds.`,
	Flags: append(cmdstate.CommandFlags(), append(cmdstate.OutputFlags(),
		&cli.IntFlag{
			Name:     retryFlag,
			Usage:    "Total number of attempts",
			Value:    1,
			OnlyOnce: true,
		},
		&cli.DurationFlag{
			Name:     retryDelayFlag,
			Usage:    "Delay after the first failed attempt, doubled after each further one",
			Value:    time.Second,
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

	res := runCommand(ctx, c, cmd.Int(retryFlag), cmd.Duration(retryDelayFlag))

	if err := res.WriteText(cmd.Writer, cmdstate.OutputOptions(cmd)); err != nil {
		return cmdstate.Fail(ctx, "failed to write result", err)
	}

	if !res.Success {
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	return nil
}

// runCommand runs c once, or with retries when attempts > 1.
func runCommand(ctx context.Context, c *runbatch.Command, attempts int, delay time.Duration) *runbatch.Result {
	if attempts <= 1 {
		return c.Run(ctx)
	}

	p := retry.DefaultPolicy()
	p.MaxAttempts = attempts
	p.InitialDelay = delay

	res, err := retry.DoResult(ctx, p, c)
	if err != nil {
		ctxlog.Warn(ctx, "command did not succeed", "command", c.Line, "attempts", attempts, "error", err)
	}

	return res
}
