// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdstate holds the flags and helpers shared by the subcommands that run command lines.
package cmdstate

import (
	"context"
	"errors"
	"strings"

	"github.com/matt-FFFFFF/chore/internal/ctxlog"
	"github.com/matt-FFFFFF/chore/internal/runbatch"
	"github.com/urfave/cli/v3"
)

const (
	NoShellFlag        = "no-shell"
	NoCaptureFlag      = "no-capture"
	TimeoutFlag        = "timeout"
	MaxOutputBytesFlag = "max-output-bytes"
	StdOutFlag         = "output-stdout"
	NoStdErrFlag       = "no-output-stderr"
	SuccessFlag        = "output-success-details"

	// CliExitStr is the message passed to cli.Exit when the failure has already been reported.
	CliExitStr = ""
)

// ErrNoCommandLine is returned when a subcommand needs a command line and none was given.
var ErrNoCommandLine = errors.New("no command line given")

// CommandFlags returns the flags controlling how each command line is executed.
func CommandFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:     NoShellFlag,
			Usage:    "Split the command line into arguments instead of running it through the shell",
			Sources:  cli.EnvVars("CHORE_NO_SHELL"),
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:     NoCaptureFlag,
			Usage:    "Let commands write directly to the terminal instead of capturing their output",
			Sources:  cli.EnvVars("CHORE_NO_CAPTURE"),
			OnlyOnce: true,
		},
		&cli.DurationFlag{
			Name:     TimeoutFlag,
			Usage:    "Kill each command after this duration, 0 disables the timeout",
			Value:    runbatch.DefaultTimeout,
			Sources:  cli.EnvVars("CHORE_TIMEOUT"),
			OnlyOnce: true,
		},
		&cli.IntFlag{
			Name:     MaxOutputBytesFlag,
			Usage:    "Maximum number of bytes captured per output stream",
			Value:    int(runbatch.DefaultMaxOutputBytes),
			OnlyOnce: true,
		},
	}
}

// OutputFlags returns the flags controlling how results are printed.
func OutputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:     StdOutFlag,
			Aliases:  []string{"stdout"},
			Usage:    "Include stdout output in the results",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:     NoStdErrFlag,
			Aliases:  []string{"no-stderr"},
			Usage:    "Exclude stderr output from the results",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:     SuccessFlag,
			Aliases:  []string{"success"},
			Usage:    "Include output of successful commands in the results",
			OnlyOnce: true,
		},
	}
}

// Options reads the CommandFlags of cmd.
func Options(cmd *cli.Command) runbatch.Options {
	return runbatch.Options{
		UseShell:       !cmd.Bool(NoShellFlag),
		CaptureOutput:  !cmd.Bool(NoCaptureFlag),
		Timeout:        cmd.Duration(TimeoutFlag),
		MaxOutputBytes: int64(cmd.Int(MaxOutputBytesFlag)),
	}
}

// OutputOptions reads the OutputFlags of cmd.
func OutputOptions(cmd *cli.Command) *runbatch.OutputOptions {
	opts := runbatch.DefaultOutputOptions()
	opts.IncludeStdOut = cmd.Bool(StdOutFlag)
	opts.IncludeStdErr = !cmd.Bool(NoStdErrFlag)
	opts.ShowSuccessDetails = cmd.Bool(SuccessFlag)

	return opts
}

// CommandLine joins the positional arguments of cmd into a single command line.
func CommandLine(cmd *cli.Command) (string, error) {
	line := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if line == "" {
		return "", ErrNoCommandLine
	}

	return line, nil
}

// Stopped reports whether err only says that the run was interrupted by ctx.
// Signals end long-running subcommands this way and that is not a failure.
func Stopped(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() == nil {
		return false
	}

	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Fail logs msg with the error and returns the error that makes the process exit with code 1.
func Fail(ctx context.Context, msg string, err error) error {
	if err != nil {
		ctxlog.Error(ctx, msg, "error", err)
	} else {
		ctxlog.Error(ctx, msg)
	}

	return cli.Exit(CliExitStr, 1)
}
