// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matt-FFFFFF/chore/internal/ctxlog"
)

const (
	tickerInterval    = 10 * time.Second // Interval for the process watchdog ticker
	waitDelay         = 2 * time.Second  // How long to wait for output after the process exits
	lastLineMaxLength = 120              // Longest last line included in progress logs
)

// Command is a single command line to execute.
type Command struct {
	Label   string  // Label used in logs and results, defaults to Line.
	Line    string  // The command line.
	Options Options // How to run the line, see DefaultOptions.
}

// RunCommand runs line with opts and returns its result.
func RunCommand(ctx context.Context, line string, opts Options) *Result {
	return (&Command{Line: line, Options: opts}).Run(ctx)
}

// Run executes the command as a child process and waits for it to exit or be killed.
// It never returns nil.
func (c *Command) Run(ctx context.Context) *Result {
	label := c.Label
	if label == "" {
		label = c.Line
	}

	logger := ctxlog.Logger(ctx).
		With("runnableType", "Command").
		With("label", label)

	res := &Result{
		RunID:     uuid.New().String(),
		Label:     label,
		Command:   c.Line,
		ExitCode:  NoExitCode,
		StartedAt: time.Now(),
	}

	defer func() {
		res.Duration = time.Since(res.StartedAt)
	}()

	logger.Debug("command info", "line", c.Line, "useShell", c.Options.UseShell, "timeout", c.Options.Timeout)

	path, argv, err := resolve(ctx, c.Line, c.Options.UseShell)
	if err != nil {
		logger.Debug("could not resolve command", "error", err)
		return res.fail(FailureLaunch, errors.Join(ErrCouldNotStartProcess, err))
	}

	if ctx.Err() != nil {
		return res.fail(FailureCancelled, ErrCancelled)
	}

	runCtx := ctx
	cancel := context.CancelFunc(func() {})

	if c.Options.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, c.Options.Timeout)
	}
	defer cancel()

	files := []*os.File{os.Stdin, os.Stdout, os.Stderr}

	var rOut, rErr *os.File

	if c.Options.CaptureOutput {
		var wOut, wErr *os.File

		if rOut, wOut, err = os.Pipe(); err != nil {
			return res.fail(FailureLaunch, errors.Join(ErrCouldNotStartProcess, ErrFailedToCreatePipe, err))
		}

		if rErr, wErr, err = os.Pipe(); err != nil {
			_ = rOut.Close()
			_ = wOut.Close()

			return res.fail(FailureLaunch, errors.Join(ErrCouldNotStartProcess, ErrFailedToCreatePipe, err))
		}

		files[1], files[2] = wOut, wErr

		defer rOut.Close() //nolint:errcheck
		defer rErr.Close() //nolint:errcheck
	}

	logger.Debug("starting process", "path", path, "args", argv[1:])

	ps, err := os.StartProcess(path, argv, &os.ProcAttr{
		Env:   os.Environ(),
		Files: files,
		Sys:   sysProcAttr(),
	})

	if c.Options.CaptureOutput {
		// the child holds its own copies of the write ends
		_ = files[1].Close()
		_ = files[2].Close()
	}

	if err != nil {
		logger.Debug("process could not be started", "error", err)
		return res.fail(FailureLaunch, errors.Join(ErrCouldNotStartProcess, err))
	}

	res.StartedAt = time.Now()
	logger.Debug("process started", "pid", ps.Pid)

	tail := newTails()

	var (
		readers        sync.WaitGroup
		stdout, stderr stream
	)

	if c.Options.CaptureOutput {
		maxBytes := c.Options.maxOutputBytes()

		readers.Add(2) //nolint:mnd

		go func() {
			defer readers.Done()

			stdout.data, stdout.truncated, stdout.err = readAllUpToMax(rOut, maxBytes, tail.stdout)
		}()

		go func() {
			defer readers.Done()

			stderr.data, stderr.truncated, stderr.err = readAllUpToMax(rErr, maxBytes, tail.stderr)
		}()
	}

	// This is the process watchdog that will kill the process group if the timeout
	// expires or the parent context is cancelled.
	done := make(chan struct{})
	// This allows us to track why the process was killed.
	killReason := make(chan error, 1)

	var watchdog sync.WaitGroup

	watchdog.Add(1)

	go func() {
		defer watchdog.Done()

		ticker := time.NewTicker(tickerInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				logger.Info("command still running", append(
					[]any{"elapsed", time.Since(res.StartedAt).Round(time.Second).String()},
					tail.logAttrs(lastLineMaxLength)...,
				)...)

			case <-runCtx.Done():
				reason := ErrCancelled
				if ctx.Err() == nil {
					reason = ErrTimeout
				}

				logger.Info("killing process", "pid", ps.Pid, "reason", reason)

				if err := killProcess(ps); err != nil {
					logger.Error("process kill error", "pid", ps.Pid, "error", err)
				}

				killReason <- reason

				return

			case <-done:
				return
			}
		}
	}()

	logger.Debug("waiting for process to finish")

	state, waitErr := ps.Wait()

	close(done)
	watchdog.Wait()

	if c.Options.CaptureOutput {
		waitForOutput(&readers, waitDelay, rOut, rErr)

		res.StdOut, res.StdErr = stdout.data, stderr.data
		res.Truncated = stdout.truncated || stderr.truncated

		for _, e := range []error{stdout.err, stderr.err} {
			if e != nil {
				logger.Warn("error reading process output", "error", e)
			}
		}
	}

	var reason error

	select {
	case reason = <-killReason:
	default:
	}

	switch {
	case waitErr != nil:
		logger.Error("error waiting for process", "error", waitErr)
		res.fail(FailureLaunch, errors.Join(ErrCouldNotStartProcess, waitErr))

	case reason != nil && wasKilled(state):
		kind := FailureCancelled
		if errors.Is(reason, ErrTimeout) {
			kind = FailureTimeout
		}

		res.fail(kind, reason)

	default:
		res.ExitCode = state.ExitCode()

		if res.ExitCode != 0 {
			desc := fmt.Sprintf("exit code %d", res.ExitCode)
			if res.ExitCode == NoExitCode {
				desc = state.String()
			}

			res.fail(FailureNonZeroExit, fmt.Errorf("%w: %s", ErrNonZeroExit, desc))

			break
		}

		res.Success = true
	}

	logger.Info("command finished",
		"exitCode", res.ExitCode,
		"success", res.Success,
		"failure", res.Failure.String(),
		"duration", time.Since(res.StartedAt).String(),
	)

	return res
}

// waitForOutput waits for the output readers. Background grandchildren may keep
// the pipes open after the process exits, so the read ends are closed once the
// delay expires.
func waitForOutput(readers *sync.WaitGroup, delay time.Duration, pipes ...*os.File) {
	drained := make(chan struct{})

	go func() {
		readers.Wait()
		close(drained)
	}()

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-drained:
		return
	case <-timer.C:
	}

	for _, p := range pipes {
		_ = p.Close()
	}

	<-drained
}
