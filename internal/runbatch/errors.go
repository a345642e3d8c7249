// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrTimeout is the Result error when a command exceeded its timeout.
	ErrTimeout = errors.New("timeout")
	// ErrCancelled is the Result error when the parent context ended while the command ran.
	ErrCancelled = errors.New("cancelled")
	// ErrNonZeroExit is wrapped by the Result error when the process exited with a non-zero code.
	ErrNonZeroExit = errors.New("non-zero exit code")
	// ErrCouldNotStartProcess is joined with the underlying diagnostic when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrCommandNotFound is returned when the executable is not found in the system PATH.
	ErrCommandNotFound = errors.New("command not found")
	// ErrEmptyCommand is returned when the command line is blank.
	ErrEmptyCommand = errors.New("empty command line")
	// ErrInvalidCommandLine is returned when the command line cannot be split into arguments.
	ErrInvalidCommandLine = errors.New("invalid command line")
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrFailedToReadBuffer is returned when the buffer from the operating system pipe could not be read.
	ErrFailedToReadBuffer = errors.New("failed to read buffer")
)

// BatchError aggregates errors from multiple commands and formats a detailed error message.
type BatchError struct {
	Label         string
	FailedResults []*Result
}

func (e *BatchError) Error() string {
	sb := strings.Builder{}
	sb.WriteString("batch ")

	if e.Label != "" {
		sb.WriteString(strconv.Quote(e.Label) + " ")
	}

	sb.WriteString("execution failed:\n")

	for _, r := range e.FailedResults {
		sb.WriteString(r.Label + ": " + r.Error.Error() + " (exit code: " + strconv.Itoa(r.ExitCode) + ")\n")
	}

	return sb.String()
}

// Unwrap exposes the error of every failed result to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.FailedResults))
	for _, r := range e.FailedResults {
		errs = append(errs, r.Error)
	}

	return errs
}
