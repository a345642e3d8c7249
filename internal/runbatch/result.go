// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"time"
)

// NoExitCode is the exit code of a Result whose process never exited on its own.
const NoExitCode = -1

// FailureKind classifies why a command did not succeed.
type FailureKind int

const (
	FailureNone        FailureKind = iota // The command succeeded.
	FailureLaunch                         // The process could not be started.
	FailureTimeout                        // The process was killed after its timeout.
	FailureNonZeroExit                    // The process ran and returned a non-zero code.
	FailureCancelled                      // The process was killed because the parent context ended.
)

// String returns the snake case name of the kind, as used in reports and metrics.
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureLaunch:
		return "launch"
	case FailureTimeout:
		return "timeout"
	case FailureNonZeroExit:
		return "non_zero_exit"
	case FailureCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ParseFailureKind is the inverse of FailureKind.String. Empty and unknown names give FailureNone.
func ParseFailureKind(s string) FailureKind {
	for k := FailureLaunch; k <= FailureCancelled; k++ {
		if k.String() == s {
			return k
		}
	}

	return FailureNone
}

// Result represents the outcome of running a single command.
// It is not modified after Run returns.
type Result struct {
	RunID     string        // Unique identifier of this invocation
	Label     string        // Label of the command
	Command   string        // The command line as submitted
	Success   bool          // True iff ExitCode == 0 and Error == nil
	ExitCode  int           // Exit code of the process, NoExitCode when absent
	StdOut    []byte        // Captured stdout, empty when output is not captured
	StdErr    []byte        // Captured stderr, empty when output is not captured
	Error     error         // Error, if any
	Failure   FailureKind   // Classification of Error
	Truncated bool          // True when a captured stream hit MaxOutputBytes
	StartedAt time.Time     // Time the command was started
	Duration  time.Duration // Wall clock time taken
}

func (r *Result) fail(kind FailureKind, err error) *Result {
	r.Success = false
	r.Failure = kind
	r.Error = err

	return r
}
