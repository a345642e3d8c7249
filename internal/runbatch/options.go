// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import "time"

const (
	// DefaultTimeout is the per-command timeout used by DefaultOptions.
	DefaultTimeout = 5 * time.Minute
	// DefaultMaxOutputBytes caps each captured stream.
	DefaultMaxOutputBytes int64 = 8 * 1024 * 1024 // 8MB
)

// Options control how a command line is executed.
type Options struct {
	UseShell       bool          // Run the line through the default shell instead of splitting it into argv.
	CaptureOutput  bool          // Capture stdout and stderr into the Result instead of inheriting them.
	Timeout        time.Duration // Per-command timeout, 0 means none.
	MaxOutputBytes int64         // Cap for each captured stream, <= 0 means DefaultMaxOutputBytes.
}

// DefaultOptions returns shell execution with captured output and a five minute timeout.
func DefaultOptions() Options {
	return Options{
		UseShell:       true,
		CaptureOutput:  true,
		Timeout:        DefaultTimeout,
		MaxOutputBytes: DefaultMaxOutputBytes,
	}
}

func (o Options) maxOutputBytes() int64 {
	if o.MaxOutputBytes <= 0 {
		return DefaultMaxOutputBytes
	}

	return o.MaxOutputBytes
}
