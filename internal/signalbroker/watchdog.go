// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/chore/internal/ctxlog"
)

// ForcedExitCode is the process exit code used when a second signal arrives.
const ForcedExitCode = 130

// Exit is called on the second signal of a given type. Tests replace it.
var Exit = os.Exit

// Watch monitors the signal channel.
// The first signal cancels the context so that loops stop and in-flight children are killed.
// A second signal of the same type exits the process immediately.
// Watch returns when sigCh is closed, or when ctx is done before any signal arrived.
func Watch(ctx context.Context, sigCh <-chan os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for {
		// after the first signal only a forced exit or a closed channel ends the loop
		var done <-chan struct{}
		if len(seen) == 0 {
			done = ctx.Done()
		}

		var sig os.Signal

		select {
		case <-done:
			return
		case s, ok := <-sigCh:
			if !ok {
				return
			}

			sig = s
		}

		if _, dup := seen[sig]; dup {
			ctxlog.Warn(ctx, "watchdog", "detail", "received second signal of type, forcefully terminating", "signal", sig.String())
			Exit(ForcedExitCode)

			return
		}

		ctxlog.Info(ctx, "watchdog", "detail", "received first signal of type, cancelling", "signal", sig.String())

		seen[sig] = struct{}{}

		cancel()
	}
}
