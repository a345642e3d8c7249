// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker turns termination signals into context cancellation.
//
// The first SIGINT, SIGTERM or SIGQUIT cancels the context handed to the
// chore commands, so schedules and watches stop after their current run and
// running children are killed. Sending the same signal again exits at once
// with ForcedExitCode.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matt-FFFFFF/chore/internal/ctxlog"
)

var termSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
	os.Interrupt,
}

// New subscribes to sigs, or to the termination signals when none are given.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	if len(sigs) == 0 {
		sigs = termSignals
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	ctxlog.Debug(ctx, "signalbroker", "detail", "subscribed", "signals", sigs)

	return ch
}

// Stop unsubscribes ch.
func Stop(ch chan os.Signal) {
	signal.Stop(ch)
}

// Handle returns a child of ctx that Watch cancels on the first signal.
// The returned stop func unsubscribes, ends the watch and cancels the child.
func Handle(ctx context.Context, sigs ...os.Signal) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	ch := New(ctx, sigs...)

	go Watch(ctx, ch, cancel)

	return ctx, func() {
		Stop(ch)
		close(ch)
		cancel()
	}
}
