// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build !windows

package signalbroker

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	ch := New(context.Background(), syscall.SIGUSR1)
	defer Stop(ch)

	assert.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR1))

	select {
	case sig := <-ch:
		assert.Equal(t, syscall.SIGUSR1, sig)
	case <-time.After(time.Second):
		t.Fatal("signal was not delivered")
	}
}

func TestHandle(t *testing.T) {
	ctx, stop := Handle(context.Background(), syscall.SIGUSR2)
	defer stop()

	assert.NoError(t, ctx.Err())
	assert.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR2))

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled by the first signal")
	}
}

func TestHandle_StopWithoutSignal(t *testing.T) {
	ctx, stop := Handle(context.Background(), syscall.SIGUSR2)
	stop()

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
