// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchRun_StopOnError(t *testing.T) {
	unixOnly(t)

	b := &Batch{
		Label:    "stop",
		Commands: []string{"echo one", "exit 1", "echo three"},
		Options:  DefaultOptions(),
	}

	out := b.Run(testContext(t))

	assert.Len(t, out.Results, 2)
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 1, out.Succeeded)
	assert.Equal(t, 1, out.Failed)
	assert.True(t, out.Truncated())
	assert.True(t, out.HasError())
}

func TestBatchRun_ContinueOnError(t *testing.T) {
	unixOnly(t)

	b := &Batch{
		Label:           "continue",
		Commands:        []string{"echo one", "exit 1", "echo three"},
		Options:         DefaultOptions(),
		ContinueOnError: true,
	}

	out := b.Run(testContext(t))

	require.Len(t, out.Results, 3)
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 2, out.Succeeded)
	assert.Equal(t, 1, out.Failed)
	assert.False(t, out.Truncated())
	assert.Equal(t, "three\n", string(out.Results[2].StdOut))

	var batchErr *BatchError

	err := out.Err()
	require.ErrorAs(t, err, &batchErr)
	require.Len(t, batchErr.FailedResults, 1)
	assert.Equal(t, "exit 1", batchErr.FailedResults[0].Label)
	assert.ErrorIs(t, err, ErrNonZeroExit)
	assert.Contains(t, err.Error(), `batch "continue" execution failed`)
}

func TestBatchRun_Order(t *testing.T) {
	unixOnly(t)

	dir := t.TempDir()
	b := &Batch{
		Commands: []string{
			"echo a >> " + dir + "/log",
			"echo b >> " + dir + "/log",
			"cat " + dir + "/log",
		},
		Options: DefaultOptions(),
	}

	out := b.Run(testContext(t))

	require.NoError(t, out.Err())
	assert.Equal(t, "a\nb\n", string(out.Results[2].StdOut))
}

func TestBatchRun_PerCommandTimeout(t *testing.T) {
	unixOnly(t)

	opts := DefaultOptions()
	opts.Timeout = 500 * time.Millisecond

	b := &Batch{
		Commands:        []string{"sleep 0.3", "sleep 0.3", "sleep 5"},
		Options:         opts,
		ContinueOnError: true,
	}

	out := b.Run(testContext(t))

	require.Len(t, out.Results, 3)
	assert.True(t, out.Results[0].Success)
	assert.True(t, out.Results[1].Success)
	assert.Equal(t, FailureTimeout, out.Results[2].Failure)
	assert.ErrorIs(t, out.Err(), ErrTimeout)
}

func TestBatchRun_Cancelled(t *testing.T) {
	unixOnly(t)

	ctx, cancel := context.WithCancel(testContext(t))

	var seen []string

	b := &Batch{
		Commands:        []string{"echo one", "sleep 10", "echo three"},
		Options:         DefaultOptions(),
		ContinueOnError: true,
		OnResult: func(_ context.Context, r *Result) {
			seen = append(seen, r.Label)
		},
	}

	go func() {
		time.Sleep(300 * time.Millisecond)
		cancel()
	}()

	out := b.Run(ctx)

	require.Len(t, out.Results, 2)
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, FailureCancelled, out.Results[1].Failure)
	assert.True(t, out.Truncated())
	assert.Equal(t, []string{"echo one", "sleep 10"}, seen)
}

func TestBatchRun_Empty(t *testing.T) {
	out := (&Batch{Label: "empty"}).Run(testContext(t))

	assert.Equal(t, 0, out.Total)
	assert.Empty(t, out.Results)
	assert.NoError(t, out.Err())
	assert.False(t, out.Truncated())
}

func TestBatchError_Unwrap(t *testing.T) {
	errA := errors.New("a")

	err := &BatchError{FailedResults: []*Result{
		{Label: "one", Error: errA, ExitCode: NoExitCode},
		{Label: "two", Error: ErrTimeout, ExitCode: NoExitCode},
	}}

	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "batch execution failed:\none: a (exit code: -1)\ntwo: timeout (exit code: -1)\n", err.Error())
}
