// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package retry

import (
	"context"
	"errors"
	"math/rand"
	"runtime"
	"testing"
	"time"

	"github.com/matt-FFFFFF/chore/internal/runbatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fastPolicy(attempts int) Policy {
	return Policy{MaxAttempts: attempts, InitialDelay: time.Millisecond, Multiplier: 2}
}

func TestNextDelay(t *testing.T) {
	p := Policy{InitialDelay: 100 * time.Millisecond, Multiplier: 2, MaxDelay: 500 * time.Millisecond}

	assert.Equal(t, 100*time.Millisecond, NextDelay(p, 1, nil))
	assert.Equal(t, 200*time.Millisecond, NextDelay(p, 2, nil))
	assert.Equal(t, 400*time.Millisecond, NextDelay(p, 3, nil))
	assert.Equal(t, 500*time.Millisecond, NextDelay(p, 4, nil))
	assert.Equal(t, 100*time.Millisecond, NextDelay(p, 0, nil))

	assert.Equal(t, time.Duration(0), NextDelay(Policy{}, 3, nil))
	assert.Equal(t, time.Second, NextDelay(Policy{InitialDelay: time.Second, Multiplier: 0.5}, 3, nil))

	p.Jitter = true
	assert.Equal(t, 50*time.Millisecond, NextDelay(p, 1, nil))

	rng := rand.New(rand.NewSource(1))
	for range 100 {
		d := NextDelay(p, 1, rng)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.Less(t, d, 150*time.Millisecond)
	}
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	calls := 0

	err := Do(context.Background(), fastPolicy(3), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_Exhausted(t *testing.T) {
	errA := errors.New("first")
	errB := errors.New("second")
	errs := []error{errA, errB}
	calls := 0

	err := Do(context.Background(), fastPolicy(2), func(context.Context) error {
		calls++
		return errs[calls-1]
	})

	require.ErrorIs(t, err, ErrAttemptsExhausted)
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, 2, calls)
}

func TestDo_Permanent(t *testing.T) {
	errFatal := errors.New("fatal")
	calls := 0

	err := Do(context.Background(), fastPolicy(5), func(context.Context) error {
		calls++
		return Permanent(errFatal)
	})

	assert.Equal(t, errFatal, err) //nolint:testifylint
	assert.Equal(t, 1, calls)
	assert.NoError(t, Permanent(nil))
}

func TestDo_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0

	err := Do(context.Background(), Policy{}, func(context.Context) error {
		calls++
		return errors.New("nope")
	})

	require.ErrorIs(t, err, ErrAttemptsExhausted)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	errFlaky := errors.New("flaky")
	start := time.Now()

	err := Do(ctx, Policy{MaxAttempts: 3, InitialDelay: time.Hour}, func(context.Context) error {
		cancel()
		return errFlaky
	})

	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, err, errFlaky)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDoResult(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping shell test on windows")
	}

	t.Setenv("SHELL", "/bin/sh")

	dir := t.TempDir()

	// fails until the marker file exists, creating it on the first run
	cmd := &runbatch.Command{
		Line:    "test -f " + dir + "/marker || { touch " + dir + "/marker; exit 1; }",
		Options: runbatch.DefaultOptions(),
	}

	res, err := DoResult(context.Background(), fastPolicy(3), cmd)
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestDoResult_LaunchFailureNotRetried(t *testing.T) {
	opts := runbatch.DefaultOptions()
	opts.UseShell = false

	res, err := DoResult(context.Background(), fastPolicy(3), &runbatch.Command{Line: "no-such-command-9f2e", Options: opts})

	require.ErrorIs(t, err, runbatch.ErrCouldNotStartProcess)
	assert.NotErrorIs(t, err, ErrAttemptsExhausted)
	assert.Equal(t, runbatch.FailureLaunch, res.Failure)
}
