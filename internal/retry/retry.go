// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package retry retries an operation with exponential backoff.
// It is the only place in chore where anything is retried automatically.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/chore/internal/ctxlog"
	"github.com/matt-FFFFFF/chore/internal/runbatch"
)

// ErrAttemptsExhausted is wrapped by the error returned when every attempt failed.
var ErrAttemptsExhausted = errors.New("all attempts failed")

// Policy describes how often and how fast to retry.
type Policy struct {
	MaxAttempts  int           // Total attempts including the first, values < 1 mean 1
	InitialDelay time.Duration // Delay after the first failure
	Multiplier   float64       // Growth factor of the delay, values < 1 mean 1
	MaxDelay     time.Duration // Upper bound of the delay, 0 means none
	Jitter       bool          // Scale each delay by a random factor in [0.5, 1.5)
}

// DefaultPolicy returns three attempts starting with a one second delay that doubles.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		Multiplier:   2.0,
	}
}

// NextDelay returns the delay to wait after the given failed attempt (1-based).
func NextDelay(p Policy, attempt int, rng *rand.Rand) time.Duration {
	if p.InitialDelay <= 0 {
		return 0
	}

	if p.Multiplier < 1.0 {
		p.Multiplier = 1.0
	}

	if attempt < 1 {
		attempt = 1
	}

	delay := float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}

	if p.Jitter {
		f := 0.5
		if rng != nil {
			f = 0.5 + rng.Float64()
		}

		delay *= f
	}

	return time.Duration(delay)
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not retryable. Do returns the wrapped error immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}

	return &permanentError{err: err}
}

// Do calls fn until it returns nil, returns a permanent error or the attempts are used up.
// The returned error wraps ErrAttemptsExhausted and the error of every attempt.
// Cancelling ctx aborts the wait between attempts.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	maxAttempts := max(p.MaxAttempts, 1)

	var (
		attempts *multierror.Error
		rng      = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec
	)

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				ctxlog.Info(ctx, "operation succeeded after retry", "attempt", attempt)
			}

			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			ctxlog.Debug(ctx, "permanent error, not retrying", "attempt", attempt, "error", perm.err)
			return perm.err
		}

		attempts = multierror.Append(attempts, fmt.Errorf("attempt %d: %w", attempt, err))

		if attempt >= maxAttempts {
			break
		}

		delay := NextDelay(p, attempt, rng)
		ctxlog.Warn(ctx, "attempt failed, retrying", "attempt", attempt, "maxAttempts", maxAttempts, "delay", delay.String(), "error", err)

		timer := time.NewTimer(delay)

		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(ctx.Err(), attempts.ErrorOrNil())
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrAttemptsExhausted, maxAttempts, attempts)
}

// DoResult runs cmd until it succeeds and returns the last result.
// Launch failures and cancellation are not retried.
func DoResult(ctx context.Context, p Policy, cmd *runbatch.Command) (*runbatch.Result, error) {
	var last *runbatch.Result

	err := Do(ctx, p, func(ctx context.Context) error {
		last = cmd.Run(ctx)
		if last.Success {
			return nil
		}

		switch last.Failure {
		case runbatch.FailureLaunch, runbatch.FailureCancelled:
			return Permanent(last.Error)
		default:
			return last.Error
		}
	})

	return last, err
}
