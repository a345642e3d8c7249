// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package schedule

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/chore/internal/runbatch"
)

// Action is the work performed on each tick.
type Action interface {
	Run(ctx context.Context) error
}

// ActionFunc adapts a function to the Action interface.
type ActionFunc func(ctx context.Context) error

// Run calls f(ctx).
func (f ActionFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// CommandAction runs cmd on every tick. A failed result is reported as a fault.
// The last result is passed to onResult when it is not nil.
func CommandAction(cmd *runbatch.Command, onResult func(ctx context.Context, r *runbatch.Result)) Action {
	return ActionFunc(func(ctx context.Context) error {
		res := cmd.Run(ctx)

		if onResult != nil {
			onResult(ctx, res)
		}

		if !res.Success {
			return fmt.Errorf("command %q failed: %w", res.Label, res.Error)
		}

		return nil
	})
}

// ErrActionPanic is the fault recorded when an action panics.
// It is constructed with the value that caused the panic.
type ErrActionPanic struct {
	Value any
}

// Error implements the error interface for ErrActionPanic.
func (e *ErrActionPanic) Error() string {
	prefix := "scheduled action panic:"

	switch x := e.Value.(type) {
	case string:
		return fmt.Sprintf("%s %s", prefix, x)
	case error:
		return fmt.Sprintf("%s %s", prefix, x.Error())
	default:
		return fmt.Sprintf("%s %v", prefix, x)
	}
}

// Unwrap returns the panic value when it is an error.
func (e *ErrActionPanic) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}

// runAction calls a and converts a panic into *ErrActionPanic.
func runAction(ctx context.Context, a Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ErrActionPanic{Value: r}
		}
	}()

	return a.Run(ctx)
}
