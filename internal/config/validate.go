// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

// ErrInvalidConfig is returned when a job file fails validation.
var ErrInvalidConfig = errors.New("invalid job file")

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	validate.RegisterValidation("duration", func(fl validator.FieldLevel) bool { //nolint:errcheck
		_, err := time.ParseDuration(fl.Field().String())
		return err == nil
	})
	validate.RegisterValidation("positive_duration", func(fl validator.FieldLevel) bool { //nolint:errcheck
		d, err := time.ParseDuration(fl.Field().String())
		return err == nil && d > 0
	})
}

// Validate checks field constraints and that names are unique within each section.
// All problems are reported together.
func (f *File) Validate() error {
	var result *multierror.Error

	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return errors.Join(ErrInvalidConfig, err)
		}

		for _, fe := range verrs {
			result = multierror.Append(result, fieldError(fe))
		}
	}

	result = multierror.Append(result, duplicates("batch", f.Batches, func(b BatchDef) string { return b.Name })...)
	result = multierror.Append(result, duplicates("schedule", f.Schedules, func(s ScheduleDef) string { return s.Name })...)
	result = multierror.Append(result, duplicates("watch", f.Watches, func(w WatchDef) string { return w.Name })...)

	if err := result.ErrorOrNil(); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}

	return nil
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s: is required", fe.Namespace())
	case "duration":
		return fmt.Errorf("%s: %q is not a valid duration", fe.Namespace(), fe.Value())
	case "positive_duration":
		return fmt.Errorf("%s: %q must be a duration greater than zero", fe.Namespace(), fe.Value())
	default:
		return fmt.Errorf("%s: failed %q constraint", fe.Namespace(), fe.Tag())
	}
}

func duplicates[T any](kind string, defs []T, name func(T) string) []error {
	seen := make(map[string]struct{}, len(defs))

	var errs []error

	for _, d := range defs {
		n := name(d)
		if n == "" {
			continue
		}

		if _, ok := seen[n]; ok {
			errs = append(errs, fmt.Errorf("duplicate %s name %q", kind, n))
			continue
		}

		seen[n] = struct{}{}
	}

	return errs
}
