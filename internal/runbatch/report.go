// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-yaml"
)

// ResultReport is the machine-readable form of a Result.
type ResultReport struct {
	RunID     string `yaml:"run_id"`
	Label     string `yaml:"label"`
	Command   string `yaml:"command"`
	Success   bool   `yaml:"success"`
	ExitCode  int    `yaml:"exit_code"`
	Failure   string `yaml:"failure,omitempty"`
	Error     string `yaml:"error,omitempty"`
	Truncated bool   `yaml:"truncated,omitempty"`
	StartedAt string `yaml:"started_at"`
	Duration  string `yaml:"duration"`
	StdOut    string `yaml:"stdout,omitempty"`
	StdErr    string `yaml:"stderr,omitempty"`
}

// OutcomeReport is the machine-readable form of an Outcome.
type OutcomeReport struct {
	Label     string         `yaml:"label"`
	Total     int            `yaml:"total"`
	Succeeded int            `yaml:"succeeded"`
	Failed    int            `yaml:"failed"`
	NotRun    int            `yaml:"not_run"`
	Duration  string         `yaml:"duration"`
	Results   []ResultReport `yaml:"results"`
}

// Report converts the result for serialization.
func (r *Result) Report() ResultReport {
	rr := ResultReport{
		RunID:     r.RunID,
		Label:     r.Label,
		Command:   r.Command,
		Success:   r.Success,
		ExitCode:  r.ExitCode,
		Truncated: r.Truncated,
		StartedAt: r.StartedAt.Format(time.RFC3339Nano),
		Duration:  r.Duration.String(),
		StdOut:    string(r.StdOut),
		StdErr:    string(r.StdErr),
	}

	if r.Failure != FailureNone {
		rr.Failure = r.Failure.String()
	}

	if r.Error != nil {
		rr.Error = r.Error.Error()
	}

	return rr
}

// Report converts the outcome for serialization.
func (o *Outcome) Report() OutcomeReport {
	or := OutcomeReport{
		Label:     o.Label,
		Total:     o.Total,
		Succeeded: o.Succeeded,
		Failed:    o.Failed,
		NotRun:    o.Total - len(o.Results),
		Duration:  o.Duration.String(),
		Results:   make([]ResultReport, 0, len(o.Results)),
	}

	for _, r := range o.Results {
		or.Results = append(or.Results, r.Report())
	}

	return or
}

// WriteYAML writes the outcome report as YAML.
func (o *Outcome) WriteYAML(w io.Writer) error {
	b, err := yaml.Marshal(o.Report())
	if err != nil {
		return fmt.Errorf("failed to marshal outcome report: %w", err)
	}

	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("failed to write outcome report: %w", err)
	}

	return nil
}

// ErrReadReport is returned when a saved outcome report cannot be decoded.
var ErrReadReport = errors.New("failed to read outcome report")

// ReadYAML decodes an outcome report written by WriteYAML.
// Errors are restored as plain messages, so errors.Is does not match the original sentinels.
func ReadYAML(r io.Reader) (*Outcome, error) {
	var or OutcomeReport
	if err := yaml.NewDecoder(r).Decode(&or); err != nil {
		return nil, errors.Join(ErrReadReport, err)
	}

	return or.Outcome()
}

// Outcome rebuilds an Outcome from the report.
func (or OutcomeReport) Outcome() (*Outcome, error) {
	d, err := time.ParseDuration(or.Duration)
	if err != nil {
		return nil, errors.Join(ErrReadReport, err)
	}

	o := &Outcome{
		Label:     or.Label,
		Total:     or.Total,
		Succeeded: or.Succeeded,
		Failed:    or.Failed,
		Duration:  d,
		Results:   make([]*Result, 0, len(or.Results)),
	}

	for i, rr := range or.Results {
		r, err := rr.Result()
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}

		if i == 0 {
			o.StartedAt = r.StartedAt
		}

		o.Results = append(o.Results, r)
	}

	return o, nil
}

// Result rebuilds a Result from the report.
func (rr ResultReport) Result() (*Result, error) {
	startedAt, err := time.Parse(time.RFC3339Nano, rr.StartedAt)
	if err != nil {
		return nil, errors.Join(ErrReadReport, err)
	}

	d, err := time.ParseDuration(rr.Duration)
	if err != nil {
		return nil, errors.Join(ErrReadReport, err)
	}

	r := &Result{
		RunID:     rr.RunID,
		Label:     rr.Label,
		Command:   rr.Command,
		Success:   rr.Success,
		ExitCode:  rr.ExitCode,
		Truncated: rr.Truncated,
		StartedAt: startedAt,
		Duration:  d,
		Failure:   ParseFailureKind(rr.Failure),
	}

	if rr.StdOut != "" {
		r.StdOut = []byte(rr.StdOut)
	}

	if rr.StdErr != "" {
		r.StdErr = []byte(rr.StdErr)
	}

	if rr.Error != "" {
		r.Error = errors.New(rr.Error)
	}

	return r, nil
}
