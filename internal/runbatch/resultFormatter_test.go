// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOutcome() *Outcome {
	return &Outcome{
		Label: "build",
		Total: 3,
		Results: []*Result{
			{Label: "go build ./...", Success: true, StdOut: []byte("built")},
			{
				Label:    "go test ./...",
				ExitCode: 1,
				Error:    fmt.Errorf("%w: exit code 1", ErrNonZeroExit),
				Failure:  FailureNonZeroExit,
				StdOut:   []byte("FAIL pkg"),
				StdErr:   []byte("line1\nline2\n"),
			},
		},
		Succeeded: 1,
		Failed:    1,
	}
}

func TestOutcomeWriteText_Defaults(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, sampleOutcome().WriteText(&buf, nil))

	out := buf.String()
	assert.Contains(t, out, "✗ build\n")
	assert.Contains(t, out, "  ✓ go build ./...\n")
	assert.Contains(t, out, "  ✗ go test ./... (exit code: 1)\n")
	assert.Contains(t, out, "    ➜ Error: non-zero exit code: exit code 1\n")
	assert.Contains(t, out, "    ➜ Error Output:\n       line1\n       line2\n")
	assert.NotContains(t, out, "FAIL pkg", "stdout is excluded by default")
	assert.NotContains(t, out, "built")
	assert.Contains(t, out, "Summary: 3 total, 1 succeeded, 1 failed, 1 not run")
}

func TestOutcomeWriteText_AllDetails(t *testing.T) {
	var buf bytes.Buffer

	opts := &OutputOptions{IncludeStdOut: true, IncludeStdErr: true, ShowSuccessDetails: true}
	require.NoError(t, sampleOutcome().WriteText(&buf, opts))

	out := buf.String()
	assert.Contains(t, out, "       built\n")
	assert.Contains(t, out, "       FAIL pkg\n")
}

func TestOutcomeWriteText_Success(t *testing.T) {
	var buf bytes.Buffer

	o := &Outcome{Label: "ok", Total: 1, Succeeded: 1, Results: []*Result{{Label: "true", Success: true}}}
	require.NoError(t, o.WriteText(&buf, nil))

	assert.Contains(t, buf.String(), "✓ ok\n")
	assert.Contains(t, buf.String(), "Summary: 1 total, 1 succeeded, 0 failed\n")
}

func TestResultWriteText_Cancelled(t *testing.T) {
	var buf bytes.Buffer

	r := &Result{Label: "sleep 10", ExitCode: NoExitCode, Error: ErrCancelled, Failure: FailureCancelled, Truncated: true}
	require.NoError(t, r.WriteText(&buf, nil))

	assert.Equal(t, "~ sleep 10 (exit code: -1) [output truncated]\n  ➜ Error: cancelled\n", buf.String())
}

func TestResultWriteText_WriterError(t *testing.T) {
	r := &Result{Label: "x", Success: true}
	err := r.WriteText(errWriter{}, nil)

	assert.Error(t, err)
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("write failed") }

func TestFormatOutput(t *testing.T) {
	assert.Equal(t, "  a\n\n  b\n", formatOutput([]byte("a\n\nb\n"), "  "))
}
