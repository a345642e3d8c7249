// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package show

import (
	"bytes"
	"context"
	"testing"

	"github.com/matt-FFFFFF/chore/internal/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowCmd(t *testing.T) {
	color.SetEnabled(false)

	var out bytes.Buffer

	ShowCmd.Writer = &out
	ShowCmd.ErrWriter = &out

	require.NoError(t, ShowCmd.Run(context.Background(), []string{"show", "testdata/outcome.yaml"}))

	text := out.String()
	assert.Contains(t, text, "✗ nightly\n")
	assert.Contains(t, text, "  ✓ go build ./...\n")
	assert.Contains(t, text, "  ✗ go test ./... (exit code: 1)\n")
	assert.Contains(t, text, "       FAIL pkg\n")
	assert.Contains(t, text, "Summary: 2 total, 1 succeeded, 1 failed")
}
