// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import (
	"bytes"
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/matt-FFFFFF/chore/internal/color"
	"github.com/matt-FFFFFF/chore/internal/runbatch"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func unixOnly(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell commands")
	}

	t.Setenv("SHELL", "/bin/sh")
}

func TestRunCommand_Retries(t *testing.T) {
	unixOnly(t)

	dir := t.TempDir()

	// Fails until the marker file exists, creating it on the first attempt.
	c := &runbatch.Command{
		Line:    "test -f " + dir + "/marker || { touch " + dir + "/marker; exit 1; }",
		Options: runbatch.DefaultOptions(),
	}

	res := runCommand(context.Background(), c, 3, time.Millisecond)
	require.NotNil(t, res)
	assert.True(t, res.Success)
}

func TestRunCommand_Single(t *testing.T) {
	unixOnly(t)

	c := &runbatch.Command{Line: "exit 4", Options: runbatch.DefaultOptions()}

	res := runCommand(context.Background(), c, 1, time.Millisecond)
	assert.False(t, res.Success)
	assert.Equal(t, 4, res.ExitCode)
}

func TestRunCmd(t *testing.T) {
	unixOnly(t)
	color.SetEnabled(false)

	var code int

	stubs := gostub.Stub(&cli.OsExiter, func(c int) { code = c })
	defer stubs.Reset()

	var out bytes.Buffer

	RunCmd.Writer = &out
	RunCmd.ErrWriter = &out

	err := RunCmd.Run(context.Background(), []string{"run", "--timeout", "10s", "--", "echo", "hello;", "exit", "2"})
	require.Error(t, err)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "✗ echo hello; exit 2 (exit code: 2)")
}
