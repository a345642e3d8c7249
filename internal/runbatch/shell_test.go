// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookPath(t *testing.T) {
	if runtime.GOOS == goosWindows {
		t.Skip("skipping executable bit test on windows")
	}

	dir := t.TempDir()
	exe := filepath.Join(dir, "mockcommand")
	noExec := filepath.Join(dir, "noexec")

	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.WriteFile(noExec, []byte("#!/bin/sh\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "adir"), 0o755))

	t.Setenv("PATH", dir)

	tests := []struct {
		name    string
		command string
		want    string
		wantErr error
	}{
		{name: "found", command: "mockcommand", want: exe},
		{name: "not executable", command: "noexec", wantErr: ErrCommandNotFound},
		{name: "directory", command: "adir", wantErr: ErrCommandNotFound},
		{name: "missing", command: "missing", wantErr: ErrCommandNotFound},
		{name: "path is used as is", command: "./relative/cmd", want: "./relative/cmd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lookPath(tt.command)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Shell(t *testing.T) {
	unixOnly(t)

	path, argv, err := resolve(testContext(t), "echo $HOME", true)

	require.NoError(t, err)
	assert.Equal(t, binSh, path)
	assert.Equal(t, []string{"sh", "-c", "echo $HOME"}, argv)
}

func TestDefaultShell_Env(t *testing.T) {
	if runtime.GOOS == goosWindows {
		t.Skip("SHELL is ignored on windows")
	}

	t.Setenv("SHELL", "/usr/bin/zsh")
	assert.Equal(t, "/usr/bin/zsh", defaultShell(testContext(t)))

	t.Setenv("SHELL", "")
	assert.Equal(t, binSh, defaultShell(testContext(t)))
}
