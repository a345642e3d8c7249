// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package housekeeping

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

func stubNow(t *testing.T) {
	t.Helper()

	stubs := gostub.Stub(&Now, func() time.Time { return fixedNow })
	t.Cleanup(stubs.Reset)
}

func TestBackup(t *testing.T) {
	stubNow(t)

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/data/tree/sub", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/data/notes.txt", []byte("notes"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/tree/a.txt", []byte("a"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/tree/sub/b.txt", []byte("b"), 0o644))

	report := Backup(context.Background(), fs, []string{"/data/notes.txt", "/data/tree", "/data/missing"}, "/backups")

	assert.True(t, report.Success, "partial success counts as success")
	assert.Equal(t, []string{
		"/backups/notes.txt_20250304_050607",
		"/backups/tree_20250304_050607",
	}, report.BackedUp)
	require.Len(t, report.Errors, 1)
	require.ErrorIs(t, report.Errors[0], ErrSourceNotFound)

	b, err := afero.ReadFile(fs, "/backups/notes.txt_20250304_050607")
	require.NoError(t, err)
	assert.Equal(t, "notes", string(b))

	b, err = afero.ReadFile(fs, "/backups/tree_20250304_050607/sub/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "b", string(b))
}

func TestBackup_DestinationInsideSource(t *testing.T) {
	stubNow(t)

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/src/sub", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/src/a.txt", []byte("a"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/src/sub/b.txt", []byte("b"), 0o644))

	done := make(chan BackupReport, 1)

	go func() {
		done <- Backup(context.Background(), fs, []string{"/src"}, "/src/backups")
	}()

	var report BackupReport

	select {
	case report = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("backup into its own source tree did not finish")
	}

	require.True(t, report.Success)
	assert.Empty(t, report.Errors)
	assert.Equal(t, []string{"/src/backups/src_20250304_050607"}, report.BackedUp)

	b, err := afero.ReadFile(fs, "/src/backups/src_20250304_050607/sub/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "b", string(b))

	exists, err := afero.DirExists(fs, "/src/backups/src_20250304_050607/backups")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBackup_CurrentDirectoryName(t *testing.T) {
	stubNow(t)

	dir := filepath.Join(t.TempDir(), "project")
	dest := filepath.Join(t.TempDir(), "backups")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	t.Chdir(dir)

	for _, src := range []string{".", "./"} {
		report := Backup(context.Background(), afero.NewOsFs(), []string{src}, dest)

		require.True(t, report.Success, src)
		assert.Equal(t, []string{filepath.Join(dest, "project_20250304_050607")}, report.BackedUp, src)
	}

	b, err := os.ReadFile(filepath.Join(dest, "project_20250304_050607", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(b))
}

func TestBackup_AllFailed(t *testing.T) {
	report := Backup(context.Background(), afero.NewMemMapFs(), []string{"/nope"}, "/backups")

	assert.False(t, report.Success)
	assert.Empty(t, report.BackedUp)
	assert.Len(t, report.Errors, 1)
}

func TestBackup_ReadOnlyDestination(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

	report := Backup(context.Background(), fs, []string{"/x"}, "/backups")

	assert.False(t, report.Success)
	assert.Len(t, report.Errors, 1)
}

func TestCleanup(t *testing.T) {
	stubNow(t)

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/logs", 0o755))

	old := fixedNow.Add(-48 * time.Hour)
	recent := fixedNow.Add(-time.Hour)

	for name, mtime := range map[string]time.Time{
		"/logs/old.log":    old,
		"/logs/recent.log": recent,
		"/logs/old.txt":    old,
	} {
		require.NoError(t, afero.WriteFile(fs, name, []byte(name), 0o644))
		require.NoError(t, fs.Chtimes(name, mtime, mtime))
	}

	require.NoError(t, fs.MkdirAll("/logs/old.dir.log", 0o755))
	require.NoError(t, fs.Chtimes("/logs/old.dir.log", old, old))

	report := Cleanup(context.Background(), fs, "/logs", 24*time.Hour, "*.log")

	assert.True(t, report.Success)
	assert.Equal(t, []string{"/logs/old.log"}, report.Deleted)
	assert.Empty(t, report.Errors)

	for _, kept := range []string{"/logs/recent.log", "/logs/old.txt", "/logs/old.dir.log"} {
		exists, err := afero.Exists(fs, kept)
		require.NoError(t, err)
		assert.True(t, exists, kept)
	}
}

func TestCleanup_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()

	report := Cleanup(context.Background(), fs, "/missing", time.Hour, "")
	assert.False(t, report.Success)
	assert.Len(t, report.Errors, 1)

	require.NoError(t, fs.MkdirAll("/dir", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/dir/file", nil, 0o644))

	report = Cleanup(context.Background(), fs, "/dir", time.Hour, "[")
	assert.False(t, report.Success)
	assert.Len(t, report.Errors, 1)
}
