// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memFs(t *testing.T, files ...string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/root", 0o755))

	for _, f := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(f), 0o755))
		require.NoError(t, afero.WriteFile(fs, f, []byte(f), 0o644))
	}

	return fs
}

func TestTakeSnapshot(t *testing.T) {
	fs := memFs(t,
		"/root/a.txt",
		"/root/sub/b.txt",
		"/root/.hidden",
		"/root/.git/config",
		"/root/sub/.env",
	)

	snap, err := TakeSnapshot(context.Background(), fs, "/root", false)
	require.NoError(t, err)
	assert.Len(t, snap, 2)
	assert.Contains(t, snap, "/root/a.txt")
	assert.Contains(t, snap, "/root/sub/b.txt")

	snap, err = TakeSnapshot(context.Background(), fs, "/root", true)
	require.NoError(t, err)
	assert.Len(t, snap, 5)
}

func TestTakeSnapshot_Errors(t *testing.T) {
	fs := memFs(t, "/root/file")

	_, err := TakeSnapshot(context.Background(), fs, "/missing", false)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = TakeSnapshot(context.Background(), fs, "/root/file", false)
	require.ErrorIs(t, err, ErrNotDirectory)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = TakeSnapshot(ctx, fs, "/root", false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTakeSnapshot_SymlinkRoot(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real")
	link := filepath.Join(dir, "link")

	require.NoError(t, os.MkdirAll(filepath.Join(target, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(target, "sub", "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.Symlink(target, link))

	snap, err := TakeSnapshot(context.Background(), afero.NewOsFs(), link, false)
	require.NoError(t, err)
	assert.Len(t, snap, 2)
	assert.Contains(t, snap, filepath.Join(link, "a.txt"))
	assert.Contains(t, snap, filepath.Join(link, "sub", "b.txt"))
}

func TestDiff(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Second)

	prev := Snapshot{"/r/keep": t0, "/r/mod": t0, "/r/gone": t0, "/r/b-gone": t0}
	next := Snapshot{"/r/keep": t0, "/r/mod": t1, "/r/new": t1, "/r/a-new": t1}

	cs := Diff(prev, next)

	assert.Equal(t, []string{"/r/a-new", "/r/new"}, cs.Added)
	assert.Equal(t, []string{"/r/b-gone", "/r/gone"}, cs.Removed)
	assert.Equal(t, []string{"/r/mod"}, cs.Modified)
	assert.Equal(t, 5, cs.Len())
	assert.False(t, cs.Empty())

	assert.True(t, Diff(prev, prev).Empty())
}
