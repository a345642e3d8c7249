// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// ErrNotDirectory is returned when the watch root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Snapshot maps the path of every tracked file to its modification time.
type Snapshot map[string]time.Time

// ChangeSet is the difference between two snapshots. Each slice is sorted.
type ChangeSet struct {
	Added    []string
	Removed  []string
	Modified []string
}

// Empty reports whether nothing changed.
func (c ChangeSet) Empty() bool {
	return c.Len() == 0
}

// Len returns the total number of changed paths.
func (c ChangeSet) Len() int {
	return len(c.Added) + len(c.Removed) + len(c.Modified)
}

// TakeSnapshot walks root and records the modification time of every regular file.
// Hidden entries (leading '.') are skipped unless includeHidden is set.
// Files that disappear while the tree is walked are ignored; any other error is returned.
func TakeSnapshot(ctx context.Context, fs afero.Fs, root string, includeHidden bool) (Snapshot, error) {
	info, err := fs.Stat(root)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	snap := Snapshot{}
	walkRoot := symlinkRoot(fs, root)

	err = afero.Walk(fs, walkRoot, func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			if path != walkRoot && errors.Is(err, os.ErrNotExist) {
				return nil
			}

			return err
		}

		if path != walkRoot && !includeHidden && strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if info.Mode().IsRegular() {
			snap[path] = info.ModTime()
		}

		return nil
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return snap, nil
}

// symlinkRoot returns root with a trailing separator when root is a symlink,
// so that the walk lstats the target directory instead of the link.
func symlinkRoot(fs afero.Fs, root string) string {
	lstater, ok := fs.(afero.Lstater)
	if !ok {
		return root
	}

	info, lstatCalled, err := lstater.LstatIfPossible(root)
	if err != nil || !lstatCalled || info.Mode()&os.ModeSymlink == 0 {
		return root
	}

	return strings.TrimRight(root, string(filepath.Separator)) + string(filepath.Separator)
}

// Diff computes the changes from prev to next.
func Diff(prev, next Snapshot) ChangeSet {
	var cs ChangeSet

	for path, mtime := range next {
		before, ok := prev[path]
		switch {
		case !ok:
			cs.Added = append(cs.Added, path)
		case !before.Equal(mtime):
			cs.Modified = append(cs.Modified, path)
		}
	}

	for path := range prev {
		if _, ok := next[path]; !ok {
			cs.Removed = append(cs.Removed, path)
		}
	}

	slices.Sort(cs.Added)
	slices.Sort(cs.Removed)
	slices.Sort(cs.Modified)

	return cs
}
