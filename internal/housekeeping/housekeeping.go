// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package housekeeping provides file backup and cleanup helpers that are
// typically run from a schedule.
package housekeeping

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/matt-FFFFFF/chore/internal/ctxlog"
	"github.com/spf13/afero"
)

// BackupTimeFormat is appended to the base name of every backup.
const BackupTimeFormat = "20060102_150405"

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Now returns the current time. Tests replace it.
var Now = time.Now

// ErrSourceNotFound is recorded when a backup source does not exist.
var ErrSourceNotFound = errors.New("source not found")

// BackupReport summarises a Backup call.
type BackupReport struct {
	Success  bool
	BackedUp []string // Destination paths created
	Errors   []error
}

// CleanupReport summarises a Cleanup call.
type CleanupReport struct {
	Success bool
	Deleted []string
	Errors  []error
}

// Backup copies each source file or tree to <destDir>/<base>_<timestamp>.
// The base name is taken from the absolute source path. A destDir inside a
// source tree is left out of that source's copy.
// Errors are collected per source. Success is true when nothing failed or
// at least one source was backed up.
func Backup(ctx context.Context, fs afero.Fs, sources []string, destDir string) BackupReport {
	report := BackupReport{Success: true}

	if err := fs.MkdirAll(destDir, dirPerm); err != nil {
		return BackupReport{Errors: []error{fmt.Errorf("creating backup directory %s: %w", destDir, err)}}
	}

	stamp := Now().Format(BackupTimeFormat)
	skip := absPath(destDir)

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			report.Errors = append(report.Errors, err)
			break
		}

		info, err := fs.Stat(src)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				err = fmt.Errorf("%w: %s", ErrSourceNotFound, src)
			}

			report.Errors = append(report.Errors, err)

			continue
		}

		target := filepath.Join(destDir, filepath.Base(absPath(src))+"_"+stamp)

		if info.IsDir() {
			err = copyTree(fs, src, target, skip)
		} else {
			err = copyFile(fs, src, target, info)
		}

		if err != nil {
			ctxlog.Warn(ctx, "backup failed", "source", src, "error", err)
			report.Errors = append(report.Errors, fmt.Errorf("backing up %s: %w", src, err))

			continue
		}

		ctxlog.Debug(ctx, "backed up", "source", src, "target", target)
		report.BackedUp = append(report.BackedUp, target)
	}

	if len(report.Errors) > 0 {
		report.Success = len(report.BackedUp) > 0
	}

	return report
}

// Cleanup deletes regular files in dir matching pattern whose modification
// time is older than olderThan.
func Cleanup(ctx context.Context, fs afero.Fs, dir string, olderThan time.Duration, pattern string) CleanupReport {
	if pattern == "" {
		pattern = "*"
	}

	if _, err := fs.Stat(dir); err != nil {
		return CleanupReport{Errors: []error{fmt.Errorf("directory %s: %w", dir, err)}}
	}

	matches, err := afero.Glob(fs, filepath.Join(dir, pattern))
	if err != nil {
		return CleanupReport{Errors: []error{fmt.Errorf("invalid pattern %q: %w", pattern, err)}}
	}

	report := CleanupReport{Success: true}
	cutoff := Now().Add(-olderThan)

	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			report.Errors = append(report.Errors, err)
			break
		}

		info, err := fs.Stat(path)
		if err != nil || !info.Mode().IsRegular() || !info.ModTime().Before(cutoff) {
			continue
		}

		if err := fs.Remove(path); err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("deleting %s: %w", path, err))
			continue
		}

		ctxlog.Debug(ctx, "deleted old file", "path", path, "modTime", info.ModTime())
		report.Deleted = append(report.Deleted, path)
	}

	return report
}

// absPath resolves path against the working directory, falling back to the cleaned path.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}

	return abs
}

// copyTree copies src to dst, skipping the skip directory so that a
// destination inside the source is not copied into itself.
func copyTree(fs afero.Fs, src, dst, skip string) error {
	return afero.Walk(fs, src, func(path string, info os.FileInfo, err error) error { //nolint:wrapcheck
		if err != nil {
			return err
		}

		if info.IsDir() && absPath(path) == skip {
			return filepath.SkipDir
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err //nolint:wrapcheck
		}

		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return fs.MkdirAll(target, info.Mode().Perm()|0o700) //nolint:mnd
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		return copyFile(fs, path, target, info)
	})
}

func copyFile(fs afero.Fs, src, dst string, info os.FileInfo) error {
	in, err := fs.Open(src)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer in.Close() //nolint:errcheck

	perm := info.Mode().Perm()
	if perm == 0 {
		perm = filePerm
	}

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err //nolint:wrapcheck
	}

	if err := out.Close(); err != nil {
		return err //nolint:wrapcheck
	}

	return fs.Chtimes(dst, info.ModTime(), info.ModTime()) //nolint:wrapcheck
}
