// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package housekeeping implements `chore backup` and `chore cleanup`.
package housekeeping

import (
	"context"
	"fmt"
	"io"

	"github.com/matt-FFFFFF/chore/cmd/cmdstate"
	"github.com/matt-FFFFFF/chore/internal/ctxlog"
	"github.com/matt-FFFFFF/chore/internal/housekeeping"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	destFlag      = "dest"
	olderThanFlag = "older-than"
	patternFlag   = "pattern"
)

// FsFactory returns the filesystem the commands operate on. Tests replace it.
var FsFactory = afero.NewOsFs

// BackupCmd copies files and directories into a backup directory.
var BackupCmd = &cli.Command{
	Name:      "backup",
	Usage:     "Copy files and directories into a backup directory",
	UsageText: "chore backup --dest DIR SRC...",
	Description: `Copy each source into DIR as <name>_<YYYYmmdd_HHMMSS>. Directories are copied recursively.

Missing sources are reported and skipped. The command fails when no source could be backed up.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:      destFlag,
			Aliases:   []string{"d"},
			Usage:     "Directory the backups are written to, created if needed",
			Required:  true,
			TakesFile: true,
			OnlyOnce:  true,
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		sources := cmd.Args().Slice()
		if len(sources) == 0 {
			return cli.Exit("at least one source must be given", 1)
		}

		report := housekeeping.Backup(ctx, FsFactory(), sources, cmd.String(destFlag))

		return finish(ctx, cmd.Writer, "backed up", report.BackedUp, report.Errors, report.Success)
	},
}

// CleanupCmd deletes old files from a directory.
var CleanupCmd = &cli.Command{
	Name:      "cleanup",
	Usage:     "Delete files older than a given age from a directory",
	UsageText: "chore cleanup --older-than D [--pattern GLOB] DIR",
	Description: `Delete the regular files directly inside DIR that match GLOB and were last
modified before now minus the given age. Subdirectories are not descended into.`,
	Flags: []cli.Flag{
		&cli.DurationFlag{
			Name:     olderThanFlag,
			Usage:    "Minimum age of the files to delete, e.g. 720h",
			Required: true,
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     patternFlag,
			Aliases:  []string{"p"},
			Usage:    "Glob the file names must match",
			Value:    "*",
			OnlyOnce: true,
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() != 1 {
			return cli.Exit("exactly one directory must be given", 1)
		}

		report := housekeeping.Cleanup(ctx, FsFactory(), cmd.Args().First(), cmd.Duration(olderThanFlag), cmd.String(patternFlag))

		return finish(ctx, cmd.Writer, "deleted", report.Deleted, report.Errors, report.Success)
	},
}

func finish(ctx context.Context, w io.Writer, verb string, paths []string, errs []error, success bool) error {
	for _, p := range paths {
		fmt.Fprintf(w, "%s %s\n", verb, p) //nolint:errcheck
	}

	for _, err := range errs {
		ctxlog.Error(ctx, "housekeeping error", "error", err)
	}

	if !success {
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	return nil
}
