// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/chore"
	"github.com/matt-FFFFFF/chore/cmd/batch"
	"github.com/matt-FFFFFF/chore/cmd/housekeeping"
	"github.com/matt-FFFFFF/chore/cmd/run"
	"github.com/matt-FFFFFF/chore/cmd/schedule"
	"github.com/matt-FFFFFF/chore/cmd/shell"
	"github.com/matt-FFFFFF/chore/cmd/show"
	"github.com/matt-FFFFFF/chore/cmd/up"
	"github.com/matt-FFFFFF/chore/cmd/watch"
	"github.com/matt-FFFFFF/chore/internal/color"
	"github.com/matt-FFFFFF/chore/internal/ctxlog"
	"github.com/urfave/cli/v3"
)

const (
	logJSONFlag  = "log-json"
	logLevelFlag = "log-level"
	noColorFlag  = "no-color"
)

// RootCmd is the root command for the CLI.
var RootCmd = &cli.Command{
	Commands: []*cli.Command{
		run.RunCmd,
		batch.BatchCmd,
		schedule.ScheduleCmd,
		watch.WatchCmd,
		up.UpCmd,
		shell.ShellCmd,
		show.ShowCmd,
		housekeeping.BackupCmd,
		housekeeping.CleanupCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "chore",
	Version:   chore.Version + " (" + chore.Commit + ")",
	Description: `Chore runs external commands, sequences them into batches, re-runs them
on a fixed interval and watches directory trees for change.

Single commands, batches, schedules and watches can be started directly from the
command line, or declared together in a YAML, HCL or TOML job file run with 'chore up'.`,
	Usage:     "chore run -- make test",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    logJSONFlag,
			Usage:   "Write logs as JSON objects instead of pretty lines",
			Sources: cli.EnvVars("CHORE_LOG_JSON"),
		},
		&cli.StringFlag{
			Name:    logLevelFlag,
			Usage:   "Log level: DEBUG, INFO, WARN or ERROR",
			Sources: cli.EnvVars("CHORE_LOG_LEVEL"),
		},
		&cli.BoolFlag{
			Name:    noColorFlag,
			Usage:   "Disable colour output",
			Sources: cli.EnvVars(color.NoColor),
		},
	},
	Before:                before,
	EnableShellCompletion: true,
}

// before applies the global logging and colour flags.
func before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool(noColorFlag) {
		color.SetEnabled(false)
	}

	if lvl := cmd.String(logLevelFlag); lvl != "" {
		ctxlog.LevelVar.Set(ctxlog.ParseLevel(lvl))
	}

	if cmd.Bool(logJSONFlag) {
		ctx = ctxlog.New(ctx, ctxlog.JSONLogger)
	}

	return ctx, nil
}
