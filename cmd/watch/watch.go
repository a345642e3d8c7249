// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package watch implements `chore watch`, which polls a directory tree for changes.
package watch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/matt-FFFFFF/chore/cmd/cmdstate"
	"github.com/matt-FFFFFF/chore/internal/config"
	"github.com/matt-FFFFFF/chore/internal/ctxlog"
	"github.com/matt-FFFFFF/chore/internal/runbatch"
	"github.com/matt-FFFFFF/chore/internal/watch"
	"github.com/urfave/cli/v3"
)

const (
	intervalFlag      = "interval"
	commandFlag       = "command"
	includeHiddenFlag = "include-hidden"
)

// WatchCmd watches a directory and optionally runs a command on change.
var WatchCmd = &cli.Command{
	Name:      "watch",
	Usage:     "Watch a directory tree for added, removed and modified files",
	UsageText: "chore watch [--interval D] [--command LINE] [options] DIR",
	Description: `Poll DIR every interval and report the files that were added, removed or modified
since the previous poll. The first poll only records the baseline.

With --command the line is run after every poll that found changes. A failing
command is logged and watching continues. Watching ends with an error when the
directory itself cannot be read any more.`,
	Flags: append(cmdstate.CommandFlags(), append(cmdstate.OutputFlags(),
		&cli.DurationFlag{
			Name:     intervalFlag,
			Aliases:  []string{"i"},
			Usage:    "Delay between polls",
			Value:    time.Second,
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     commandFlag,
			Aliases:  []string{"c"},
			Usage:    "Command line to run when changes are detected",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:     includeHiddenFlag,
			Usage:    "Also track files and directories whose name starts with a dot",
			OnlyOnce: true,
		},
	)...),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("exactly one directory must be given", 1)
	}

	root := cmd.Args().First()
	outputOpts := cmdstate.OutputOptions(cmd)

	w := watch.New(root, cmd.Duration(intervalFlag), config.CommandHandler(
		root,
		cmd.String(commandFlag),
		cmdstate.Options(cmd),
		func(ctx context.Context, r *runbatch.Result) {
			if err := r.WriteText(cmd.Writer, outputOpts); err != nil {
				ctxlog.Warn(ctx, "failed to write result", "error", err)
			}
		},
	))
	w.IncludeHidden = cmd.Bool(includeHiddenFlag)
	w.OnPoll = func(ctx context.Context, report watch.PollReport) {
		printChanges(ctx, cmd.Writer, report)
	}

	if err := w.Run(ctx); err != nil && !cmdstate.Stopped(ctx, err) {
		return cmdstate.Fail(ctx, "watch faulted", err)
	}

	return nil
}

// printChanges writes one line per changed path: +added, -removed, ~modified.
func printChanges(ctx context.Context, w io.Writer, report watch.PollReport) {
	if report.Baseline {
		ctxlog.Info(ctx, "watch baseline recorded", "files", report.Files)
		return
	}

	for _, group := range []struct {
		prefix string
		paths  []string
	}{
		{"+", report.Changes.Added},
		{"-", report.Changes.Removed},
		{"~", report.Changes.Modified},
	} {
		for _, p := range group.paths {
			if _, err := fmt.Fprintf(w, "%s %s\n", group.prefix, p); err != nil {
				ctxlog.Warn(ctx, "failed to write change", "error", err)
				return
			}
		}
	}
}
