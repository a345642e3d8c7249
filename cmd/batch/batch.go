// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package batch implements `chore batch`, which runs command lines in order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/chore/cmd/cmdstate"
	"github.com/matt-FFFFFF/chore/internal/ctxlog"
	"github.com/matt-FFFFFF/chore/internal/runbatch"
	"github.com/urfave/cli/v3"
)

const (
	labelFlag       = "label"
	stopOnErrorFlag = "stop-on-error"
	outFlag         = "out"
)

// ErrWriteReport is returned when the outcome report cannot be saved.
var ErrWriteReport = errors.New("failed to write outcome report")

// BatchCmd runs each argument as a command line, in order.
var BatchCmd = &cli.Command{
	Name:      "batch",
	Usage:     "Run several command lines in order",
	UsageText: `chore batch [options] LINE...`,
	Description: `Run each argument as a command line, one after the other, and print a summary.

Every command is attempted even if an earlier one failed, unless --stop-on-error is set.
The timeout applies to each command. Use --out to save a YAML report that
'chore show' can display later.`,
	Flags: append(cmdstate.CommandFlags(), append(cmdstate.OutputFlags(),
		&cli.StringFlag{
			Name:     labelFlag,
			Usage:    "Label shown in logs and in the summary",
			Value:    "batch",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:     stopOnErrorFlag,
			Usage:    "Do not launch further commands after the first failure",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:      outFlag,
			Usage:     "Write the outcome as YAML to this file",
			TakesFile: true,
			OnlyOnce:  true,
		},
	)...),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	lines := cmd.Args().Slice()
	if len(lines) == 0 {
		return cli.Exit(cmdstate.ErrNoCommandLine.Error(), 1)
	}

	b := &runbatch.Batch{
		Label:           cmd.String(labelFlag),
		Commands:        lines,
		Options:         cmdstate.Options(cmd),
		ContinueOnError: !cmd.Bool(stopOnErrorFlag),
	}

	outcome := b.Run(ctx)

	if out := cmd.String(outFlag); out != "" {
		if err := WriteReport(out, outcome); err != nil {
			return cmdstate.Fail(ctx, "failed to save outcome", err)
		}

		ctxlog.Info(ctx, fmt.Sprintf("Outcome written to %s", out))
	}

	if err := outcome.WriteText(cmd.Writer, cmdstate.OutputOptions(cmd)); err != nil {
		return cmdstate.Fail(ctx, "failed to write outcome", err)
	}

	if err := outcome.Err(); err != nil {
		ctxlog.Debug(ctx, "batch failed", "error", err)
		return cli.Exit(cmdstate.CliExitStr, 1)
	}

	return nil
}

// WriteReport saves the YAML report of outcome to name.
func WriteReport(name string, outcome *runbatch.Outcome) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Join(ErrWriteReport, err)
	}

	if err := outcome.WriteYAML(f); err != nil {
		f.Close() //nolint:errcheck
		return errors.Join(ErrWriteReport, err)
	}

	if err := f.Close(); err != nil {
		return errors.Join(ErrWriteReport, err)
	}

	return nil
}
