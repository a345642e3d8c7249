// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package show implements `chore show`, which prints a saved batch outcome.
package show

import (
	"context"
	"errors"
	"os"

	"github.com/matt-FFFFFF/chore/cmd/cmdstate"
	"github.com/matt-FFFFFF/chore/internal/runbatch"
	"github.com/urfave/cli/v3"
)

var (
	// ErrReadFile is returned when the file cannot be read.
	ErrReadFile = errors.New("failed to read file")
	// ErrWriteResults is returned when the outcome cannot be written.
	ErrWriteResults = errors.New("failed to write outcome")
)

// ShowCmd shows an outcome saved with `chore batch --out`.
var ShowCmd = &cli.Command{
	Name:        "show",
	Usage:       "Show a previously saved batch outcome",
	UsageText:   "chore show [options] FILE",
	Description: "Show an outcome saved with 'chore batch --out FILE'.",
	Flags:       cmdstate.OutputFlags(),
	Action: func(_ context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() != 1 {
			return cli.Exit("exactly one file must be given", 1)
		}

		file, err := os.Open(cmd.Args().First())
		if err != nil {
			return errors.Join(ErrReadFile, err)
		}
		defer file.Close() //nolint:errcheck

		outcome, err := runbatch.ReadYAML(file)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if err := outcome.WriteText(cmd.Writer, cmdstate.OutputOptions(cmd)); err != nil {
			return errors.Join(ErrWriteResults, err)
		}

		return nil
	},
}
