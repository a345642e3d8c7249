// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package shell implements `chore shell`, an interactive prompt that runs each line as a command.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/matt-FFFFFF/chore/cmd/cmdstate"
	"github.com/matt-FFFFFF/chore/internal/config"
	"github.com/matt-FFFFFF/chore/internal/ctxlog"
	"github.com/matt-FFFFFF/chore/internal/runbatch"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v3"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

const prompt = "chore> "

// ShellCmd starts the interactive prompt.
var ShellCmd = &cli.Command{
	Name:  "shell",
	Usage: "Run command lines interactively",
	Description: `Start an interactive prompt. Each line is run as a command and its result printed.

Lines starting with '=' are evaluated as HCL expressions in the same context as
HCL job files, e.g. '= upper(env.USER)'. Type 'exit' or 'quit', or press Ctrl+D
or Ctrl+C at the prompt to leave.`,
	Flags:  append(cmdstate.CommandFlags(), cmdstate.OutputFlags()...),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	line := liner.NewLiner()
	defer line.Close() //nolint:errcheck

	line.SetCtrlCAborts(true)

	s := &session{
		out:        cmd.Writer,
		opts:       cmdstate.Options(cmd),
		outputOpts: cmdstate.OutputOptions(cmd),
	}

	fmt.Fprintln(cmd.Writer, "Entering chore shell, type `exit` or `quit` or press Ctrl+C to quit.") //nolint:errcheck

	for ctx.Err() == nil {
		input, err := line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}

			return cmdstate.Fail(ctx, "error reading line", err)
		}

		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}

		if !s.handle(ctx, input) {
			break
		}
	}

	ctxlog.Info(ctx, "shell session ended", "failures", s.failures)

	return nil
}

type session struct {
	out        io.Writer
	opts       runbatch.Options
	outputOpts *runbatch.OutputOptions
	failures   int
}

// handle processes one input line. It returns false when the session should end.
func (s *session) handle(ctx context.Context, input string) bool {
	input = strings.TrimSpace(input)

	switch {
	case input == "":
		return true
	case input == "exit" || input == "quit":
		return false
	case strings.HasPrefix(input, "="):
		s.eval(strings.TrimSpace(strings.TrimPrefix(input, "=")))
		return true
	}

	res := (&runbatch.Command{Label: input, Line: input, Options: s.opts}).Run(ctx)
	if !res.Success {
		s.failures++
	}

	if err := res.WriteText(s.out, s.outputOpts); err != nil {
		fmt.Fprintf(s.out, "error writing result: %s\n", err) //nolint:errcheck
	}

	return true
}

func (s *session) eval(src string) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "shell.hcl", hcl.InitialPos)
	if diags.HasErrors() {
		fmt.Fprintln(s.out, diags.Error()) //nolint:errcheck
		return
	}

	value, diags := expr.Value(config.EvalContext())
	if diags.HasErrors() {
		fmt.Fprintln(s.out, diags.Error()) //nolint:errcheck
		return
	}

	b, err := ctyjson.Marshal(value, value.Type())
	if err != nil {
		fmt.Fprintln(s.out, err.Error()) //nolint:errcheck
		return
	}

	fmt.Fprintln(s.out, string(b)) //nolint:errcheck
}
