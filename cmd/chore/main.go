// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Command chore runs shell commands once, in batches, on a schedule or on
// directory changes.
package main

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/chore/cmd"
	"github.com/matt-FFFFFF/chore/internal/ctxlog"
	"github.com/matt-FFFFFF/chore/internal/signalbroker"
)

func main() {
	ctx, stop := signalbroker.Handle(ctxlog.New(context.Background(), ctxlog.DefaultLogger))

	err := cmd.RootCmd.Run(ctx, os.Args)

	stop()

	if err != nil {
		ctxlog.Error(ctx, "chore failed", "error", err)
		os.Exit(1)
	}
}
