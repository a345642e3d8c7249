// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"runtime"
	"testing"

	"github.com/matt-FFFFFF/chore/internal/color"
	"github.com/matt-FFFFFF/chore/internal/ctxlog"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	color.SetEnabled(false)
	goleak.VerifyTestMain(m)
}

func testContext(t *testing.T) context.Context {
	t.Helper()

	return ctxlog.New(t.Context(), ctxlog.DefaultLogger)
}

// unixOnly skips tests that rely on /bin/sh semantics.
func unixOnly(t *testing.T) {
	t.Helper()

	if runtime.GOOS == goosWindows {
		t.Skip("skipping on windows")
	}

	t.Setenv("SHELL", binSh)
}
