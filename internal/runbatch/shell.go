// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/shlex"
	"github.com/matt-FFFFFF/chore/internal/ctxlog"
)

const (
	goosWindows          = "windows"    // GOOS value for Windows.
	commandSwitchWindows = "/C"         // Command switch for Windows cmd.exe
	commandSwitchUnix    = "-c"         // Command switch for Unix-like shells
	winSystem32          = "System32"   // System32 is the directory where cmd.exe is located on Windows.
	cmdExe               = "cmd.exe"    // cmdExe is the name of the command interpreter executable on Windows.
	binSh                = "/bin/sh"    // Default shell for Unix-like systems.
	winSystemRootEnv     = "SystemRoot" // Environment variable for Windows system root directory.
)

// resolve turns a command line into the executable path and argv for os.StartProcess.
func resolve(ctx context.Context, line string, useShell bool) (string, []string, error) {
	if strings.TrimSpace(line) == "" {
		return "", nil, ErrEmptyCommand
	}

	if useShell {
		shell := defaultShell(ctx)

		switch runtime.GOOS {
		case goosWindows:
			return shell, []string{filepath.Base(shell), commandSwitchWindows, line}, nil
		default:
			return shell, []string{filepath.Base(shell), commandSwitchUnix, line}, nil
		}
	}

	argv, err := shlex.Split(line)
	if err != nil {
		return "", nil, errors.Join(ErrInvalidCommandLine, err)
	}

	if len(argv) == 0 {
		return "", nil, ErrEmptyCommand
	}

	path, err := lookPath(argv[0])
	if err != nil {
		return "", nil, err
	}

	return path, argv, nil
}

func defaultShell(ctx context.Context) string {
	if runtime.GOOS == goosWindows {
		systemRoot := os.Getenv(winSystemRootEnv)
		if systemRoot == "" {
			systemRoot = `C:\Windows`
		}

		return fmt.Sprintf(`%s\%s\%s`, systemRoot, winSystem32, cmdExe)
	}

	if shell := os.Getenv("SHELL"); shell != "" {
		ctxlog.Debug(ctx, "Using SHELL environment variable", "shell", shell)
		return shell
	}

	return binSh
}

// lookPath searches PATH for an executable named command.
// Names containing a path separator are returned unchanged.
// On Windows there is no need to add .exe to the command name.
func lookPath(command string) (string, error) {
	if strings.ContainsRune(command, '/') || strings.ContainsRune(command, filepath.Separator) {
		return command, nil
	}

	candidates := []string{command}
	if runtime.GOOS == goosWindows && filepath.Ext(command) == "" {
		candidates = append(candidates, command+".exe")
	}

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			dir = "."
		}

		for _, name := range candidates {
			full := filepath.Join(dir, name)

			info, err := os.Stat(full)
			if err != nil || info.IsDir() {
				continue
			}
			// check if the command is executable if not Windows
			if runtime.GOOS != goosWindows && info.Mode()&0o111 == 0 {
				continue
			}

			return full, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrCommandNotFound, command)
}
