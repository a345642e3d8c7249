// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color renders terminal colours for log lines and result output.
// Styling is delegated to lipgloss. Colour is disabled when NO_COLOR is set,
// forced when FORCE_COLOR is set, and otherwise follows whether stdout is a terminal.
package color
