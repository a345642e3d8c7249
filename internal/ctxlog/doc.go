// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a slog logger in a context.Context.
//
// The default logger writes human-readable lines to stderr through PrettyHandler.
// The level is shared by all loggers in the package through LevelVar and is
// initialised from the CHORE_LOG_LEVEL environment variable
// ("DEBUG", "INFO", "WARN" or "ERROR"; anything else means "WARN").
package ctxlog
