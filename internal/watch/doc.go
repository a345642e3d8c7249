// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package watch polls a directory tree and reports added, removed and modified files.
//
// Only the most recent Snapshot is kept. The first poll establishes the baseline
// and never invokes the handler. A poll that cannot read the tree ends the watch
// session with a *WatchFault; it is not retried.
package watch
