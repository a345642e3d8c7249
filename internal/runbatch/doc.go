// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatch runs external commands and sequences of commands.
//
// A Command spawns exactly one OS process and always returns a Result; failures
// (launch errors, timeouts, cancellation, non-zero exits) are reported in the
// Result rather than returned as errors. A Batch runs its commands strictly in
// order and either stops at the first failure or attempts every command.
package runbatch
