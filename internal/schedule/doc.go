// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package schedule re-invokes an Action on a fixed interval.
//
// A Handle owns one loop. The first tick fires immediately and the next one
// is scheduled Interval after the previous action returned, so drift from
// slow actions is not corrected. Action failures and panics are recorded as
// faults and never end the loop; only MaxRuns, Cancel or the end of the
// context do.
package schedule
