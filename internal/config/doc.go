// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads chore job files.
//
// A job file declares batches, schedules and watches. It can be written in
// YAML (.yaml, .yml), HCL (.hcl) or TOML (.toml) and fetched from any source
// supported by go-getter. Build turns a validated file into runnable
// components from the runbatch, schedule and watch packages.
package config
