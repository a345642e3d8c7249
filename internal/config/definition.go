// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

// File is the root of a job file.
type File struct {
	Name      string        `yaml:"name"      toml:"name"      hcl:"name,optional"`
	Batches   []BatchDef    `yaml:"batches"   toml:"batches"   hcl:"batch,block"    validate:"dive"`
	Schedules []ScheduleDef `yaml:"schedules" toml:"schedules" hcl:"schedule,block" validate:"dive"`
	Watches   []WatchDef    `yaml:"watches"   toml:"watches"   hcl:"watch,block"    validate:"dive"`
}

// BatchDef declares an ordered list of commands.
type BatchDef struct {
	Name            string   `yaml:"name"              toml:"name"              hcl:"name,label"                 validate:"required"`
	Commands        []string `yaml:"commands"          toml:"commands"          hcl:"commands"                   validate:"required,min=1,dive,required"`
	ContinueOnError *bool    `yaml:"continue_on_error" toml:"continue_on_error" hcl:"continue_on_error,optional"`
	CommandOptions  `yaml:",inline" hcl:",remain"`
}

// ScheduleDef declares a command run on a fixed interval.
type ScheduleDef struct {
	Name           string `yaml:"name"     toml:"name"     hcl:"name,label"        validate:"required"`
	Interval       string `yaml:"interval" toml:"interval" hcl:"interval"          validate:"required,positive_duration"`
	MaxRuns        int    `yaml:"max_runs" toml:"max_runs" hcl:"max_runs,optional" validate:"gte=0"`
	Command        string `yaml:"command"  toml:"command"  hcl:"command"           validate:"required"`
	CommandOptions `yaml:",inline" hcl:",remain"`
}

// WatchDef declares a directory watch. Command runs whenever a change is detected.
type WatchDef struct {
	Name           string `yaml:"name"           toml:"name"           hcl:"name,label"              validate:"required"`
	Path           string `yaml:"path"           toml:"path"           hcl:"path"                    validate:"required"`
	Interval       string `yaml:"interval"       toml:"interval"       hcl:"interval"                validate:"required,positive_duration"`
	Command        string `yaml:"command"        toml:"command"        hcl:"command,optional"`
	IncludeHidden  bool   `yaml:"include_hidden" toml:"include_hidden" hcl:"include_hidden,optional"`
	CommandOptions `yaml:",inline" hcl:",remain"`
}

// CommandOptions are the per-command execution settings shared by every definition.
type CommandOptions struct {
	Timeout        string `yaml:"timeout"          toml:"timeout"          hcl:"timeout,optional"          validate:"omitempty,duration"`
	NoShell        bool   `yaml:"no_shell"         toml:"no_shell"         hcl:"no_shell,optional"`
	NoCapture      bool   `yaml:"no_capture"       toml:"no_capture"       hcl:"no_capture,optional"`
	MaxOutputBytes int64  `yaml:"max_output_bytes" toml:"max_output_bytes" hcl:"max_output_bytes,optional" validate:"gte=0"`
}
