// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

var (
	// ErrUnsupportedFormat is returned when the file extension is not a known job file format.
	ErrUnsupportedFormat = errors.New("unsupported job file format")
	// ErrParseConfig is returned when the job file cannot be decoded.
	ErrParseConfig = errors.New("failed to parse job file")
)

// Format is a job file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
	FormatTOML Format = "toml"
)

// FormatFromFileName returns the format implied by the extension of name.
func FormatFromFileName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q (expected .yaml, .yml, .hcl or .toml)", ErrUnsupportedFormat, name)
	}
}

// Parse decodes data according to the extension of filename.
// The result is not validated.
func Parse(filename string, data []byte) (*File, error) {
	format, err := FormatFromFileName(filename)
	if err != nil {
		return nil, err
	}

	f := new(File)

	switch format {
	case FormatYAML:
		err = parseYAML(data, f)
	case FormatHCL:
		err = parseHCL(filename, data, f)
	case FormatTOML:
		err = parseTOML(data, f)
	}

	if err != nil {
		return nil, errors.Join(ErrParseConfig, err)
	}

	return f, nil
}

func parseYAML(data []byte, f *File) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	return yaml.UnmarshalWithOptions(data, f, yaml.DisallowUnknownField()) //nolint:wrapcheck
}

func parseTOML(data []byte, f *File) error {
	md, err := toml.Decode(string(data), f)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}

		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	return nil
}

func parseHCL(filename string, data []byte, f *File) error {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return diags
	}

	if diags := gohcl.DecodeBody(file.Body, EvalContext(), f); diags.HasErrors() {
		return diags
	}

	return nil
}

// EvalContext returns the context HCL job files are evaluated in.
// The process environment is exposed as the object `env`; variables whose
// names are not valid identifiers are reachable with lookup(env, "NAME", default).
func EvalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}

		env[k] = cty.StringVal(v)
	}

	envVal := cty.EmptyObjectVal
	if len(env) > 0 {
		envVal = cty.ObjectVal(env)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envVal,
		},
		Functions: map[string]function.Function{
			"coalesce":  stdlib.CoalesceFunc,
			"format":    stdlib.FormatFunc,
			"join":      stdlib.JoinFunc,
			"lookup":    stdlib.LookupFunc,
			"lower":     stdlib.LowerFunc,
			"trimspace": stdlib.TrimSpaceFunc,
			"upper":     stdlib.UpperFunc,
		},
	}
}
