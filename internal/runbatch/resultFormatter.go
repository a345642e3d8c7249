// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matt-FFFFFF/chore/internal/color"
)

// OutputOptions controls what is included in the output.
type OutputOptions struct {
	IncludeStdOut      bool // Whether to include stdout in the output
	IncludeStdErr      bool // Whether to include stderr in the output
	ShowSuccessDetails bool // Whether to show details for successful commands
}

// DefaultOutputOptions returns a default set of output options.
func DefaultOutputOptions() *OutputOptions {
	return &OutputOptions{
		IncludeStdOut:      false,
		IncludeStdErr:      true,
		ShowSuccessDetails: false,
	}
}

// Print writes the outcome to stdout with default options.
func (o *Outcome) Print() error {
	return o.WriteText(os.Stdout, nil)
}

// WriteText writes a tree of the attempted commands followed by a summary line.
func (o *Outcome) WriteText(w io.Writer, options *OutputOptions) error {
	if options == nil {
		options = DefaultOutputOptions()
	}

	label := o.Label
	if label == "" {
		label = "batch"
	}

	status := color.Colorize("✓", color.FgGreen)
	if o.HasError() || o.Truncated() {
		status = color.Colorize("✗", color.FgRed)
	}

	if _, err := fmt.Fprintf(w, "%s %s\n", status, color.Colorize(label, color.Bold)); err != nil {
		return err //nolint:wrapcheck
	}

	for _, r := range o.Results {
		if err := writeResultWithIndent(w, r, "  ", options); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, o.summary())

	return err //nolint:wrapcheck
}

func (o *Outcome) summary() string {
	parts := []string{
		fmt.Sprintf("%d total", o.Total),
		color.Colorize(fmt.Sprintf("%d succeeded", o.Succeeded), color.FgGreen),
	}

	failed := fmt.Sprintf("%d failed", o.Failed)
	if o.Failed > 0 {
		failed = color.Colorize(failed, color.FgRed)
	}

	parts = append(parts, failed)

	if o.Truncated() {
		parts = append(parts, color.Colorize(fmt.Sprintf("%d not run", o.Total-len(o.Results)), color.FgYellow))
	}

	return color.Colorize("Summary:", color.Faint) + " " + strings.Join(parts, ", ")
}

// WriteText writes a single result with its details.
func (r *Result) WriteText(w io.Writer, options *OutputOptions) error {
	if options == nil {
		options = DefaultOutputOptions()
	}

	return writeResultWithIndent(w, r, "", options)
}

func writeResultWithIndent(w io.Writer, r *Result, indent string, options *OutputOptions) error {
	// Format the status indicator
	var statusStr string

	labelCodes := []color.Code{color.Bold}

	switch {
	case r.Success:
		statusStr = color.Colorize("✓", color.FgGreen) // Green checkmark
		labelCodes = append(labelCodes, color.FgGreen)
	case r.Failure == FailureCancelled:
		statusStr = color.Colorize("~", color.FgYellow) // Yellow tilde
		labelCodes = append(labelCodes, color.FgYellow)
	default:
		statusStr = color.Colorize("✗", color.FgRed) // Red X
		labelCodes = append(labelCodes, color.FgRed)
	}

	label := r.Label
	if label == "" {
		label = "[unnamed]"
	}

	sb := strings.Builder{}
	sb.WriteString(indent + statusStr + " " + color.Colorize(label, labelCodes...))

	if r.ExitCode != 0 {
		fmt.Fprintf(&sb, " (exit code: %d)", r.ExitCode)
	}

	if r.Truncated {
		sb.WriteString(color.Colorize(" [output truncated]", color.FgYellow))
	}

	sb.WriteString("\n")

	if r.Error != nil {
		errColor := color.FgRed
		if r.Failure == FailureCancelled {
			errColor = color.FgYellow
		}

		sb.WriteString(indent + "  " + color.Colorize("➜ Error:", errColor) + " " + r.Error.Error() + "\n")
	}

	// Show details only for failed commands or if explicitly asked to show success details
	shouldShowDetails := !r.Success || options.ShowSuccessDetails

	if shouldShowDetails && options.IncludeStdOut && len(r.StdOut) > 0 {
		sb.WriteString(indent + "  ➜ Output:\n")
		sb.WriteString(formatOutput(r.StdOut, indent+"     "))
	}

	if shouldShowDetails && options.IncludeStdErr && len(r.StdErr) > 0 {
		sb.WriteString(indent + "  " + color.Colorize("➜ Error Output:", color.FgHiRed) + "\n")
		sb.WriteString(formatOutput(r.StdErr, indent+"     "))
	}

	_, err := io.WriteString(w, sb.String())

	return err //nolint:wrapcheck
}

// formatOutput formats multi-line output with proper indentation.
func formatOutput(output []byte, indent string) string {
	sb := strings.Builder{}
	lines := strings.Split(strings.TrimRight(string(output), "\n"), "\n")
	sb.Grow(len(output) + len(lines)*len(indent)) // Preallocate enough space

	for _, line := range lines {
		if line == "" {
			sb.WriteString("\n") // Preserve empty lines
			continue
		}

		sb.WriteString(indent)
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}
