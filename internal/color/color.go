// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"os"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	// NoColor is the environment variable that disables color output.
	NoColor = "NO_COLOR"
	// ForceColor is the environment variable that forces color output.
	ForceColor = "FORCE_COLOR"
)

// Code names an entry in the palette.
type Code int

// Palette entries.
const (
	Bold Code = iota
	Faint
	FgRed
	FgGreen
	FgYellow
	FgBlue
	FgMagenta
	FgCyan
	FgWhite
	FgHiRed
	FgHiWhite
	FgGrey
)

var palette = map[Code]lipgloss.Color{
	FgRed:     lipgloss.Color("1"),
	FgGreen:   lipgloss.Color("2"),
	FgYellow:  lipgloss.Color("3"),
	FgBlue:    lipgloss.Color("4"),
	FgMagenta: lipgloss.Color("5"),
	FgCyan:    lipgloss.Color("6"),
	FgWhite:   lipgloss.Color("7"),
	FgGrey:    lipgloss.Color("8"),
	FgHiRed:   lipgloss.Color("9"),
	FgHiWhite: lipgloss.Color("15"),
}

var (
	renderer = lipgloss.NewRenderer(os.Stdout)
	enabled  atomic.Bool
)

func init() {
	SetEnabled(isColorCapable())
}

// Enabled reports whether color output is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled switches color output on or off for the whole process.
func SetEnabled(on bool) {
	enabled.Store(on)

	if on {
		renderer.SetColorProfile(termenv.ANSI256)
		return
	}

	renderer.SetColorProfile(termenv.Ascii)
}

// Style returns a lipgloss style combining the given codes.
func Style(codes ...Code) lipgloss.Style {
	s := renderer.NewStyle()

	for _, c := range codes {
		switch c {
		case Bold:
			s = s.Bold(true)
		case Faint:
			s = s.Faint(true)
		default:
			if fg, ok := palette[c]; ok {
				s = s.Foreground(fg)
			}
		}
	}

	return s
}

// Colorize renders a single-line string with the given codes.
// The string is returned unchanged when color output is disabled.
func Colorize(str string, codes ...Code) string {
	if !Enabled() || str == "" {
		return str
	}

	return Style(codes...).Render(str)
}

func isColorCapable() bool {
	if os.Getenv(NoColor) != "" {
		return false
	}

	if os.Getenv(ForceColor) != "" {
		return true
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}
