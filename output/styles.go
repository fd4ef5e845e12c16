// Package output provides styling helpers for terminal output.
package output

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// ColorMode selects when styled output is produced.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color value.
func ParseColorMode(s string) (ColorMode, error) {
	switch mode := ColorMode(s); mode {
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	case "":
		return ColorAuto, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (expected auto, always or never)", s)
	}
}

// Styles provides styled output helpers for the CLI and reports.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates a new Styles instance for the given writer. In auto mode
// the color profile is detected from w, so writers that are not a terminal
// get plain text.
func NewStyles(w io.Writer, mode ColorMode) *Styles {
	var opts []termenv.OutputOption
	switch mode {
	case ColorAlways:
		opts = append(opts, termenv.WithProfile(termenv.ANSI256), termenv.WithTTY(true))
	case ColorNever:
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}

	return &Styles{
		output: termenv.NewOutput(w, opts...),
	}
}

// Plain returns styles that never emit escape sequences.
func Plain(w io.Writer) *Styles {
	return NewStyles(w, ColorNever)
}

// Success returns a styled success string (green + bold).
func (s *Styles) Success(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("2")).
		Bold().
		String()
}

// Error returns a styled error string (red + bold).
func (s *Styles) Error(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("1")).
		Bold().
		String()
}

// FilePath returns a styled file path (cyan).
func (s *Styles) FilePath(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("6")).
		String()
}

// Account returns a styled account name (blue).
func (s *Styles) Account(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("4")).
		String()
}

// Amount returns a styled amount. Negative amounts are red.
func (s *Styles) Amount(text string, negative bool) string {
	if negative {
		return s.Negative(text)
	}
	return text
}

// Negative returns text in red.
func (s *Styles) Negative(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("1")).
		String()
}

// Date returns a styled transaction date (magenta).
func (s *Styles) Date(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("5")).
		String()
}

// Keyword returns a styled keyword (bold).
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).
		Bold().
		String()
}

// Dim returns dimmed text (for secondary information).
func (s *Styles) Dim(text string) string {
	return s.output.String(text).
		Faint().
		String()
}

// Warning returns a styled warning (yellow + bold).
func (s *Styles) Warning(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("3")).
		Bold().
		String()
}

// Timing returns a timing string, red for slow operations and dimmed
// otherwise.
func (s *Styles) Timing(text string, isSlowOperation bool) string {
	if isSlowOperation {
		return s.output.String(text).
			Foreground(s.output.Color("1")).
			String()
	}
	return s.Dim(text)
}

// Output returns the underlying termenv Output for advanced usage.
func (s *Styles) Output() *termenv.Output {
	return s.output
}
