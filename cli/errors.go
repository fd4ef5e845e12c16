package cli

import (
	stdErrors "errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robinvdvleuten/journal/errors"
	"github.com/robinvdvleuten/journal/ledger"
	"github.com/robinvdvleuten/journal/loader"
	"github.com/robinvdvleuten/journal/parser"
)

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	formatter errors.Formatter
	json      bool

	caretStyle   lipgloss.Style
	contextStyle lipgloss.Style
}

// NewErrorRenderer creates a renderer for the given format ("text" or
// "json") with the sources of the loaded files for context.
func NewErrorRenderer(format string, sources map[string]string, renderer *lipgloss.Renderer) *ErrorRenderer {
	r := &ErrorRenderer{
		caretStyle: renderer.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"}).
			TabWidth(lipgloss.NoTabConversion),
		contextStyle: renderer.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"}).
			TabWidth(lipgloss.NoTabConversion),
	}
	if format == "json" {
		r.formatter = errors.NewJSONFormatter()
		r.json = true
	} else {
		r.formatter = errors.NewTextFormatter(errors.WithSources(sources))
	}
	return r
}

// Render formats a single error. In text mode the source lines are dimmed
// and the caret line is highlighted.
func (r *ErrorRenderer) Render(err error) string {
	formatted := r.formatter.Format(err)
	if r.json {
		return formatted
	}

	lines := strings.Split(formatted, "\n")
	for i, line := range lines {
		switch {
		case isCaretLine(line):
			lines[i] = r.caretStyle.Render(line)
		case isContextLine(line):
			lines[i] = r.contextStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if r.json {
		return r.formatter.FormatAll(errs)
	}

	rendered := make([]string, len(errs))
	for i, err := range errs {
		rendered[i] = r.Render(err)
	}
	return strings.Join(rendered, "\n\n")
}

// isCaretLine matches "-----^".
func isCaretLine(line string) bool {
	return strings.HasSuffix(line, "^") && strings.Trim(line, "-^") == ""
}

// isContextLine matches "12 : text" and "> 12 : text".
func isContextLine(line string) bool {
	line = strings.TrimPrefix(line, "> ")
	digits := 0
	for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
		digits++
	}
	return digits > 0 && strings.HasPrefix(line[digits:], " : ")
}

// errorSummary names the kind of error for the final status line.
func errorSummary(err error) string {
	var (
		lexErr   *parser.LexerError
		parseErr *parser.ParseError
		balErr   *ledger.BalanceError
		cycleErr *loader.IncludeCycleError
	)
	switch {
	case stdErrors.As(err, &lexErr), stdErrors.As(err, &parseErr):
		return "parse error"
	case stdErrors.As(err, &balErr):
		return "transaction does not balance"
	case stdErrors.As(err, &cycleErr):
		return "include cycle"
	default:
		return "failed to load journal"
	}
}

// renderError writes a load error to stderr.
func (app *App) renderError(err error, sources map[string]string) {
	renderer := NewErrorRenderer(app.errorFormat, sources, app.renderer)
	_, _ = app.Stderr.Write([]byte(renderer.Render(err) + "\n"))
	if app.errorFormat != "json" {
		app.printError(errorSummary(err))
	}
}
