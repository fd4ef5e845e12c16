// Package report renders balanced transactions for the terminal.
//
// Every report writes plain text aligned with go-runewidth, so accounts and
// commodities containing wide characters still line up. Colors come from an
// output.Styles; without one the output carries no escape sequences. All
// output of a report is buffered and written to the writer at once.
package report

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/robinvdvleuten/journal/ast"
	"github.com/robinvdvleuten/journal/output"
	"github.com/shopspring/decimal"
)

const (
	// WidthOffset is the gap between columns of the register and print
	// reports.
	WidthOffset = 4

	// DisplayDecimals is the fixed number of decimals every amount is shown
	// with.
	DisplayDecimals = 2

	// TreeIndent is the indentation added per level in tree reports.
	TreeIndent = "  "

	// PostingIndent prefixes posting and comment lines in the print report.
	PostingIndent = "\t"
)

// Renderer renders reports.
type Renderer struct {
	styles *output.Styles
}

// Option is a functional option for configuring a Renderer.
type Option func(*Renderer)

// WithStyles sets the styles used for account names and negative amounts.
func WithStyles(styles *output.Styles) Option {
	return func(r *Renderer) {
		r.styles = styles
	}
}

// New creates a new Renderer with the given options.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	if r.styles == nil {
		r.styles = output.Plain(io.Discard)
	}
	return r
}

// FormatValue renders a decimal with DisplayDecimals decimals, rounding
// half away from zero. Balances are kept exact; only the display rounds.
func FormatValue(value decimal.Decimal) string {
	return value.StringFixed(DisplayDecimals)
}

// FormatAmount renders commodity and value without a separator, the way
// amounts are shown in reports: "$45.60", "USD-5.00".
func FormatAmount(commodity string, value decimal.Decimal) string {
	return commodity + FormatValue(value)
}

// stateSeparator returns the text between date and description of a
// transaction header.
func stateSeparator(state ast.State) string {
	if marker := state.Marker(); marker != "" {
		return " " + marker + " "
	}
	return " "
}

// headerTitle renders "DATE [*|!] DESCRIPTION".
func headerTitle(txn *ast.Transaction) string {
	return txn.Date + stateSeparator(txn.State) + txn.Description
}

func width(s string) int {
	return runewidth.StringWidth(s)
}

// padLeft right-aligns text in a column of n cells. The styled form is
// written after the padding so escape sequences do not count as width.
func padLeft(buf *strings.Builder, text, styled string, n int) {
	if pad := n - width(text); pad > 0 {
		buf.WriteString(strings.Repeat(" ", pad))
	}
	buf.WriteString(styled)
}

// padRight left-aligns text in a column of n cells.
func padRight(buf *strings.Builder, text, styled string, n int) {
	buf.WriteString(styled)
	if pad := n - width(text); pad > 0 {
		buf.WriteString(strings.Repeat(" ", pad))
	}
}

func flush(w io.Writer, buf *strings.Builder) error {
	_, err := io.WriteString(w, buf.String())
	return err
}
