package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/robinvdvleuten/journal/ast"
)

// PrintMode selects which amounts the print report shows.
type PrintMode int

const (
	// PrintRaw shows postings as written: elided amounts stay elided and
	// assertions and cost annotations are kept.
	PrintRaw PrintMode = iota

	// PrintExplicit shows the balanced amount of every posting, including
	// the equity postings added for conversions.
	PrintExplicit
)

// Print renders transactions back in journal syntax, separated by blank
// lines. Amounts are aligned in a single column across all transactions.
func (r *Renderer) Print(w io.Writer, txns []*ast.Transaction, mode PrintMode) error {
	accountWidth := 0
	for _, txn := range txns {
		for _, p := range printedPostings(txn, mode) {
			accountWidth = max(accountWidth, width(postingAccount(p)))
		}
	}

	var buf strings.Builder
	for i, txn := range txns {
		if i > 0 {
			buf.WriteByte('\n')
		}
		if err := r.writeTransaction(&buf, txn, mode, accountWidth); err != nil {
			return err
		}
	}

	return flush(w, &buf)
}

func (r *Renderer) writeTransaction(buf *strings.Builder, txn *ast.Transaction, mode PrintMode, accountWidth int) error {
	buf.WriteString(txn.Date)
	buf.WriteString(stateSeparator(txn.State))
	if txn.Code != "" {
		buf.WriteByte('(')
		buf.WriteString(txn.Code)
		buf.WriteString(") ")
	}
	buf.WriteString(txn.Description)
	buf.WriteByte('\n')

	writeComments(buf, txn.Comments)

	for _, p := range printedPostings(txn, mode) {
		account := postingAccount(p)
		buf.WriteString(PostingIndent)

		amount := p.Amount
		if mode == PrintExplicit {
			amount = p.Balanced
			if amount == nil {
				return fmt.Errorf("%s: posting to %s has no balanced amount", p.Pos, p.Account)
			}
		}

		if amount == nil {
			buf.WriteString(account)
		} else {
			padRight(buf, account, account, accountWidth+WidthOffset)
			buf.WriteString(printedAmount(*amount))
		}

		if mode == PrintRaw {
			if p.Assertion != nil {
				buf.WriteString(" = ")
				buf.WriteString(printedAmount(*p.Assertion))
			}
			if p.Costs != nil {
				buf.WriteByte(' ')
				buf.WriteString(p.Costs.Kind.String())
				buf.WriteByte(' ')
				buf.WriteString(printedAmount(p.Costs.Amount))
			}
		}
		buf.WriteByte('\n')

		writeComments(buf, p.Comments)
	}

	return nil
}

// printedPostings drops the equity postings from raw output.
func printedPostings(txn *ast.Transaction, mode PrintMode) []*ast.Posting {
	if mode == PrintExplicit {
		return txn.Postings
	}
	postings := make([]*ast.Posting, 0, len(txn.Postings))
	for _, p := range txn.Postings {
		if !p.Synthetic {
			postings = append(postings, p)
		}
	}
	return postings
}

func postingAccount(p *ast.Posting) string {
	if p.Virtual {
		return "(" + p.Account + ")"
	}
	return p.Account
}

// printedAmount separates a positive value from its commodity by a space
// so the minus sign of negative values lines up with it.
func printedAmount(amount ast.Amount) string {
	value := FormatValue(amount.Value)
	if strings.HasPrefix(value, "-") {
		return amount.Commodity + value
	}
	return amount.Commodity + " " + value
}

func writeComments(buf *strings.Builder, comments []*ast.Comment) {
	for _, c := range comments {
		buf.WriteString(PostingIndent)
		buf.WriteString("; ")
		buf.WriteString(c.Content)
		buf.WriteByte('\n')
	}
}
