package ledger

import (
	"fmt"
	"strings"

	"github.com/robinvdvleuten/journal/ast"
)

// Balancer error messages
const (
	msgMultipleElided   = "Only one posting with null amount allowed per transaction"
	msgMixedCommodities = "Multiple commodities in transaction with a null amount posting not allowed."
	msgElidedVirtual    = "null amount virtual postings not allowed"
	msgNotBalanced      = "Transaction does not balance"
)

// BalanceError is returned when a transaction cannot be balanced. The line
// range spans the transaction header through its last posting so the whole
// transaction can be shown as context.
type BalanceError struct {
	Pos       ast.Position // Transaction header, includes filename
	StartLine int
	EndLine   int
	Message   string
	Residuals *Balance // Non-zero commodity sums, set for unbalanced transactions
}

func newBalanceError(txn *ast.Transaction, message string) *BalanceError {
	return &BalanceError{
		Pos:       txn.Pos,
		StartLine: txn.Pos.Line,
		EndLine:   txn.EndLine(),
		Message:   message,
	}
}

func newNotBalancedError(txn *ast.Transaction, residuals *Balance) *BalanceError {
	err := newBalanceError(txn, msgNotBalanced+" "+formatResiduals(residuals))
	err.Residuals = residuals
	return err
}

// Error returns the message prefixed with filename:line.
func (e *BalanceError) Error() string {
	location := fmt.Sprintf("%s:%d", e.Pos.Filename, e.Pos.Line)
	if e.Pos.Filename == "" {
		location = fmt.Sprintf("line %d", e.Pos.Line)
	}
	return fmt.Sprintf("%s: %s", location, e.Message)
}

func (e *BalanceError) GetPosition() ast.Position {
	return e.Pos
}

// formatResiduals formats residual amounts as "(amount1 CUR1, amount2 CUR2)"
// in commodity order.
func formatResiduals(residuals *Balance) string {
	var buf strings.Builder
	buf.WriteByte('(')
	for i, e := range residuals.Entries() {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(e.Amount.String())
		buf.WriteByte(' ')
		buf.WriteString(e.Commodity)
	}
	buf.WriteByte(')')
	return buf.String()
}
