package report

import (
	"io"
	"strings"

	"github.com/robinvdvleuten/journal/ledger"
)

// AccountsFlat writes one account name per line.
func (r *Renderer) AccountsFlat(w io.Writer, accounts []string) error {
	return writeLines(w, accounts)
}

// AccountsTree writes the account hierarchy with every level indented two
// spaces deeper than its parent.
func (r *Renderer) AccountsTree(w io.Writer, tree *ledger.BalanceTree) error {
	var buf strings.Builder
	tree.Walk(func(node *ledger.BalanceNode) bool {
		buf.WriteString(strings.Repeat(TreeIndent, node.Depth))
		buf.WriteString(node.Name)
		buf.WriteByte('\n')
		return true
	})
	return flush(w, &buf)
}

// Codes writes one transaction code per line.
func (r *Renderer) Codes(w io.Writer, codes []string) error {
	return writeLines(w, codes)
}

func writeLines(w io.Writer, lines []string) error {
	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return flush(w, &buf)
}
