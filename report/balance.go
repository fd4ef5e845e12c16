package report

import (
	"io"
	"strings"

	"github.com/robinvdvleuten/journal/ledger"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// BalanceTree renders account balances as a hierarchy. Each node shows the
// amounts of itself and all its descendants, one line per commodity, with
// the account segment on the line of the last amount. A rule and the grand
// total follow.
//
//	$-45.60 Assets
//	$-45.60   Checking
//	 $45.60 Expenses
//	 $45.60   Food
//	-------
//	      0
func (r *Renderer) BalanceTree(w io.Writer, tree *ledger.BalanceTree) error {
	if len(tree.Roots) == 0 {
		return nil
	}

	amountWidth := totalWidth(tree.Total)
	tree.Walk(func(node *ledger.BalanceNode) bool {
		amountWidth = max(amountWidth, totalWidth(node.Balance))
		return true
	})

	var buf strings.Builder
	tree.Walk(func(node *ledger.BalanceNode) bool {
		entries := node.Balance.Entries()
		for i, e := range entries {
			r.writeAmount(&buf, e, amountWidth)
			if i < len(entries)-1 {
				buf.WriteByte('\n')
			}
		}
		buf.WriteString(strings.Repeat(TreeIndent, node.Depth))
		buf.WriteString(r.styles.Account(node.Name))
		buf.WriteByte('\n')
		return true
	})

	r.writeTotal(&buf, tree.Total.Entries(), amountWidth)

	return flush(w, &buf)
}

// BalanceFlat renders one entry per account with its full name. Zero
// amounts and accounts whose balance is zero are left out.
func (r *Renderer) BalanceFlat(w io.Writer, balances map[string]*ledger.Balance) error {
	if len(balances) == 0 {
		return nil
	}

	accounts := maps.Keys(balances)
	slices.Sort(accounts)

	total := ledger.NewBalance()
	amountWidth := 0
	for _, account := range accounts {
		total.Merge(balances[account])
		amountWidth = max(amountWidth, totalWidth(balances[account]))
	}
	amountWidth = max(amountWidth, totalWidth(total))

	var buf strings.Builder
	for _, account := range accounts {
		entries := balances[account].NonZero()
		if len(entries) == 0 {
			continue
		}
		for i, e := range entries {
			r.writeAmount(&buf, e, amountWidth)
			if i < len(entries)-1 {
				buf.WriteByte('\n')
			}
		}
		buf.WriteString(r.styles.Account(account))
		buf.WriteByte('\n')
	}

	r.writeTotal(&buf, total.NonZero(), amountWidth)

	return flush(w, &buf)
}

// writeAmount writes a right-aligned amount followed by a space.
func (r *Renderer) writeAmount(buf *strings.Builder, e *ledger.CommodityAmount, n int) {
	text := FormatAmount(e.Commodity, e.Amount)
	padLeft(buf, text, r.styles.Amount(text, e.Amount.IsNegative()), n)
	buf.WriteByte(' ')
}

// writeTotal writes the rule and the total. A total that is zero in every
// commodity is shown as a single 0.
func (r *Renderer) writeTotal(buf *strings.Builder, entries []*ledger.CommodityAmount, n int) {
	buf.WriteString(strings.Repeat("-", n))
	buf.WriteByte('\n')

	zero := true
	for _, e := range entries {
		if !e.Amount.IsZero() {
			zero = false
			break
		}
	}
	if zero {
		padLeft(buf, "0", "0", n)
		buf.WriteString(" \n")
		return
	}

	for _, e := range entries {
		r.writeAmount(buf, e, n)
		buf.WriteByte('\n')
	}
}

// totalWidth returns the widest rendered amount of a balance.
func totalWidth(b *ledger.Balance) int {
	n := 0
	for _, e := range b.Entries() {
		n = max(n, width(FormatAmount(e.Commodity, e.Amount)))
	}
	return n
}
