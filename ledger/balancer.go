package ledger

import (
	"strings"

	"github.com/robinvdvleuten/journal/ast"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// EquityAccount receives the conversion postings that the balancer
// synthesizes for multi-commodity and costed transactions.
const EquityAccount = "equity"

// BalanceTransaction fills the balanced amount of every posting of txn and
// appends conversion postings to EquityAccount where commodities change
// hands. It fails with a *BalanceError when the transaction cannot be
// balanced, in which case txn is left as it was.
//
// Only non-virtual postings take part in balancing. At most one of them may
// omit its amount; it then receives the negated sum of the other postings'
// weights, which must all share one commodity.
func BalanceTransaction(txn *ast.Transaction) error {
	// Balancing twice must not stack conversion postings
	postings := slices.DeleteFunc(slices.Clone(txn.Postings), func(p *ast.Posting) bool {
		return p.Synthetic
	})

	var (
		elided   []*ast.Posting
		weighed  []weight
		natives  = map[string]struct{}{}
		hasCosts bool
	)
	for _, p := range postings {
		switch {
		case p.Virtual:
			continue
		case p.IsElided():
			elided = append(elided, p)
		default:
			weighed = append(weighed, postingWeight(p))
			natives[p.Amount.Commodity] = struct{}{}
			hasCosts = hasCosts || p.Costs != nil
		}
	}

	if len(elided) > 1 {
		return newBalanceError(txn, msgMultipleElided)
	}

	var fill *ast.Amount
	if len(elided) == 1 {
		commodities := map[string]struct{}{}
		for _, w := range weighed {
			commodities[w.Commodity] = struct{}{}
		}
		if len(commodities) > 1 {
			found := maps.Keys(commodities)
			slices.Sort(found)
			return newBalanceError(txn, msgMixedCommodities+" Found commodities: "+strings.Join(found, ", "))
		}

		totals := balanceWeights(weighed)
		fill = &ast.Amount{}
		for commodity, total := range totals {
			fill.Commodity = commodity
			fill.Value = total.Neg()
		}
		putBalanceMap(totals)
	}

	for _, p := range postings {
		if p.Virtual && p.IsElided() {
			return newBalanceError(txn, msgElidedVirtual)
		}
	}

	// Without an elided posting, differing commodities convert through equity
	decompose := len(elided) == 0 && !hasCosts && len(natives) > 1

	balanced := make([]*ast.Posting, 0, len(postings))
	for _, p := range postings {
		balanced = append(balanced, p)

		switch {
		case p.IsElided():
			continue
		case p.Virtual:
			continue
		case p.Costs != nil:
			w := postingWeight(p)
			balanced = append(balanced,
				equityPosting(p, p.Amount.Neg()),
				equityPosting(p, ast.Amount{Commodity: w.Commodity, Value: w.Amount}),
			)
		case decompose:
			balanced = append(balanced, equityPosting(p, p.Amount.Neg()))
		}
	}

	if residuals := sumBalanced(balanced, fill, elided); !residuals.IsZero() {
		return newNotBalancedError(txn, residuals)
	}

	for _, p := range postings {
		switch {
		case p.IsElided() && !p.Virtual:
			amount := *fill
			p.Balanced = &amount
		case !p.IsElided():
			amount := *p.Amount
			p.Balanced = &amount
		}
	}
	txn.Postings = balanced

	return nil
}

// equityPosting creates a conversion leg for source. It keeps the source
// line so that reports and errors can point back at it.
func equityPosting(source *ast.Posting, amount ast.Amount) *ast.Posting {
	return &ast.Posting{
		Pos:       source.Pos,
		Account:   EquityAccount,
		Amount:    &amount,
		Balanced:  &amount,
		Synthetic: true,
	}
}

// sumBalanced adds up the non-virtual postings by commodity and returns the
// non-zero sums. The elided posting counts with its fill amount.
func sumBalanced(postings []*ast.Posting, fill *ast.Amount, elided []*ast.Posting) *Balance {
	weights := make([]weight, 0, len(postings))
	for _, p := range postings {
		switch {
		case p.Virtual:
			continue
		case p.IsElided():
			if len(elided) == 1 && p == elided[0] {
				weights = append(weights, weight{Amount: fill.Value, Commodity: fill.Commodity})
			}
		default:
			weights = append(weights, weight{Amount: p.Amount.Value, Commodity: p.Amount.Commodity})
		}
	}

	totals := balanceWeights(weights)
	defer putBalanceMap(totals)

	residuals := NewBalance()
	for commodity, total := range totals {
		if !total.IsZero() {
			residuals.Set(commodity, total)
		}
	}
	return residuals
}
