package ledger

import (
	"github.com/robinvdvleuten/journal/ast"
	"github.com/shopspring/decimal"
)

// weight is the contribution of a posting to the transaction balance.
// A posting with a cost annotation is weighed in the cost commodity.
type weight struct {
	Amount    decimal.Decimal
	Commodity string
}

// postingWeight calculates the weight of a posting with a written amount.
//
//	10 AAPL @ 150 USD   weighs 1500 USD
//	-10 AAPL @@ 1500 USD weighs -1500 USD
//	45.60 USD           weighs 45.60 USD
func postingWeight(posting *ast.Posting) weight {
	amount := posting.Amount

	if posting.Costs == nil {
		return weight{Amount: amount.Value, Commodity: amount.Commodity}
	}

	cost := posting.Costs.Amount
	if posting.Costs.Kind == ast.TotalCost {
		// @@ total with the sign of the quantity
		total := cost.Value.Abs()
		if amount.Value.IsNegative() {
			total = total.Neg()
		}
		return weight{Amount: total, Commodity: cost.Commodity}
	}

	// @ per-unit price
	return weight{Amount: amount.Value.Mul(cost.Value), Commodity: cost.Commodity}
}

// balanceWeights accumulates weights by commodity.
// NOTE: Caller must call putBalanceMap() when done with the returned map
func balanceWeights(weights []weight) map[string]decimal.Decimal {
	balance := getBalanceMap()

	for _, w := range weights {
		balance[w.Commodity] = balance[w.Commodity].Add(w.Amount)
	}

	return balance
}
