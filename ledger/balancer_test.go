package ledger

import (
	"errors"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/journal/ast"
)

// summarize renders every posting as "account balanced-amount".
func summarize(txn *ast.Transaction) []string {
	lines := make([]string, len(txn.Postings))
	for i, p := range txn.Postings {
		lines[i] = fmt.Sprintf("%s %s", p.Account, p.Balanced)
	}
	return lines
}

func TestBalanceTransaction(t *testing.T) {
	tests := []struct {
		name     string
		txn      *ast.Transaction
		expected []string
	}{
		{
			name: "auto fill",
			txn: ast.NewTransaction("2024-01-15", "Groceries", ast.AtLine(1),
				ast.WithPosting(ast.NewPosting("Expenses:Food", ast.WithAmount("45.60", "USD"))),
				ast.WithPosting(ast.NewPosting("Assets:Checking")),
			),
			expected: []string{
				"Expenses:Food USD45.6",
				"Assets:Checking USD-45.6",
			},
		},
		{
			name: "auto fill sums other postings",
			txn: ast.NewTransaction("2024-01-15", "Split", ast.AtLine(1),
				ast.WithPosting(ast.NewPosting("Expenses:Food", ast.WithAmount("30", "$"))),
				ast.WithPosting(ast.NewPosting("Assets:Checking")),
				ast.WithPosting(ast.NewPosting("Expenses:Drinks", ast.WithAmount("12.50", "$"))),
			),
			expected: []string{
				"Expenses:Food $30",
				"Assets:Checking $-42.5",
				"Expenses:Drinks $12.5",
			},
		},
		{
			name: "explicit amounts in one commodity",
			txn: ast.NewTransaction("2024-01-15", "Transfer", ast.AtLine(1),
				ast.WithPosting(ast.NewPosting("Assets:Savings", ast.WithAmount("100", "EUR"))),
				ast.WithPosting(ast.NewPosting("Assets:Checking", ast.WithAmount("-100", "EUR"))),
			),
			expected: []string{
				"Assets:Savings EUR100",
				"Assets:Checking EUR-100",
			},
		},
		{
			name: "multiple commodities convert through equity",
			txn: ast.NewTransaction("2024-01-15", "Exchange", ast.AtLine(1),
				ast.WithPosting(ast.NewPosting("Assets:USD", ast.WithAmount("100", "USD"))),
				ast.WithPosting(ast.NewPosting("Assets:EUR", ast.WithAmount("-90", "EUR"))),
			),
			expected: []string{
				"Assets:USD USD100",
				"equity USD-100",
				"Assets:EUR EUR-90",
				"equity EUR90",
			},
		},
		{
			name: "per unit cost with elided posting",
			txn: ast.NewTransaction("2024-02-01", "Buy shares", ast.AtLine(1),
				ast.WithPosting(ast.NewPosting("Assets:Broker", ast.WithAmount("10", "AAPL"), ast.WithUnitCost("150.00", "USD"))),
				ast.WithPosting(ast.NewPosting("Assets:Checking")),
			),
			expected: []string{
				"Assets:Broker AAPL10",
				"equity AAPL-10",
				"equity USD1500",
				"Assets:Checking USD-1500",
			},
		},
		{
			name: "total cost takes the sign of the quantity",
			txn: ast.NewTransaction("2024-02-01", "Sell shares", ast.AtLine(1),
				ast.WithPosting(ast.NewPosting("Assets:Broker", ast.WithAmount("-10", "AAPL"), ast.WithTotalCost("1600", "USD"))),
				ast.WithPosting(ast.NewPosting("Assets:Checking")),
			),
			expected: []string{
				"Assets:Broker AAPL-10",
				"equity AAPL10",
				"equity USD-1600",
				"Assets:Checking USD1600",
			},
		},
		{
			name: "cost without elided posting",
			txn: ast.NewTransaction("2024-02-01", "Buy shares", ast.AtLine(1),
				ast.WithPosting(ast.NewPosting("Assets:Broker", ast.WithAmount("5", "MSFT"), ast.WithTotalCost("2000", "USD"))),
				ast.WithPosting(ast.NewPosting("Assets:Checking", ast.WithAmount("-2000", "USD"))),
			),
			expected: []string{
				"Assets:Broker MSFT5",
				"equity MSFT-5",
				"equity USD2000",
				"Assets:Checking USD-2000",
			},
		},
		{
			name: "virtual postings are excluded",
			txn: ast.NewTransaction("2024-01-15", "Groceries", ast.AtLine(1),
				ast.WithPosting(ast.NewPosting("Expenses:Food", ast.WithAmount("45.60", "USD"))),
				ast.WithPosting(ast.NewPosting("Assets:Checking", ast.WithAmount("-45.60", "USD"))),
				ast.WithPosting(ast.NewPosting("Budget:Food", ast.WithAmount("-50", "USD"), ast.Virtual())),
			),
			expected: []string{
				"Expenses:Food USD45.6",
				"Assets:Checking USD-45.6",
				"Budget:Food USD-50",
			},
		},
		{
			name: "virtual postings do not take part in the fill",
			txn: ast.NewTransaction("2024-01-15", "Groceries", ast.AtLine(1),
				ast.WithPosting(ast.NewPosting("Expenses:Food", ast.WithAmount("20", "USD"))),
				ast.WithPosting(ast.NewPosting("Budget:Food", ast.WithAmount("7", "EUR"), ast.Virtual())),
				ast.WithPosting(ast.NewPosting("Assets:Checking")),
			),
			expected: []string{
				"Expenses:Food USD20",
				"Budget:Food EUR7",
				"Assets:Checking USD-20",
			},
		},
		{
			name: "single elided posting",
			txn: ast.NewTransaction("2024-01-15", "Empty", ast.AtLine(1),
				ast.WithPosting(ast.NewPosting("Assets:Checking")),
			),
			expected: []string{
				"Assets:Checking 0",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := BalanceTransaction(tt.txn)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, summarize(tt.txn))
		})
	}
}

func TestBalanceTransactionErrors(t *testing.T) {
	tests := []struct {
		name    string
		txn     *ast.Transaction
		message string
	}{
		{
			name: "two elided postings",
			txn: ast.NewTransaction("2024-01-15", "Groceries", ast.AtLine(3),
				ast.WithPosting(ast.NewPosting("Expenses:Food", ast.WithAmount("10", "USD"))),
				ast.WithPosting(ast.NewPosting("Assets:Checking")),
				ast.WithPosting(ast.NewPosting("Assets:Cash")),
			),
			message: "Only one posting with null amount allowed per transaction",
		},
		{
			name: "elided posting with multiple commodities",
			txn: ast.NewTransaction("2024-01-15", "Groceries", ast.AtLine(3),
				ast.WithPosting(ast.NewPosting("Expenses:Food", ast.WithAmount("10", "USD"))),
				ast.WithPosting(ast.NewPosting("Expenses:Travel", ast.WithAmount("5", "EUR"))),
				ast.WithPosting(ast.NewPosting("Assets:Checking")),
			),
			message: "Multiple commodities in transaction with a null amount posting not allowed. Found commodities: EUR, USD",
		},
		{
			name: "elided posting with cost in another commodity",
			txn: ast.NewTransaction("2024-01-15", "Buy", ast.AtLine(3),
				ast.WithPosting(ast.NewPosting("Assets:Broker", ast.WithAmount("10", "AAPL"), ast.WithUnitCost("150", "USD"))),
				ast.WithPosting(ast.NewPosting("Expenses:Fees", ast.WithAmount("2", "EUR"))),
				ast.WithPosting(ast.NewPosting("Assets:Checking")),
			),
			message: "Multiple commodities in transaction with a null amount posting not allowed. Found commodities: EUR, USD",
		},
		{
			name: "elided virtual posting",
			txn: ast.NewTransaction("2024-01-15", "Groceries", ast.AtLine(3),
				ast.WithPosting(ast.NewPosting("Expenses:Food", ast.WithAmount("10", "USD"))),
				ast.WithPosting(ast.NewPosting("Assets:Checking", ast.WithAmount("-10", "USD"))),
				ast.WithPosting(ast.NewPosting("Budget:Food", ast.Virtual())),
			),
			message: "null amount virtual postings not allowed",
		},
		{
			name: "only an elided virtual posting",
			txn: ast.NewTransaction("2024-01-15", "Budget", ast.AtLine(3),
				ast.WithPosting(ast.NewPosting("Budget:Food", ast.Virtual())),
				ast.WithPosting(ast.NewPosting("Budget:Rent", ast.WithAmount("1", "USD"), ast.Virtual())),
				ast.WithPosting(ast.NewPosting("Budget:Fun", ast.WithAmount("1", "USD"), ast.Virtual())),
			),
			message: "null amount virtual postings not allowed",
		},
		{
			name: "does not balance",
			txn: ast.NewTransaction("2024-01-15", "Groceries", ast.AtLine(3),
				ast.WithPosting(ast.NewPosting("Expenses:Food", ast.WithAmount("10", "USD"))),
				ast.WithPosting(ast.NewPosting("Expenses:Drinks", ast.WithAmount("5", "USD"))),
				ast.WithPosting(ast.NewPosting("Assets:Checking", ast.WithAmount("-5", "USD"))),
			),
			message: "Transaction does not balance (10 USD)",
		},
		{
			name: "cost does not balance",
			txn: ast.NewTransaction("2024-01-15", "Buy", ast.AtLine(3),
				ast.WithPosting(ast.NewPosting("Assets:Broker", ast.WithAmount("10", "AAPL"), ast.WithUnitCost("150", "USD"))),
				ast.WithPosting(ast.NewPosting("Assets:Checking", ast.WithAmount("-1400", "USD"))),
				ast.WithPosting(ast.NewPosting("Expenses:Fees", ast.WithAmount("-0.50", "EUR"))),
			),
			message: "Transaction does not balance (-0.5 EUR, 100 USD)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := summarize(tt.txn)

			err := BalanceTransaction(tt.txn)
			assert.Error(t, err)

			var balErr *BalanceError
			assert.True(t, errors.As(err, &balErr), "expected *BalanceError, got %T", err)
			assert.Equal(t, tt.message, balErr.Message)
			assert.Equal(t, 3, balErr.StartLine)
			assert.Equal(t, 6, balErr.EndLine)
			assert.Equal(t, before, summarize(tt.txn), "transaction must be left untouched")
		})
	}
}

func TestBalanceTransactionResiduals(t *testing.T) {
	txn := ast.NewTransaction("2024-01-15", "Groceries", ast.AtLine(1),
		ast.WithPosting(ast.NewPosting("Expenses:Food", ast.WithAmount("10", "USD"))),
		ast.WithPosting(ast.NewPosting("Assets:Checking", ast.WithAmount("-4", "USD"))),
	)
	txn.Pos.Filename = "main.journal"

	err := BalanceTransaction(txn)

	var balErr *BalanceError
	assert.True(t, errors.As(err, &balErr))
	assert.Equal(t, "6", balErr.Residuals.Get("USD").String())
	assert.Equal(t, "main.journal:1: Transaction does not balance (6 USD)", balErr.Error())
	assert.Equal(t, txn.Pos, balErr.GetPosition())
}

func TestBalanceTransactionIsExact(t *testing.T) {
	txn := ast.NewTransaction("2024-01-15", "Exact", ast.AtLine(1),
		ast.WithPosting(ast.NewPosting("A", ast.WithAmount("12.345", "USD"))),
		ast.WithPosting(ast.NewPosting("B", ast.WithAmount("0.005", "USD"))),
		ast.WithPosting(ast.NewPosting("C")),
	)

	err := BalanceTransaction(txn)
	assert.NoError(t, err)

	filled := txn.Postings[2].Balanced
	assert.Equal(t, "-12.35", filled.Value.String())
	assert.Equal(t, "-247/20", filled.Rat().String())
	assert.Equal(t, "2469/200", txn.Postings[0].Balanced.Rat().String())

	thirds := ast.NewTransaction("2024-01-15", "Thirds", ast.AtLine(1),
		ast.WithPosting(ast.NewPosting("A", ast.WithAmount("0.1", "USD"))),
		ast.WithPosting(ast.NewPosting("B", ast.WithAmount("0.2", "USD"))),
		ast.WithPosting(ast.NewPosting("C", ast.WithAmount("-0.3", "USD"))),
	)
	assert.NoError(t, BalanceTransaction(thirds))
}

func TestBalanceTransactionEquityPostings(t *testing.T) {
	txn := ast.NewTransaction("2024-01-15", "Exchange", ast.AtLine(10),
		ast.WithPosting(ast.NewPosting("Assets:USD", ast.WithAmount("100", "USD"))),
		ast.WithPosting(ast.NewPosting("Assets:EUR", ast.WithAmount("-90", "EUR"))),
	)

	assert.NoError(t, BalanceTransaction(txn))
	assert.Equal(t, 4, len(txn.Postings))

	for i, p := range txn.Postings {
		synthetic := i%2 == 1
		assert.Equal(t, synthetic, p.Synthetic)
		if synthetic {
			assert.Equal(t, EquityAccount, p.Account)
			assert.Equal(t, txn.Postings[i-1].Pos.Line, p.Pos.Line)
		}
	}

	// Balancing again keeps a single set of conversion postings
	assert.NoError(t, BalanceTransaction(txn))
	assert.Equal(t, 4, len(txn.Postings))
}

func TestPostingWeight(t *testing.T) {
	tests := []struct {
		name      string
		posting   *ast.Posting
		amount    string
		commodity string
	}{
		{"native", ast.NewPosting("A", ast.WithAmount("45.60", "USD")), "45.6", "USD"},
		{"per unit", ast.NewPosting("A", ast.WithAmount("10", "AAPL"), ast.WithUnitCost("150.25", "USD")), "1502.5", "USD"},
		{"per unit negative", ast.NewPosting("A", ast.WithAmount("-2", "AAPL"), ast.WithUnitCost("150", "USD")), "-300", "USD"},
		{"total", ast.NewPosting("A", ast.WithAmount("10", "AAPL"), ast.WithTotalCost("1500", "USD")), "1500", "USD"},
		{"total negative", ast.NewPosting("A", ast.WithAmount("-10", "AAPL"), ast.WithTotalCost("1500", "USD")), "-1500", "USD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postingWeight(tt.posting)
			assert.Equal(t, tt.amount, w.Amount.String())
			assert.Equal(t, tt.commodity, w.Commodity)
		})
	}
}

func TestBalanceWeights(t *testing.T) {
	balance := balanceWeights([]weight{
		{Amount: mustDecimal("-500"), Commodity: "USD"},
		{Amount: mustDecimal("500"), Commodity: "USD"},
		{Amount: mustDecimal("3"), Commodity: "EUR"},
	})
	defer putBalanceMap(balance)

	assert.Equal(t, 2, len(balance))
	assert.True(t, balance["USD"].IsZero())
	assert.Equal(t, "3", balance["EUR"].String())
}
