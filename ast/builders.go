package ast

// Constructor functions for building journal nodes programmatically, used
// by importers and heavily by tests. Complex nodes take functional options.

import "github.com/shopspring/decimal"

// NewAmount creates an Amount from a decimal literal and a commodity.
// It panics when value is not a valid decimal literal.
//
// Example:
//
//	amount := ast.NewAmount("45.60", "USD")
func NewAmount(value, commodity string) *Amount {
	return &Amount{
		Commodity: commodity,
		Value:     decimal.RequireFromString(value),
	}
}

// TransactionOption configures a Transaction built by NewTransaction.
type TransactionOption func(*Transaction)

// NewTransaction creates a transaction with the given date and description.
//
// Example:
//
//	txn := ast.NewTransaction("2024-01-15", "Groceries",
//	    ast.WithState(ast.Cleared),
//	    ast.WithPosting(ast.NewPosting("Expenses:Food", ast.WithAmount("45.60", "USD"))),
//	    ast.WithPosting(ast.NewPosting("Assets:Checking")),
//	)
func NewTransaction(date, description string, opts ...TransactionOption) *Transaction {
	txn := &Transaction{
		Date:        date,
		Description: description,
	}
	for _, opt := range opts {
		opt(txn)
	}
	return txn
}

// WithState sets the clearing state.
func WithState(state State) TransactionOption {
	return func(t *Transaction) {
		t.State = state
	}
}

// WithCode sets the transaction code.
func WithCode(code string) TransactionOption {
	return func(t *Transaction) {
		t.Code = code
	}
}

// AtLine sets the header line of the transaction.
func AtLine(line int) TransactionOption {
	return func(t *Transaction) {
		t.Pos.Line = line
	}
}

// WithPosting appends a posting. Postings without a line are placed on the
// lines following the header.
func WithPosting(p *Posting) TransactionOption {
	return func(t *Transaction) {
		if p.Pos.Line == 0 {
			p.Pos.Line = t.Pos.Line + len(t.Postings) + 1
		}
		t.Postings = append(t.Postings, p)
	}
}

// PostingOption configures a Posting built by NewPosting.
type PostingOption func(*Posting)

// NewPosting creates a posting to account. Without WithAmount the amount
// is elided.
func NewPosting(account string, opts ...PostingOption) *Posting {
	p := &Posting{Account: account}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithAmount sets the written amount.
func WithAmount(value, commodity string) PostingOption {
	return func(p *Posting) {
		p.Amount = NewAmount(value, commodity)
	}
}

// WithAssertion sets the balance assertion.
func WithAssertion(value, commodity string) PostingOption {
	return func(p *Posting) {
		p.Assertion = NewAmount(value, commodity)
	}
}

// WithUnitCost sets a per-unit (@) cost annotation.
func WithUnitCost(value, commodity string) PostingOption {
	return func(p *Posting) {
		p.Costs = &Costs{Kind: PerUnitCost, Amount: *NewAmount(value, commodity)}
	}
}

// WithTotalCost sets a total (@@) cost annotation.
func WithTotalCost(value, commodity string) PostingOption {
	return func(p *Posting) {
		p.Costs = &Costs{Kind: TotalCost, Amount: *NewAmount(value, commodity)}
	}
}

// Virtual marks the posting as virtual.
func Virtual() PostingOption {
	return func(p *Posting) {
		p.Virtual = true
	}
}
