package ast

// Transaction records a dated movement between accounts. The header holds
// the date, clearing state, an optional code and a free-text description;
// the indented lines that follow are its postings and comments.
//
// Example:
//
//	2024/01/15 * (1042) Grocery store
//	    Expenses:Food          $45.60
//	    Assets:Checking
type Transaction struct {
	Pos         Position
	Date        string
	State       State
	Code        string
	Description string
	Comments    []*Comment
	Postings    []*Posting
}

func (t *Transaction) Position() Position { return t.Pos }

// EndLine returns the last source line occupied by the transaction: the
// line of its last posting or comment, or the header line.
func (t *Transaction) EndLine() int {
	end := t.Pos.Line
	for _, c := range t.Comments {
		if c.Pos.Line > end {
			end = c.Pos.Line
		}
	}
	for _, p := range t.Postings {
		if p.Pos.Line > end {
			end = p.Pos.Line
		}
		for _, c := range p.Comments {
			if c.Pos.Line > end {
				end = c.Pos.Line
			}
		}
	}
	return end
}

// Posting is a single leg of a transaction. Amount is the amount as written
// and is nil when elided; Balanced is filled by the ledger. Virtual postings
// are written with a parenthesized account and do not take part in the
// zero-sum check. Synthetic postings are conversion legs added by the ledger
// and never appear in the source.
//
// Example postings:
//
//	Expenses:Food        45.60 USD
//	Assets:Checking      = 1000.00 USD
//	Assets:Broker        10 AAPL @ 150.00 USD
//	(Budget:Food)        -45.60 USD
//	Assets:Cash
type Posting struct {
	Pos       Position
	Account   string
	Comments  []*Comment
	Amount    *Amount
	Balanced  *Amount
	Assertion *Amount
	Costs     *Costs
	Virtual   bool
	Synthetic bool
}

func (p *Posting) Position() Position { return p.Pos }

// IsElided reports whether the posting was written without an amount.
func (p *Posting) IsElided() bool {
	return p.Amount == nil
}
