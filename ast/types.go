package ast

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a quantity of a commodity. The value is an exact decimal built
// from the literal text of the journal, so "12.345" is held as 12345e-3 and
// sums of amounts never pick up floating-point error.
type Amount struct {
	Commodity string
	Value     decimal.Decimal
}

// Neg returns the amount with its value negated.
func (a Amount) Neg() Amount {
	return Amount{Commodity: a.Commodity, Value: a.Value.Neg()}
}

// Rat returns the value as a reduced rational number.
func (a Amount) Rat() *big.Rat {
	return a.Value.Rat()
}

// IsZero reports whether the value is exactly zero. A nil amount, as held by
// an elided posting, is zero.
func (a *Amount) IsZero() bool {
	return a == nil || a.Value.IsZero()
}

// Equal reports whether both amounts hold the same commodity and value.
func (a Amount) Equal(b Amount) bool {
	return a.Commodity == b.Commodity && a.Value.Equal(b.Value)
}

// String renders the amount the way it is written in a journal with a
// prefix commodity, e.g. "$100.00" or "USD-5".
func (a Amount) String() string {
	return a.Commodity + a.Value.String()
}

// CostKind distinguishes per-unit (@) from total (@@) cost annotations.
type CostKind uint8

const (
	PerUnitCost CostKind = iota
	TotalCost
)

func (k CostKind) String() string {
	if k == TotalCost {
		return "@@"
	}
	return "@"
}

// Costs records that a posting's native amount is priced in another
// commodity, either per unit or as a lump total.
//
//	Assets:Broker    10 AAPL @ 150.00 USD
//	Assets:Broker    10 AAPL @@ 1500.00 USD
type Costs struct {
	Kind   CostKind
	Amount Amount
}

// State is the clearing state of a transaction.
type State uint8

const (
	Uncleared State = iota
	Cleared
	Pending
)

func (s State) String() string {
	switch s {
	case Cleared:
		return "cleared"
	case Pending:
		return "pending"
	default:
		return "uncleared"
	}
}

// Marker returns the header character for the state, or "" when uncleared.
func (s State) Marker() string {
	switch s {
	case Cleared:
		return "*"
	case Pending:
		return "!"
	default:
		return ""
	}
}

// AccountSegments splits a colon-delimited account name into its hierarchy.
func AccountSegments(account string) []string {
	return strings.Split(account, ":")
}
