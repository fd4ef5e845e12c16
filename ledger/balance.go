package ledger

import (
	"sort"
	"strings"

	"github.com/robinvdvleuten/journal/ast"
	"github.com/shopspring/decimal"
)

// Balance holds amounts in one or more commodities. Entries are kept sorted
// by commodity for deterministic iteration and display.
type Balance struct {
	entries []*CommodityAmount
}

// CommodityAmount is an amount in a specific commodity.
type CommodityAmount struct {
	Commodity string
	Amount    decimal.Decimal
}

// NewBalance creates an empty balance.
func NewBalance() *Balance {
	return &Balance{entries: []*CommodityAmount{}}
}

// NewBalanceFromMap converts a map[string]decimal.Decimal to a sorted Balance.
func NewBalanceFromMap(m map[string]decimal.Decimal) *Balance {
	if len(m) == 0 {
		return NewBalance()
	}

	entries := make([]*CommodityAmount, 0, len(m))
	for commodity, amount := range m {
		entries = append(entries, &CommodityAmount{
			Commodity: commodity,
			Amount:    amount,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Commodity < entries[j].Commodity
	})

	return &Balance{entries: entries}
}

// Get returns the amount for a commodity, or zero if not present.
func (b *Balance) Get(commodity string) decimal.Decimal {
	for _, e := range b.entries {
		if e.Commodity == commodity {
			return e.Amount
		}
	}
	return decimal.Zero
}

// Set sets or updates the amount for a commodity.
func (b *Balance) Set(commodity string, amount decimal.Decimal) {
	for _, e := range b.entries {
		if e.Commodity == commodity {
			e.Amount = amount
			return
		}
	}

	b.entries = append(b.entries, &CommodityAmount{
		Commodity: commodity,
		Amount:    amount,
	})
	sort.Slice(b.entries, func(i, j int) bool {
		return b.entries[i].Commodity < b.entries[j].Commodity
	})
}

// Add adds amount to the commodity's current amount.
func (b *Balance) Add(commodity string, amount decimal.Decimal) {
	b.Set(commodity, b.Get(commodity).Add(amount))
}

// AddAmount adds a posting amount.
func (b *Balance) AddAmount(amount ast.Amount) {
	b.Add(amount.Commodity, amount.Value)
}

// IsZero returns true if all amounts are zero or the balance is empty.
func (b *Balance) IsZero() bool {
	for _, e := range b.entries {
		if !e.Amount.IsZero() {
			return false
		}
	}
	return true
}

// Commodities returns the sorted commodities of this balance.
func (b *Balance) Commodities() []string {
	commodities := make([]string, len(b.entries))
	for i, e := range b.entries {
		commodities[i] = e.Commodity
	}
	return commodities
}

// Entries returns the underlying sorted list of commodity amounts.
func (b *Balance) Entries() []*CommodityAmount {
	return b.entries
}

// NonZero returns the entries whose amount is not zero.
func (b *Balance) NonZero() []*CommodityAmount {
	var entries []*CommodityAmount
	for _, e := range b.entries {
		if !e.Amount.IsZero() {
			entries = append(entries, e)
		}
	}
	return entries
}

// ToMap converts the balance to a map keyed by commodity.
func (b *Balance) ToMap() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(b.entries))
	for _, e := range b.entries {
		m[e.Commodity] = e.Amount
	}
	return m
}

func (b *Balance) String() string {
	if len(b.entries) == 0 {
		return "(empty)"
	}

	var parts []string
	for _, e := range b.entries {
		parts = append(parts, e.Amount.String()+" "+e.Commodity)
	}
	return strings.Join(parts, ", ")
}

// Merge adds every amount of other to this balance.
func (b *Balance) Merge(other *Balance) {
	if other == nil {
		return
	}
	for _, e := range other.entries {
		b.Add(e.Commodity, e.Amount)
	}
}

// Copy creates a deep copy of this balance.
func (b *Balance) Copy() *Balance {
	if b == nil {
		return NewBalance()
	}
	entries := make([]*CommodityAmount, len(b.entries))
	for i, e := range b.entries {
		entries[i] = &CommodityAmount{
			Commodity: e.Commodity,
			Amount:    e.Amount,
		}
	}
	return &Balance{entries: entries}
}

// BalanceTree is a hierarchical view of account balances. Accounts are split
// on ":" and every parent node aggregates the balances of its descendants.
type BalanceTree struct {
	// Roots holds the top-level account segments, sorted by name.
	Roots []*BalanceNode

	// Commodities lists all commodities present in the tree, sorted.
	Commodities []string

	// Total is the sum of all account balances.
	Total *Balance
}

// BalanceNode is a single account segment in the balance tree.
type BalanceNode struct {
	// Name is the last segment of the account, e.g. "Checking".
	Name string

	// Account is the full account path, e.g. "Assets:Checking".
	Account string

	// Depth is the nesting level, 0 for roots.
	Depth int

	// Balance is the aggregated balance of this node and all descendants.
	Balance *Balance

	// Children contains direct child nodes, sorted by name.
	Children []*BalanceNode
}

// NewBalanceTree builds a tree from per-account balances.
func NewBalanceTree(balances map[string]*Balance) *BalanceTree {
	tree := &BalanceTree{Total: NewBalance()}
	index := make(map[string]*BalanceNode)

	accounts := make([]string, 0, len(balances))
	for account := range balances {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)

	for _, account := range accounts {
		balance := balances[account]
		tree.Total.Merge(balance)

		var parent *BalanceNode
		segments := ast.AccountSegments(account)
		for depth, segment := range segments {
			path := strings.Join(segments[:depth+1], ":")

			node, ok := index[path]
			if !ok {
				node = &BalanceNode{
					Name:    segment,
					Account: path,
					Depth:   depth,
					Balance: NewBalance(),
				}
				index[path] = node
				if parent == nil {
					tree.Roots = append(tree.Roots, node)
				} else {
					parent.Children = append(parent.Children, node)
				}
			}

			node.Balance.Merge(balance)
			parent = node
		}
	}

	sortNodes(tree.Roots)
	tree.Commodities = tree.Total.Commodities()

	return tree
}

func sortNodes(nodes []*BalanceNode) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Name < nodes[j].Name
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}

// Walk visits nodes depth-first in display order. Returning false from fn
// skips the node's children.
func (t *BalanceTree) Walk(fn func(node *BalanceNode) bool) {
	var walk func(nodes []*BalanceNode)
	walk = func(nodes []*BalanceNode) {
		for _, n := range nodes {
			if fn(n) {
				walk(n.Children)
			}
		}
	}
	walk(t.Roots)
}
