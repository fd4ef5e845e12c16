// Package ledger balances journal transactions and keeps the result.
//
// Balancing is done per transaction and never looks at other transactions:
// an elided posting is filled with the negated sum of the other postings,
// conversions between commodities are recorded as postings to the equity
// account, and the non-virtual postings must then sum to exactly zero in
// every commodity. Amounts are shopspring decimals, so no rounding happens
// anywhere in this package.
//
// Example usage:
//
//	l := ledger.New()
//	if err := l.Process(ctx, journal.Transactions); err != nil {
//	    var balErr *ledger.BalanceError
//	    if errors.As(err, &balErr) {
//	        fmt.Println(balErr.StartLine, balErr.EndLine, balErr.Message)
//	    }
//	}
//	for account, balance := range l.BalanceByAccount() { ... }
package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/robinvdvleuten/journal/ast"
	"github.com/robinvdvleuten/journal/telemetry"
)

// Ledger is the ordered list of balanced transactions. Transactions are
// balanced as they are added and never change afterwards.
type Ledger struct {
	transactions []*ast.Transaction
	balances     map[string]*Balance // account -> sum of balanced amounts
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		balances: make(map[string]*Balance),
	}
}

// Process balances txns in order and appends them. It stops at the first
// transaction that does not balance.
func (l *Ledger) Process(ctx context.Context, txns []*ast.Transaction) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("ledger.balance (%d transactions)", len(txns)))
	defer timer.End()

	for _, txn := range txns {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := l.Add(txn); err != nil {
			return err
		}
	}

	return nil
}

// Add balances a single transaction and appends it.
func (l *Ledger) Add(txn *ast.Transaction) error {
	if err := BalanceTransaction(txn); err != nil {
		return err
	}

	l.transactions = append(l.transactions, txn)

	for _, p := range txn.Postings {
		if p.Balanced == nil {
			continue
		}
		balance, ok := l.balances[p.Account]
		if !ok {
			balance = NewBalance()
			l.balances[p.Account] = balance
		}
		balance.AddAmount(*p.Balanced)
	}

	return nil
}

// Transactions returns the balanced transactions in load order.
func (l *Ledger) Transactions() []*ast.Transaction {
	return l.transactions
}

// Accounts returns the sorted names of all accounts that were posted to,
// including the equity account when conversions happened.
func (l *Ledger) Accounts() []string {
	accounts := make([]string, 0, len(l.balances))
	for account := range l.balances {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)
	return accounts
}

// Codes returns the sorted, unique transaction codes.
func (l *Ledger) Codes() []string {
	seen := make(map[string]struct{})
	var codes []string
	for _, txn := range l.transactions {
		if txn.Code == "" {
			continue
		}
		if _, ok := seen[txn.Code]; ok {
			continue
		}
		seen[txn.Code] = struct{}{}
		codes = append(codes, txn.Code)
	}
	sort.Strings(codes)
	return codes
}

// BalanceByAccount returns the balance of every account. The map and its
// balances are copies and may be modified by the caller.
func (l *Ledger) BalanceByAccount() map[string]*Balance {
	balances := make(map[string]*Balance, len(l.balances))
	for account, balance := range l.balances {
		balances[account] = balance.Copy()
	}
	return balances
}

// BalanceTree returns the account balances as a hierarchy.
func (l *Ledger) BalanceTree() *BalanceTree {
	return NewBalanceTree(l.balances)
}
