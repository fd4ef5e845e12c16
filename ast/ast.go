// Package ast declares the types used to represent journal files.
//
// A journal is a plain-text, double-entry accounting file made of dated
// transactions, each owning a list of indented postings. The parser package
// produces these types in their unbalanced form (postings may omit their
// amount); the ledger package fills in the balanced amounts.
package ast

// Journal is the result of building a single journal file. It does not
// follow include directives: those are recorded in Includes and resolved by
// the loader package.
type Journal struct {
	Filename     string
	Transactions []*Transaction
	Comments     []*Comment
	Includes     []*Include
	Aliases      []*Alias
}

// Include records an include directive. Index is the number of transactions
// of the including file that precede the directive, which lets the loader
// splice included transactions in file-appearance order.
type Include struct {
	Pos     Position
	Pattern string
	Index   int
}

func (i *Include) Position() Position { return i.Pos }

// Alias records an account alias directive of the form "alias NAME=TARGET".
// Postings written against Name, or an account below it, are rewritten to
// Target. Aliases without an equal sign keep an empty Target and are not
// applied.
type Alias struct {
	Pos    Position
	Name   string
	Target string
}

func (a *Alias) Position() Position { return a.Pos }

// Apply rewrites account when it equals the alias name or lies below it.
func (a *Alias) Apply(account string) (string, bool) {
	if a.Name == "" || a.Target == "" {
		return account, false
	}
	if account == a.Name {
		return a.Target, true
	}
	if len(account) > len(a.Name) && account[:len(a.Name)] == a.Name && account[len(a.Name)] == ':' {
		return a.Target + account[len(a.Name):], true
	}
	return account, false
}
