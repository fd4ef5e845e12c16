package parser

import (
	"fmt"
	"strings"

	"github.com/robinvdvleuten/journal/ast"
	"github.com/shopspring/decimal"
)

// Builder assembles a token sequence into transactions. It is a single
// forward cursor and performs no arithmetic: postings keep the amounts as
// written and elided amounts stay nil.
type Builder struct {
	tokens   []Token
	pos      int
	filename string
	aliases  []*ast.Alias // Applied before the file's own aliases
	interner *Interner
	journal  *ast.Journal
	current  *ast.Transaction
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithAliases applies account aliases to every posting, before any alias
// directive found in the file.
func WithAliases(aliases ...*ast.Alias) BuilderOption {
	return func(b *Builder) {
		b.aliases = append(b.aliases, aliases...)
	}
}

// WithInterner shares interner with the lexer and the builder, so journals
// parsed with the same interner hold one copy of every account and
// commodity name, aliased names included.
func WithInterner(interner *Interner) BuilderOption {
	return func(b *Builder) {
		b.interner = interner
	}
}

// NewBuilder creates a builder over tokens produced by a Lexer.
func NewBuilder(tokens []Token, filename string, opts ...BuilderOption) *Builder {
	b := &Builder{
		tokens:   tokens,
		filename: filename,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build consumes all tokens and returns the journal of the file.
func (b *Builder) Build() (*ast.Journal, error) {
	b.journal = &ast.Journal{Filename: b.filename}

	for !b.isAtEnd() {
		tok := b.peek()

		switch tok.Type {
		case DATE_YEAR:
			txn, err := b.parseTransaction()
			if err != nil {
				return nil, err
			}
			b.journal.Transactions = append(b.journal.Transactions, txn)
			b.current = txn

		case COMMENT:
			if b.current == nil {
				return nil, b.errorf("comment needs to come after a transaction or posting")
			}
			b.advance()
			comment := &ast.Comment{Pos: b.position(tok), Content: tok.Value}
			if n := len(b.current.Postings); n > 0 {
				b.current.Postings[n-1].Comments = append(b.current.Postings[n-1].Comments, comment)
			} else {
				b.current.Comments = append(b.current.Comments, comment)
			}

		case JOURNAL_COMMENT:
			b.advance()
			b.journal.Comments = append(b.journal.Comments, &ast.Comment{
				Pos:     b.position(tok),
				Content: tok.Value,
			})

		case ACCOUNT, VIRTUAL_ACCOUNT:
			if b.current == nil {
				return nil, b.errorf("posting needs to come after a transaction")
			}
			posting, err := b.parsePosting()
			if err != nil {
				return nil, err
			}
			b.current.Postings = append(b.current.Postings, posting)

		case INCLUDE:
			b.advance()
			b.current = nil
			b.journal.Includes = append(b.journal.Includes, &ast.Include{
				Pos:     b.position(tok),
				Pattern: tok.Value,
				Index:   len(b.journal.Transactions),
			})

		case ALIAS:
			b.advance()
			b.current = nil
			b.journal.Aliases = append(b.journal.Aliases, parseAlias(tok.Value, b.position(tok)))

		default:
			return nil, b.errorf("unexpected %s", tok.Type)
		}
	}

	return b.journal, nil
}

// parseTransaction parses a transaction header:
// DATE_YEAR DATE_MONTH DATE_DAY STATE [CODE] DESCRIPTION
func (b *Builder) parseTransaction() (*ast.Transaction, error) {
	year := b.advance()

	month, err := b.expect(DATE_MONTH, "month")
	if err != nil {
		return nil, err
	}
	day, err := b.expect(DATE_DAY, "day")
	if err != nil {
		return nil, err
	}
	state, err := b.expect(STATE, "state")
	if err != nil {
		return nil, err
	}

	txn := &ast.Transaction{
		Pos:  b.position(year),
		Date: year.Value + "-" + month.Value + "-" + day.Value,
	}

	switch state.Value {
	case StateCleared:
		txn.State = ast.Cleared
	case StatePending:
		txn.State = ast.Pending
	default:
		txn.State = ast.Uncleared
	}

	if b.check(CODE) {
		txn.Code = b.advance().Value
	}

	description, err := b.expect(DESCRIPTION, "description")
	if err != nil {
		return nil, err
	}
	txn.Description = description.Value

	return txn, nil
}

// parsePosting parses:
// ACCOUNT [COMMODITY AMOUNT] [ASSERTION COMMODITY AMOUNT] [COST COMMODITY AMOUNT] [COMMENT]
func (b *Builder) parsePosting() (*ast.Posting, error) {
	tok := b.advance()
	posting := &ast.Posting{
		Pos:     b.position(tok),
		Account: b.resolveAccount(tok.Value),
		Virtual: tok.Type == VIRTUAL_ACCOUNT,
	}

	if b.check(COMMODITY) {
		amount, err := b.parseAmount()
		if err != nil {
			return nil, err
		}
		posting.Amount = amount
	}

	if b.match(ASSERTION) {
		amount, err := b.parseAmount()
		if err != nil {
			return nil, err
		}
		posting.Assertion = amount
	}

	if b.check(COST_PER_UNIT) || b.check(COST_TOTAL) {
		kind := ast.PerUnitCost
		if b.advance().Type == COST_TOTAL {
			kind = ast.TotalCost
		}
		amount, err := b.parseAmount()
		if err != nil {
			return nil, err
		}
		posting.Costs = &ast.Costs{Kind: kind, Amount: *amount}
	}

	return posting, nil
}

// parseAmount parses a COMMODITY AMOUNT pair. The decimal is built from the
// literal text, so no precision is lost.
func (b *Builder) parseAmount() (*ast.Amount, error) {
	commodity, err := b.expect(COMMODITY, "commodity")
	if err != nil {
		return nil, err
	}
	amount, err := b.expect(AMOUNT, "amount")
	if err != nil {
		return nil, err
	}

	value, err := decimal.NewFromString(amount.Value)
	if err != nil {
		return nil, &ParseError{
			Pos:     b.position(amount),
			Message: fmt.Sprintf("invalid amount %q", amount.Value),
		}
	}

	return &ast.Amount{Commodity: commodity.Value, Value: value}, nil
}

// resolveAccount applies configured aliases first, then the aliases of the
// file that were declared so far.
func (b *Builder) resolveAccount(account string) string {
	for _, alias := range b.aliases {
		account, _ = alias.Apply(account)
	}
	for _, alias := range b.journal.Aliases {
		account, _ = alias.Apply(account)
	}
	if b.interner != nil {
		account = b.interner.Intern(account)
	}
	return account
}

// parseAlias splits "NAME=TARGET". Without an equal sign the alias is kept but
// never applied.
func parseAlias(value string, pos ast.Position) *ast.Alias {
	name, target, _ := strings.Cut(value, "=")
	return &ast.Alias{
		Pos:    pos,
		Name:   strings.TrimSpace(name),
		Target: strings.TrimSpace(target),
	}
}

// Helper methods for token navigation

func (b *Builder) peek() Token {
	if b.pos >= len(b.tokens) {
		return Token{Type: EOF}
	}
	return b.tokens[b.pos]
}

func (b *Builder) isAtEnd() bool {
	return b.peek().Type == EOF
}

func (b *Builder) check(typ TokenType) bool {
	return b.peek().Type == typ
}

func (b *Builder) match(typ TokenType) bool {
	if b.check(typ) {
		b.advance()
		return true
	}
	return false
}

func (b *Builder) advance() Token {
	tok := b.peek()
	if !b.isAtEnd() {
		b.pos++
	}
	return tok
}

func (b *Builder) expect(typ TokenType, what string) (Token, error) {
	if b.check(typ) {
		return b.advance(), nil
	}
	return Token{}, b.errorf("expected %s, got %s", what, b.peek().Type)
}

// errorf creates a ParseError pinned to the line of the current token.
func (b *Builder) errorf(format string, args ...any) *ParseError {
	tok := b.peek()
	if tok.Type == EOF && tok.Line == 0 && b.pos > 0 {
		tok = b.tokens[b.pos-1]
	}
	return &ParseError{
		Pos:     b.position(tok),
		Message: fmt.Sprintf(format, args...),
	}
}

func (b *Builder) position(tok Token) ast.Position {
	return ast.Position{
		Filename: b.filename,
		Line:     tok.Line,
		Column:   tok.Column,
	}
}
