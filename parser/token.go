package parser

import "fmt"

// TokenType represents the type of token scanned from a journal line.
type TokenType uint8

const (
	// Special tokens
	EOF TokenType = iota

	// Transaction header
	DATE_YEAR   // 2024
	DATE_MONTH  // 01
	DATE_DAY    // 15
	STATE       // *, ! or absent
	CODE        // (1042)
	DESCRIPTION // rest of the header line

	// Comments
	COMMENT         // indented ; comment
	JOURNAL_COMMENT // top-level ; comment

	// Postings
	ACCOUNT         // Assets:Bank:Checking
	VIRTUAL_ACCOUNT // (Budget:Food)
	COMMODITY       // USD, $, or empty
	AMOUNT          // -45.60
	ASSERTION       // =
	COST_PER_UNIT   // @
	COST_TOTAL      // @@

	// Directives
	ALIAS   // alias NAME=TARGET
	INCLUDE // include pattern
)

var tokenNames = map[TokenType]string{
	EOF: "EOF",

	DATE_YEAR:   "DATE_YEAR",
	DATE_MONTH:  "DATE_MONTH",
	DATE_DAY:    "DATE_DAY",
	STATE:       "STATE",
	CODE:        "CODE",
	DESCRIPTION: "DESCRIPTION",

	COMMENT:         "COMMENT",
	JOURNAL_COMMENT: "JOURNAL_COMMENT",

	ACCOUNT:         "ACCOUNT",
	VIRTUAL_ACCOUNT: "VIRTUAL_ACCOUNT",
	COMMODITY:       "COMMODITY",
	AMOUNT:          "AMOUNT",
	ASSERTION:       "ASSERTION",
	COST_PER_UNIT:   "@",
	COST_TOTAL:      "@@",

	ALIAS:   "alias",
	INCLUDE: "include",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token is a single lexical unit of a journal. Tokens are line-oriented:
// every token belongs to exactly one source line.
type Token struct {
	Type   TokenType
	Value  string
	Line   int // Line number (1-indexed)
	Column int // Column number (0-indexed character offset)
}

// String renders the token for debugging output.
func (t Token) String() string {
	if t.Value == "" {
		return fmt.Sprintf("%d:%d %s", t.Line, t.Column, t.Type)
	}
	return fmt.Sprintf("%d:%d %s %q", t.Line, t.Column, t.Type, t.Value)
}

// State values carried by STATE tokens.
const (
	StateCleared   = "*"
	StatePending   = "!"
	StateUncleared = ""
)
