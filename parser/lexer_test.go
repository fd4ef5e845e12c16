package parser

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

// tok is a compact expectation: type, value and column.
type tok struct {
	typ   TokenType
	value string
	col   int
}

func scan(t *testing.T, input string) []Token {
	t.Helper()
	tokens, err := NewLexer([]byte(input), "test").ScanAll()
	assert.NoError(t, err)
	return tokens
}

func assertTokens(t *testing.T, want []tok, got []Token) {
	t.Helper()
	// Drop EOF
	got = got[:len(got)-1]
	assert.Equal(t, len(want), len(got), "token count mismatch: %v", got)
	for i := range want {
		assert.Equal(t, want[i].typ, got[i].Type, "token %d type", i)
		assert.Equal(t, want[i].value, got[i].Value, "token %d value", i)
		assert.Equal(t, want[i].col, got[i].Column, "token %d column", i)
	}
}

func TestLexerTransactionHeader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "cleared with code",
			input: "2024/01/15 * (1042) Grocery store",
			want: []tok{
				{DATE_YEAR, "2024", 0},
				{DATE_MONTH, "01", 5},
				{DATE_DAY, "15", 8},
				{STATE, "*", 11},
				{CODE, "1042", 13},
				{DESCRIPTION, "Grocery store", 20},
			},
		},
		{
			name:  "uncleared short month and day",
			input: "2024-1-5 Opening balance",
			want: []tok{
				{DATE_YEAR, "2024", 0},
				{DATE_MONTH, "01", 5},
				{DATE_DAY, "05", 7},
				{STATE, "", 9},
				{DESCRIPTION, "Opening balance", 9},
			},
		},
		{
			name:  "pending with secondary date",
			input: "2024.01.15=2024.01.20 ! Rent  ",
			want: []tok{
				{DATE_YEAR, "2024", 0},
				{DATE_MONTH, "01", 5},
				{DATE_DAY, "15", 8},
				{STATE, "!", 22},
				{DESCRIPTION, "Rent", 24},
			},
		},
		{
			name:  "empty description",
			input: "2024-01-15 *",
			want: []tok{
				{DATE_YEAR, "2024", 0},
				{DATE_MONTH, "01", 5},
				{DATE_DAY, "15", 8},
				{STATE, "*", 11},
				{DESCRIPTION, "", 12},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.want, scan(t, tt.input))
		})
	}
}

func TestLexerPostings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "prefix commodity",
			input: "\tExpenses:Food  $45.60",
			want: []tok{
				{ACCOUNT, "Expenses:Food", 1},
				{COMMODITY, "$", 16},
				{AMOUNT, "45.60", 17},
			},
		},
		{
			name:  "prefix commodity with space and negative amount",
			input: "  Assets:Bank  EUR -5",
			want: []tok{
				{ACCOUNT, "Assets:Bank", 2},
				{COMMODITY, "EUR", 15},
				{AMOUNT, "-5", 19},
			},
		},
		{
			name:  "suffix commodity",
			input: "\tExpenses:Food\t45.60 USD",
			want: []tok{
				{ACCOUNT, "Expenses:Food", 1},
				{COMMODITY, "USD", 21},
				{AMOUNT, "45.60", 15},
			},
		},
		{
			name:  "no commodity",
			input: "\tExpenses:Food  12.345",
			want: []tok{
				{ACCOUNT, "Expenses:Food", 1},
				{COMMODITY, "", 22},
				{AMOUNT, "12.345", 16},
			},
		},
		{
			name:  "account with spaces",
			input: "\tExpenses:Eating Out  10 USD",
			want: []tok{
				{ACCOUNT, "Expenses:Eating Out", 1},
				{COMMODITY, "USD", 25},
				{AMOUNT, "10", 22},
			},
		},
		{
			name:  "elided amount",
			input: "\tAssets:Cash",
			want: []tok{
				{ACCOUNT, "Assets:Cash", 1},
			},
		},
		{
			name:  "elided amount with trailing whitespace",
			input: "\tAssets:Cash   ",
			want: []tok{
				{ACCOUNT, "Assets:Cash", 1},
			},
		},
		{
			name:  "virtual posting",
			input: "\t(Budget:Food)  -45.60 USD",
			want: []tok{
				{VIRTUAL_ACCOUNT, "Budget:Food", 1},
				{COMMODITY, "USD", 23},
				{AMOUNT, "-45.60", 16},
			},
		},
		{
			name:  "balance assertion",
			input: "\tAssets:Checking  100 USD = 1000 USD",
			want: []tok{
				{ACCOUNT, "Assets:Checking", 1},
				{COMMODITY, "USD", 22},
				{AMOUNT, "100", 18},
				{ASSERTION, "", 26},
				{COMMODITY, "USD", 33},
				{AMOUNT, "1000", 28},
			},
		},
		{
			name:  "assertion without amount",
			input: "\tAssets:Checking  = $1000",
			want: []tok{
				{ACCOUNT, "Assets:Checking", 1},
				{ASSERTION, "", 18},
				{COMMODITY, "$", 20},
				{AMOUNT, "1000", 21},
			},
		},
		{
			name:  "per-unit cost",
			input: "\tAssets:Broker  10 AAPL @ 150.00 USD",
			want: []tok{
				{ACCOUNT, "Assets:Broker", 1},
				{COMMODITY, "AAPL", 19},
				{AMOUNT, "10", 16},
				{COST_PER_UNIT, "", 24},
				{COMMODITY, "USD", 33},
				{AMOUNT, "150.00", 26},
			},
		},
		{
			name:  "total cost",
			input: "\tAssets:Broker  10 AAPL @@ $1500",
			want: []tok{
				{ACCOUNT, "Assets:Broker", 1},
				{COMMODITY, "AAPL", 19},
				{AMOUNT, "10", 16},
				{COST_TOTAL, "", 24},
				{COMMODITY, "$", 27},
				{AMOUNT, "1500", 28},
			},
		},
		{
			name:  "trailing comment",
			input: "\tAssets:Cash  5 USD ; change",
			want: []tok{
				{ACCOUNT, "Assets:Cash", 1},
				{COMMODITY, "USD", 16},
				{AMOUNT, "5", 14},
				{COMMENT, "change", 20},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.want, scan(t, tt.input))
		})
	}
}

func TestLexerCommentsAndDirectives(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{"journal comment", "; top level", []tok{{JOURNAL_COMMENT, "top level", 0}}},
		{"journal comment without space", ";tight", []tok{{JOURNAL_COMMENT, "tight", 0}}},
		{"indented comment", "\t; indented", []tok{{COMMENT, "indented", 1}}},
		{"indented comment after spaces", "    ;  two", []tok{{COMMENT, " two", 4}}},
		{"include", "include sub/*.journal", []tok{{INCLUDE, "sub/*.journal", 8}}},
		{"alias", "alias food=Expenses:Food", []tok{{ALIAS, "food=Expenses:Food", 6}}},
		{"blank line", "", []tok{}},
		{"whitespace line", " ", []tok{}},
		{"indented blank line", "\t  ", []tok{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.want, scan(t, tt.input))
		})
	}
}

func TestLexerLineNumbers(t *testing.T) {
	input := "; header\r\n" +
		"2024-01-15 * Groceries\r\n" +
		"\tExpenses:Food  $45.60\r\n" +
		"\tAssets:Checking\r\n" +
		"\n" +
		"include other.journal\n"

	tokens := scan(t, input)

	lines := map[TokenType]int{}
	for _, tok := range tokens {
		if _, ok := lines[tok.Type]; !ok {
			lines[tok.Type] = tok.Line
		}
	}

	assert.Equal(t, 1, lines[JOURNAL_COMMENT])
	assert.Equal(t, 2, lines[DATE_YEAR])
	assert.Equal(t, 2, lines[DESCRIPTION])
	assert.Equal(t, 3, lines[COMMODITY])
	assert.Equal(t, 3, lines[ACCOUNT])
	assert.Equal(t, 6, lines[INCLUDE])
	assert.Equal(t, EOF, tokens[len(tokens)-1].Type)
	assert.Equal(t, "Groceries", tokens[5].Value)
	assert.Equal(t, "Assets:Checking", tokens[9].Value)
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		column  int
		message string
	}{
		{
			name:    "commodity without number",
			input:   "\tExpenses:Food  abc",
			line:    1,
			column:  16,
			message: `received "a", but expected number`,
		},
		{
			name:    "sign without number",
			input:   "\tExpenses:Food  -abc",
			line:    1,
			column:  17,
			message: `received "a", but expected number`,
		},
		{
			name:    "garbage after prefixed number",
			input:   "\tExpenses:Food  $12x",
			line:    1,
			column:  19,
			message: `received "x", but expected number`,
		},
		{
			name:    "fraction without digits",
			input:   "\tExpenses:Food  12. USD",
			line:    1,
			column:  19,
			message: `received " ", but expected number`,
		},
		{
			name:    "garbage after suffix commodity",
			input:   "\tA  10 USD EUR",
			line:    1,
			column:  11,
			message: `unexpected character "E"`,
		},
		{
			name:    "virtual posting not closed",
			input:   "\t(Budget:Food  10 USD",
			line:    1,
			column:  13,
			message: "virtual posting not closed",
		},
		{
			name:    "garbage after virtual account",
			input:   "\t(Budget)Food  10 USD",
			line:    1,
			column:  9,
			message: `unexpected character "F"`,
		},
		{
			name:    "missing balance assertion amount",
			input:   "\tAssets:Cash  10 USD =",
			line:    1,
			column:  22,
			message: "invalid balance assertion",
		},
		{
			name:    "date at end of line",
			input:   "2024-01-15",
			line:    1,
			column:  10,
			message: "unexpected end of line",
		},
		{
			name:    "date without whitespace",
			input:   "2024-01-15x Foo",
			line:    1,
			column:  10,
			message: `received "x", but expected whitespace`,
		},
		{
			name:    "mixed date separators",
			input:   "2024-01/15 Foo",
			line:    1,
			column:  7,
			message: `received "/", but expected "-"`,
		},
		{
			name:    "short year",
			input:   "202-01-15 Foo",
			line:    1,
			column:  3,
			message: `received "-", but expected digit`,
		},
		{
			name:    "code not closed",
			input:   "2024-01-15 * (12 Foo",
			line:    1,
			column:  20,
			message: "transaction code not closed",
		},
		{
			name:    "unknown top-level line",
			input:   "2024-01-15 Foo\nfoo bar",
			line:    2,
			column:  0,
			message: `unexpected character "f"`,
		},
		{
			name:    "single space indentation",
			input:   " Assets:Cash",
			line:    1,
			column:  0,
			message: `unexpected character " "`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLexer([]byte(tt.input), "main.journal").ScanAll()
			assert.Error(t, err)

			var lexErr *LexerError
			assert.True(t, errors.As(err, &lexErr), "expected *LexerError, got %T", err)
			assert.Equal(t, tt.message, lexErr.Message)
			assert.Equal(t, tt.line, lexErr.Pos.Line)
			assert.Equal(t, tt.column, lexErr.Pos.Column)
			assert.Equal(t, "main.journal", lexErr.Pos.Filename)
		})
	}
}

func TestLexerErrorKeepsLineText(t *testing.T) {
	input := "2024-01-15 * Coffee\n\tExpenses:Coffee  abc\n"
	_, err := NewLexer([]byte(input), "").ScanAll()

	var lexErr *LexerError
	assert.True(t, errors.As(err, &lexErr))
	assert.Equal(t, "\tExpenses:Coffee  abc", lexErr.Line)
	assert.Equal(t, "line 2: received \"a\", but expected number", lexErr.Error())
}

func TestLexerInternsNames(t *testing.T) {
	interner := NewInterner(8)
	input := "2024-01-15 X\n\tA:B  1 USD\n\tA:B  -1 USD\n"
	tokens, err := NewLexer([]byte(input), "").WithInterner(interner).ScanAll()
	assert.NoError(t, err)
	assert.Equal(t, 12, len(tokens))
	assert.Equal(t, 2, interner.Size())
}
