package parser

// Lexer implements a line-oriented scanner for journal files.
//
// Every line is classified on its own:
// - indented lines (a tab or two spaces) hold a comment or a posting
// - top-level lines hold a journal comment, a transaction header or a directive
// Columns are counted in characters, not bytes, so caret diagrams line up
// for non-ASCII account names and commodities.

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/robinvdvleuten/journal/ast"
)

// Lexer tokenizes journal source code.
type Lexer struct {
	source   []byte    // Source buffer
	filename string    // Filename for error reporting
	line     int       // Current line (1-indexed)
	text     string    // Text of the current line
	chars    []rune    // Characters of the current line
	pos      int       // Current character position in the line
	tokens   []Token   // Token buffer
	interner *Interner // Shared pool for account and commodity names
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source []byte, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		tokens:   make([]Token, 0, len(source)/8+16),
		interner: NewInterner(64),
	}
}

// WithInterner shares an interner between lexers, so files lexed with it
// reuse the same account and commodity strings.
func (l *Lexer) WithInterner(interner *Interner) *Lexer {
	l.interner = interner
	return l
}

// ScanAll lexes the entire source and returns all tokens terminated by an
// EOF token. The first malformed line aborts the scan with a *LexerError.
func (l *Lexer) ScanAll() ([]Token, error) {
	lines := strings.Split(string(l.source), "\n")
	for i, text := range lines {
		l.line = i + 1
		l.text = strings.TrimSuffix(text, "\r")
		l.chars = []rune(l.text)
		l.pos = 0

		if err := l.scanLine(); err != nil {
			return nil, err
		}
	}

	l.tokens = append(l.tokens, Token{Type: EOF, Line: len(lines)})
	return l.tokens, nil
}

// scanLine dispatches on the indentation of the current line.
func (l *Lexer) scanLine() error {
	var err error
	if l.consume('\t') || l.consumeString("  ") {
		l.skipWhitespace()
		switch {
		case l.eol():
		case l.peek() == ';':
			l.scanComment(COMMENT)
		default:
			err = l.scanPosting()
		}
	} else {
		switch {
		case l.eol():
		case l.peek() == ';':
			l.scanComment(JOURNAL_COMMENT)
		case isDigit(l.peek()):
			err = l.scanTransaction()
		case l.consumeString("include "):
			err = l.scanDirective(INCLUDE)
		case l.consumeString("alias "):
			err = l.scanDirective(ALIAS)
		case strings.TrimSpace(l.text) == "":
			l.pos = len(l.chars)
		}
	}
	if err != nil {
		return err
	}

	if !l.eol() {
		return l.errorf("unexpected character \"%c\"", l.peek())
	}
	return nil
}

// scanComment scans "; text". A single whitespace after the semicolon is
// not part of the comment.
func (l *Lexer) scanComment(typ TokenType) {
	col := l.pos
	l.pos++ // ;
	if !l.eol() && unicode.IsSpace(l.peek()) {
		l.pos++
	}
	l.emit(typ, l.rest(), col)
}

// scanTransaction scans a header:
//
//	DATE[=DATE] [*|!] [(CODE)] DESCRIPTION
func (l *Lexer) scanTransaction() error {
	if err := l.scanDate(true); err != nil {
		return err
	}

	// Secondary date is consumed and dropped.
	if l.consume('=') {
		if err := l.scanDate(false); err != nil {
			return err
		}
	}

	if l.eol() {
		return l.errorf("unexpected end of line")
	}
	if !unicode.IsSpace(l.peek()) {
		return l.errorf("received \"%c\", but expected whitespace", l.peek())
	}
	l.skipWhitespace()

	switch l.peek() {
	case '*':
		l.emit(STATE, StateCleared, l.pos)
		l.pos++
	case '!':
		l.emit(STATE, StatePending, l.pos)
		l.pos++
	default:
		l.emit(STATE, StateUncleared, l.pos)
	}
	l.skipWhitespace()

	if l.peek() == '(' {
		col := l.pos
		l.pos++
		start := l.pos
		for !l.eol() && l.peek() != ')' {
			l.pos++
		}
		if l.eol() {
			return l.errorf("transaction code not closed")
		}
		l.emit(CODE, string(l.chars[start:l.pos]), col)
		l.pos++
		l.skipWhitespace()
	}

	col := l.pos
	l.emit(DESCRIPTION, strings.TrimRightFunc(l.rest(), unicode.IsSpace), col)
	return nil
}

// scanDate scans YYYY-MM-DD with "-", "/" or "." as separator. Month and
// day may be written with a single digit and are padded to two.
func (l *Lexer) scanDate(emit bool) error {
	col := l.pos
	year, err := l.scanDigits(4, 4)
	if err != nil {
		return err
	}

	sep := l.peek()
	if l.eol() {
		return l.errorf("unexpected end of line")
	}
	if sep != '-' && sep != '/' && sep != '.' {
		return l.errorf("received \"%c\", but expected date separator", sep)
	}
	l.pos++

	monthCol := l.pos
	month, err := l.scanDigits(1, 2)
	if err != nil {
		return err
	}
	if l.eol() {
		return l.errorf("unexpected end of line")
	}
	if l.peek() != sep {
		return l.errorf("received \"%c\", but expected \"%c\"", l.peek(), sep)
	}
	l.pos++

	dayCol := l.pos
	day, err := l.scanDigits(1, 2)
	if err != nil {
		return err
	}

	if emit {
		l.emit(DATE_YEAR, year, col)
		l.emit(DATE_MONTH, zeroPad(month), monthCol)
		l.emit(DATE_DAY, zeroPad(day), dayCol)
	}
	return nil
}

// scanDigits scans between minimum and maximum decimal digits.
func (l *Lexer) scanDigits(minimum, maximum int) (string, error) {
	start := l.pos
	for l.pos-start < maximum && !l.eol() && isDigit(l.peek()) {
		l.pos++
	}
	if l.pos-start < minimum {
		if l.eol() {
			return "", l.errorf("unexpected end of line")
		}
		return "", l.errorf("received \"%c\", but expected digit", l.peek())
	}
	return string(l.chars[start:l.pos]), nil
}

// scanPosting scans a posting line:
//
//	ACCOUNT  [AMOUNT] [= AMOUNT] [@ AMOUNT | @@ AMOUNT] [; COMMENT]
//
// A parenthesized account marks a virtual posting. The account name ends at
// a tab or two consecutive spaces.
func (l *Lexer) scanPosting() error {
	col := l.pos
	typ := ACCOUNT
	if l.consume('(') {
		typ = VIRTUAL_ACCOUNT
	}

	start := l.pos
	closed := false
	for !l.eol() && !l.atSeparator() {
		if typ == VIRTUAL_ACCOUNT && l.peek() == ')' {
			closed = true
			break
		}
		l.pos++
	}
	account := strings.TrimRightFunc(string(l.chars[start:l.pos]), unicode.IsSpace)

	if typ == VIRTUAL_ACCOUNT {
		if !closed {
			return l.errorf("virtual posting not closed")
		}
		l.pos++ // )
		if !l.eol() && !unicode.IsSpace(l.peek()) {
			return l.errorf("unexpected character \"%c\"", l.peek())
		}
	}
	if account == "" {
		l.pos = start
		return l.errorf("missing account name")
	}
	l.emit(typ, account, col)

	l.skipWhitespace()
	if !l.eol() && !isAmountEnd(l.peek()) {
		if err := l.scanAmount(); err != nil {
			return err
		}
	}

	l.skipWhitespace()
	if l.peek() == '=' {
		l.emit(ASSERTION, "", l.pos)
		l.pos++
		l.skipWhitespace()
		if l.eol() {
			return l.errorf("invalid balance assertion")
		}
		if err := l.scanAmount(); err != nil {
			return err
		}
	}

	l.skipWhitespace()
	if l.peek() == '@' {
		costCol := l.pos
		l.pos++
		if l.consume('@') {
			l.emit(COST_TOTAL, "", costCol)
		} else {
			l.emit(COST_PER_UNIT, "", costCol)
		}
		l.skipWhitespace()
		if l.eol() {
			return l.errorf("unexpected end of line")
		}
		if err := l.scanAmount(); err != nil {
			return err
		}
	}

	l.skipWhitespace()
	if l.peek() == ';' {
		l.scanComment(COMMENT)
	}
	return nil
}

// scanAmount scans a commodity and amount pair and always emits a COMMODITY
// token followed by an AMOUNT token; the commodity may be empty.
//
// A commodity written before the number ("$100.00", "EUR -5") is scanned
// up to a minus sign, digit or whitespace. Otherwise the number comes first
// and an optional commodity follows it ("100.00 USD").
func (l *Lexer) scanAmount() error {
	start := l.pos
	for !l.eol() && !isDigit(l.peek()) && l.peek() != '-' && !unicode.IsSpace(l.peek()) && !isAmountEnd(l.peek()) {
		l.pos++
	}

	if prefix := string(l.chars[start:l.pos]); prefix != "" {
		l.skipWhitespace()
		if l.eol() || isAmountEnd(l.peek()) {
			l.pos = start
			return l.errorf("received \"%c\", but expected number", l.peek())
		}
		numCol := l.pos
		number, err := l.scanNumber()
		if err != nil {
			return err
		}
		if !l.eol() && !unicode.IsSpace(l.peek()) && !isAmountEnd(l.peek()) {
			return l.errorf("received \"%c\", but expected number", l.peek())
		}
		l.emit(COMMODITY, prefix, start)
		l.emit(AMOUNT, number, numCol)
		return l.expectAmountEnd()
	}

	number, err := l.scanNumber()
	if err != nil {
		return err
	}

	l.skipWhitespace()
	suffixCol := l.pos
	if !l.eol() && !isAmountEnd(l.peek()) {
		if c := l.peek(); isDigit(c) || c == '.' || c == '-' || c == ',' {
			return l.errorf("unexpected character \"%c\"", c)
		}
		for !l.eol() && !unicode.IsSpace(l.peek()) && !isAmountEnd(l.peek()) {
			l.pos++
		}
	}
	l.emit(COMMODITY, string(l.chars[suffixCol:l.pos]), suffixCol)
	l.emit(AMOUNT, number, start)
	return l.expectAmountEnd()
}

// scanNumber scans -?digits(.digits)?
func (l *Lexer) scanNumber() (string, error) {
	start := l.pos
	l.consume('-')
	if err := l.expectDigit(); err != nil {
		return "", err
	}
	for !l.eol() && isDigit(l.peek()) {
		l.pos++
	}
	if l.consume('.') {
		if err := l.expectDigit(); err != nil {
			return "", err
		}
		for !l.eol() && isDigit(l.peek()) {
			l.pos++
		}
	}
	return string(l.chars[start:l.pos]), nil
}

func (l *Lexer) expectDigit() error {
	if l.eol() {
		return l.errorf("unexpected end of line")
	}
	if !isDigit(l.peek()) {
		return l.errorf("received \"%c\", but expected number", l.peek())
	}
	return nil
}

// expectAmountEnd checks that only an assertion, cost annotation or comment
// can follow an amount.
func (l *Lexer) expectAmountEnd() error {
	i := l.pos
	for i < len(l.chars) && unicode.IsSpace(l.chars[i]) {
		i++
	}
	if i == len(l.chars) || isAmountEnd(l.chars[i]) {
		return nil
	}
	l.pos = i
	return l.errorf("unexpected character \"%c\"", l.chars[i])
}

// scanDirective scans the argument of an include or alias directive.
func (l *Lexer) scanDirective(typ TokenType) error {
	l.skipWhitespace()
	col := l.pos
	value := strings.TrimRightFunc(l.rest(), unicode.IsSpace)
	if value == "" {
		return l.errorf("missing %s argument", typ)
	}
	l.emit(typ, value, col)
	return nil
}

// Helper methods

func (l *Lexer) emit(typ TokenType, value string, col int) {
	switch typ {
	case ACCOUNT, VIRTUAL_ACCOUNT, COMMODITY:
		value = l.interner.Intern(value)
	}
	l.tokens = append(l.tokens, Token{
		Type:   typ,
		Value:  value,
		Line:   l.line,
		Column: col,
	})
}

func (l *Lexer) errorf(format string, args ...any) *LexerError {
	return &LexerError{
		Pos: ast.Position{
			Filename: l.filename,
			Line:     l.line,
			Column:   l.pos,
		},
		Line:    l.text,
		Message: fmt.Sprintf(format, args...),
	}
}

func (l *Lexer) eol() bool {
	return l.pos >= len(l.chars)
}

func (l *Lexer) peek() rune {
	if l.eol() {
		return 0
	}
	return l.chars[l.pos]
}

func (l *Lexer) consume(c rune) bool {
	if l.peek() == c && !l.eol() {
		l.pos++
		return true
	}
	return false
}

func (l *Lexer) consumeString(s string) bool {
	pos := l.pos
	for _, c := range s {
		if pos >= len(l.chars) || l.chars[pos] != c {
			return false
		}
		pos++
	}
	l.pos = pos
	return true
}

// rest consumes and returns the remainder of the line.
func (l *Lexer) rest() string {
	s := string(l.chars[l.pos:])
	l.pos = len(l.chars)
	return s
}

func (l *Lexer) skipWhitespace() {
	for !l.eol() && unicode.IsSpace(l.peek()) {
		l.pos++
	}
}

// atSeparator reports whether the account name ends here.
func (l *Lexer) atSeparator() bool {
	if l.peek() == '\t' {
		return true
	}
	return l.pos+1 < len(l.chars) && l.chars[l.pos] == ' ' && l.chars[l.pos+1] == ' '
}

func zeroPad(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isAmountEnd(c rune) bool {
	return c == '=' || c == '@' || c == ';'
}
