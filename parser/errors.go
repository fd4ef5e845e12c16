package parser

import (
	"fmt"

	"github.com/robinvdvleuten/journal/ast"
)

// LexerError reports a malformed character sequence on a single line.
// Pos.Column is the index of the first unexpected character, which is where
// the caret of an error diagram points.
type LexerError struct {
	Pos     ast.Position
	Line    string // Full text of the offending line
	Message string
}

func (e *LexerError) Error() string {
	return fmt.Sprintf("%s: %s", location(e.Pos), e.Message)
}

func (e *LexerError) GetPosition() ast.Position {
	return e.Pos
}

// ParseError reports a token sequence that violates the transaction or
// posting grammar. It is pinned to the line of the offending token.
type ParseError struct {
	Pos     ast.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", location(e.Pos), e.Message)
}

func (e *ParseError) GetPosition() ast.Position {
	return e.Pos
}

func location(pos ast.Position) string {
	if pos.Filename == "" {
		return fmt.Sprintf("line %d", pos.Line)
	}
	return fmt.Sprintf("%s:%d", pos.Filename, pos.Line)
}
