// Package parser turns journal text into unbalanced transactions.
//
// Parsing happens in two passes. The Lexer classifies every line and emits
// a flat sequence of line-numbered tokens; the Builder walks that sequence
// with a single cursor and assembles transactions and postings. Neither
// pass performs arithmetic or touches the filesystem: include directives are
// recorded on the journal and expanded by the loader package.
//
// Example usage:
//
//	journal, err := parser.ParseBytesWithFilename(ctx, "main.journal", data)
//	if err != nil {
//	    var lexErr *parser.LexerError
//	    if errors.As(err, &lexErr) { ... }
//	}
package parser

import (
	"context"
	"fmt"
	"io"

	"github.com/robinvdvleuten/journal/ast"
	"github.com/robinvdvleuten/journal/telemetry"
)

// Lex tokenizes data without building transactions.
func Lex(filename string, data []byte) ([]Token, error) {
	return NewLexer(data, filename).ScanAll()
}

// ParseBytesWithFilename lexes and builds a single journal file.
func ParseBytesWithFilename(ctx context.Context, filename string, data []byte, opts ...BuilderOption) (*ast.Journal, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("parser.parse %s", displayName(filename)))
	defer timer.End()

	b := NewBuilder(nil, filename, opts...)

	lexTimer := timer.Child("parser.lex")
	lexer := NewLexer(data, filename)
	if b.interner != nil {
		lexer.WithInterner(b.interner)
	}
	tokens, err := lexer.ScanAll()
	lexTimer.End()
	if err != nil {
		return nil, err
	}
	b.tokens = tokens

	buildTimer := timer.Child(fmt.Sprintf("parser.build (%d tokens)", len(tokens)))
	defer buildTimer.End()

	return b.Build()
}

// ParseBytes parses a journal without a filename.
func ParseBytes(ctx context.Context, data []byte, opts ...BuilderOption) (*ast.Journal, error) {
	return ParseBytesWithFilename(ctx, "", data, opts...)
}

// ParseString parses a journal from a string.
func ParseString(ctx context.Context, str string, opts ...BuilderOption) (*ast.Journal, error) {
	return ParseBytesWithFilename(ctx, "", []byte(str), opts...)
}

// Parse parses a journal from a reader.
func Parse(ctx context.Context, r io.Reader, opts ...BuilderOption) (*ast.Journal, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return ParseBytesWithFilename(ctx, "", data, opts...)
}

func displayName(filename string) string {
	if filename == "" {
		return "<input>"
	}
	return filename
}
