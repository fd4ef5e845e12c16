// Package errors renders journal errors for people and programs.
//
// The parser and ledger packages return structured errors that only carry
// positions. This package looks up the source text those positions refer to
// and builds the context shown to the user:
//
//   - Lexer and parse errors show the offending line with a caret under the
//     first unexpected character.
//   - Balance errors show every line of the transaction, each prefixed with ">".
//
// TextFormatter produces that text; JSONFormatter produces the same data as
// structured JSON for editors and scripts.
package errors

import (
	"bytes"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/robinvdvleuten/journal/ast"
	"github.com/robinvdvleuten/journal/ledger"
	"github.com/robinvdvleuten/journal/parser"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// TextFormatter formats errors for command-line output.
type TextFormatter struct {
	sources map[string]string // filename -> content
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource registers the content of a file for error context.
func WithSource(filename, content string) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.sources[filename] = content
	}
}

// WithSources registers the contents of all loaded files.
func WithSources(sources map[string]string) TextFormatterOption {
	return func(tf *TextFormatter) {
		for filename, content := range sources {
			tf.sources[filename] = content
		}
	}
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{sources: make(map[string]string)}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error. Errors of the parser and ledger packages
// are shown with their source context:
//
//	While parsing file "main.journal" at line 12:
//	12 :  Expenses:Food  abc
//	---------------------^
//	received "a", but expected number
func (tf *TextFormatter) Format(err error) string {
	var (
		lexErr   *parser.LexerError
		parseErr *parser.ParseError
		balErr   *ledger.BalanceError
	)

	switch {
	case stdErrors.As(err, &lexErr):
		return wrapLocation(lexErr.Pos, CaretContext(lexErr.Pos.Line, lexErr.Line, lexErr.Pos.Column, lexErr.Message))

	case stdErrors.As(err, &parseErr):
		if text, ok := tf.sourceLine(parseErr.Pos.Filename, parseErr.Pos.Line); ok {
			return wrapLocation(parseErr.Pos, CaretContext(parseErr.Pos.Line, text, parseErr.Pos.Column, parseErr.Message))
		}
		return wrapLocation(parseErr.Pos, parseErr.Message)

	case stdErrors.As(err, &balErr):
		if source, ok := tf.sources[balErr.Pos.Filename]; ok {
			return wrapLocation(balErr.Pos, RangeContext(splitLines(source), balErr.StartLine, balErr.EndLine, balErr.Message))
		}
		return wrapLocation(balErr.Pos, balErr.Message)
	}

	return err.Error()
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(tf.Format(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

func (tf *TextFormatter) sourceLine(filename string, line int) (string, bool) {
	source, ok := tf.sources[filename]
	if !ok {
		return "", false
	}
	lines := splitLines(source)
	if line < 1 || line > len(lines) {
		return "", false
	}
	return lines[line-1], true
}

// CaretContext renders a source line followed by a caret under column:
//
//	12 : <line>
//	-----------^
//	message
//
// Tabs are shown as single spaces so the caret lines up with the column.
func CaretContext(line int, text string, column int, message string) string {
	text = strings.ReplaceAll(text, "\t", " ")
	number := strconv.Itoa(line)

	// Width of the text before the column, wide characters count double
	runes := []rune(text)
	if column > len(runes) {
		column = len(runes)
	}
	if column < 0 {
		column = 0
	}
	width := runewidth.StringWidth(string(runes[:column]))

	var buf strings.Builder
	fmt.Fprintf(&buf, "%s : %s\n", number, text)
	buf.WriteString(strings.Repeat("-", len(number)+3+width))
	buf.WriteByte('^')
	if message != "" {
		buf.WriteByte('\n')
		buf.WriteString(message)
	}
	return buf.String()
}

// RangeContext renders the 1-based lines start through end, each marked
// with "> ", followed by message.
func RangeContext(lines []string, start, end int, message string) string {
	var buf strings.Builder
	for n := start; n <= end; n++ {
		if n < 1 || n > len(lines) {
			continue
		}
		fmt.Fprintf(&buf, "> %d : %s\n", n, lines[n-1])
	}
	buf.WriteString(message)
	return buf.String()
}

func wrapLocation(pos ast.Position, message string) string {
	filename := pos.Filename
	if filename == "" {
		filename = "<stdin>"
	}
	return fmt.Sprintf("While parsing file %q at line %d:\n%s", filename, pos.Line, message)
}

func splitLines(source string) []string {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string         `json:"type"`
	Message  string         `json:"message"`
	Position *PositionJSON  `json:"position,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// PositionJSON represents a file position in JSON format.
type PositionJSON struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	data, _ := json.MarshalIndent(result, "", "  ")
	return string(data)
}

// toJSON converts an error to ErrorJSON.
func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    "error",
		Message: err.Error(),
		Details: make(map[string]any),
	}

	var (
		lexErr   *parser.LexerError
		parseErr *parser.ParseError
		balErr   *ledger.BalanceError
	)

	switch {
	case stdErrors.As(err, &lexErr):
		errJSON.Type = "lexer"
		errJSON.Message = lexErr.Message
		errJSON.Details["source"] = lexErr.Line

	case stdErrors.As(err, &parseErr):
		errJSON.Type = "parse"
		errJSON.Message = parseErr.Message

	case stdErrors.As(err, &balErr):
		errJSON.Type = "balance"
		errJSON.Message = balErr.Message
		errJSON.Details["start_line"] = balErr.StartLine
		errJSON.Details["end_line"] = balErr.EndLine
		if balErr.Residuals != nil {
			residuals := make(map[string]string)
			for _, e := range balErr.Residuals.Entries() {
				residuals[e.Commodity] = e.Amount.String()
			}
			errJSON.Details["residuals"] = residuals
		}
	}

	var positional interface{ GetPosition() ast.Position }
	if stdErrors.As(err, &positional) {
		pos := positional.GetPosition()
		errJSON.Position = &PositionJSON{
			Filename: pos.Filename,
			Line:     pos.Line,
			Column:   pos.Column,
		}
	}

	return errJSON
}
