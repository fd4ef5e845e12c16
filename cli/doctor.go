package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/journal/loader"
	"github.com/robinvdvleuten/journal/parser"
)

// DoctorCmd provides doctor utilities for debugging journal files.
type DoctorCmd struct {
	Lex LexCmd `cmd:"" help:"Show lexical tokens from a journal file."`
	AST ASTCmd `cmd:"" name:"ast" help:"Dump the parsed transactions of a journal file."`
}

// LexCmd shows lexical tokens from a journal file.
type LexCmd struct {
	File string `help:"Journal file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Repr bool   `help:"Dump tokens as Go values."`
}

// Run executes the lex command.
func (cmd *LexCmd) Run(app *App) error {
	filename, data, err := app.readSource(cmd.File)
	if err != nil {
		return err
	}

	tokens, err := parser.Lex(filename, data)
	if err != nil {
		app.renderError(err, map[string]string{filename: string(data)})
		return NewCommandError(1)
	}

	if cmd.Repr {
		_, err = fmt.Fprintln(app.Stdout, repr.String(tokens, repr.Indent("  ")))
		return err
	}

	for _, tok := range tokens {
		if tok.Type == parser.EOF {
			continue
		}
		if _, err := fmt.Fprintf(app.Stdout, "%-16s %d:%d %q\n", tok.Type, tok.Line, tok.Column, tok.Value); err != nil {
			return err
		}
	}
	return nil
}

// ASTCmd dumps the transactions of a single file as the builder produced
// them, before includes are expanded or amounts are balanced.
type ASTCmd struct {
	File string `help:"Journal file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

// Run executes the ast command.
func (cmd *ASTCmd) Run(app *App) error {
	filename, data, err := app.readSource(cmd.File)
	if err != nil {
		return err
	}

	journal, err := parser.ParseBytesWithFilename(context.Background(), filename, data,
		parser.WithAliases(app.Config.AccountAliases()...))
	if err != nil {
		app.renderError(err, map[string]string{filename: string(data)})
		return NewCommandError(1)
	}

	_, err = fmt.Fprintln(app.Stdout, repr.String(journal, repr.Indent("  ")))
	return err
}

// readSource reads file, or standard input when file is empty or "-".
func (app *App) readSource(file string) (string, []byte, error) {
	if file == "" || file == "-" {
		data, err := io.ReadAll(app.Stdin)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
		return loader.StdinFilename, data, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}
	return file, data, nil
}
