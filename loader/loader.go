// Package loader reads journal files, follows their include directives and
// balances every transaction into a ledger.
//
// Files are processed depth-first in the order their contents appear. The
// transactions that precede an include directive are balanced and added to
// the ledger before the included files are read, so a file that includes
// others produces the same ledger order as if the included text had been
// pasted in place of the directive:
//
//	a.journal: txn1, include b.journal, txn5
//	b.journal: txn2
//	ledger:    a:1, b:2, a:5
//
// Include patterns are resolved relative to the including file. A file that
// includes itself, directly or indirectly, fails with *IncludeCycleError. A
// file that is included twice along different paths is loaded twice.
//
// Example usage:
//
//	ldr := loader.New(loader.WithAliases(aliases...))
//	l, err := ldr.Load(ctx, "main.journal")
//	if err != nil {
//	    formatter := errors.NewTextFormatter(errors.WithSources(ldr.Sources()))
//	    fmt.Fprintln(os.Stderr, formatter.Format(err))
//	}
package loader

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/robinvdvleuten/journal/ast"
	"github.com/robinvdvleuten/journal/ledger"
	"github.com/robinvdvleuten/journal/parser"
	"github.com/robinvdvleuten/journal/telemetry"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// StdinFilename is the name given to a journal read from standard input.
const StdinFilename = "<stdin>"

// Loader reads journal files through a Resolver. It keeps the contents of
// every file it read during the last load for error reporting.
//
// Configure the loader using functional options passed to New:
//
//	loader := New(WithResolver(myResolver), WithLogger(logger))
type Loader struct {
	resolver Resolver
	aliases  []*ast.Alias
	log      logrus.FieldLogger

	sources map[string]string // filename -> content
	files   []string          // unique filenames in load order
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithResolver replaces the filesystem resolver.
func WithResolver(resolver Resolver) Option {
	return func(l *Loader) {
		l.resolver = resolver
	}
}

// WithAliases applies account aliases to every loaded file, before the
// file's own alias directives.
func WithAliases(aliases ...*ast.Alias) Option {
	return func(l *Loader) {
		l.aliases = append(l.aliases, aliases...)
	}
}

// WithLogger sets the logger for debug output about files and includes.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(l *Loader) {
		l.log = logger
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{
		resolver: FileResolver{},
		log:      logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads the given files in order, following includes, and returns a
// ledger holding all of their transactions.
func (l *Loader) Load(ctx context.Context, filenames ...string) (*ledger.Ledger, error) {
	state := l.begin()

	for _, filename := range filenames {
		if err := state.load(ctx, filename, nil); err != nil {
			return nil, err
		}
	}

	return state.ledger, nil
}

// LoadText loads a journal whose content is already known, such as one read
// from standard input. Includes are resolved relative to the directory of
// filename.
func (l *Loader) LoadText(ctx context.Context, filename, text string) (*ledger.Ledger, error) {
	state := l.begin()
	if absPath, err := filepath.Abs(filename); err == nil {
		state.stack = append(state.stack, absPath)
	}

	if err := state.process(ctx, filename, text); err != nil {
		return nil, err
	}

	return state.ledger, nil
}

// Sources returns the content of every file read by the last load, keyed by
// filename. Files that failed to parse are included.
func (l *Loader) Sources() map[string]string {
	return l.sources
}

// Files returns the files read by the last load, in the order they were
// first read.
func (l *Loader) Files() []string {
	return l.files
}

func (l *Loader) begin() *loadState {
	l.sources = make(map[string]string)
	l.files = nil

	return &loadState{
		loader:   l,
		ledger:   ledger.New(),
		interner: parser.NewInterner(256),
	}
}

// loadState tracks state during one load.
type loadState struct {
	loader   *Loader
	ledger   *ledger.Ledger
	interner *parser.Interner // Shared by every file of the load
	stack    []string         // Absolute paths of the files being processed
}

// load reads filename and processes it. include is the directive that
// named the file, nil for top-level files.
func (s *loadState) load(ctx context.Context, filename string, include *ast.Include) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path for %s: %w", filename, err)
	}

	if i := slices.Index(s.stack, absPath); i >= 0 {
		chain := append(slices.Clone(s.stack[i:]), absPath)
		return &IncludeCycleError{Pos: include.Pos, Chain: chain}
	}
	s.stack = append(s.stack, absPath)
	defer func() { s.stack = s.stack[:len(s.stack)-1] }()

	text, err := s.loader.resolver.ReadText(filename)
	if err != nil {
		if include != nil {
			return fmt.Errorf("%s:%d: failed to read %s: %w", include.Pos.Filename, include.Pos.Line, filename, err)
		}
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	return s.process(ctx, filename, text)
}

// process parses text and adds its transactions to the ledger, expanding
// includes where they appear.
func (s *loadState) process(ctx context.Context, filename, text string) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("loader.load %s", filepath.Base(filename)))
	defer timer.End()

	if _, ok := s.loader.sources[filename]; !ok {
		s.loader.files = append(s.loader.files, filename)
	}
	s.loader.sources[filename] = text

	log := s.loader.log.WithField("file", filename)
	log.Debug("loading journal")

	journal, err := parser.ParseBytesWithFilename(ctx, filename, []byte(text),
		parser.WithAliases(s.loader.aliases...),
		parser.WithInterner(s.interner),
	)
	if err != nil {
		return err
	}

	next := 0
	flush := func(until int) error {
		for ; next < until; next++ {
			if err := s.ledger.Add(journal.Transactions[next]); err != nil {
				return err
			}
		}
		return nil
	}

	for _, include := range journal.Includes {
		if err := flush(include.Index); err != nil {
			return err
		}

		files, err := s.loader.resolver.ResolveInclude(filepath.Dir(filename), include.Pattern)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", filename, include.Pos.Line, err)
		}
		log.WithFields(logrus.Fields{
			"pattern": include.Pattern,
			"files":   len(files),
		}).Debug("expanding include")

		for _, file := range files {
			if err := s.load(ctx, file, include); err != nil {
				return err
			}
		}
	}

	if err := flush(len(journal.Transactions)); err != nil {
		return err
	}

	log.WithField("transactions", len(journal.Transactions)).Debug("loaded journal")
	return nil
}
