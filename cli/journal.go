package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/robinvdvleuten/journal/ledger"
	"github.com/robinvdvleuten/journal/loader"
	"github.com/robinvdvleuten/journal/output"
	"github.com/robinvdvleuten/journal/report"
	"github.com/robinvdvleuten/journal/telemetry"
)

// JournalFlags selects the journals a command reads.
type JournalFlags struct {
	File  []string `help:"Journal file to read, '-' for stdin. Repeatable." short:"f" env:"LEDGER_FILE" placeholder:"FILE"`
	Watch bool     `help:"Run again whenever one of the journal files changes."`
}

// reportFunc renders a report of a loaded ledger.
type reportFunc func(w io.Writer, r *report.Renderer, l *ledger.Ledger) error

// files returns the journals to read: the flag, else the config file.
func (app *App) files(flags JournalFlags) ([]string, error) {
	files := flags.File
	if len(files) == 0 {
		files = app.Config.JournalFiles()
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no journal file given (use --file or LEDGER_FILE)")
	}
	for _, file := range files {
		if file == "-" && len(files) > 1 {
			return nil, fmt.Errorf("standard input cannot be combined with other journal files")
		}
	}
	return files, nil
}

// runReport loads the journals and writes the report, once or on every
// change when watching.
func (app *App) runReport(name string, flags JournalFlags, fn reportFunc) error {
	files, err := app.files(flags)
	if err != nil {
		return err
	}

	if !flags.Watch {
		if _, err := app.render(context.Background(), name, files, fn); err != nil {
			return err
		}
		return nil
	}

	if files[0] == "-" {
		return fmt.Errorf("standard input cannot be watched")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loaded, _ := app.render(ctx, name, files, fn)
	app.printInfof("watching %d file(s), press Ctrl+C to stop", len(loaded))

	return loader.Watch(ctx, loaded, func() []string {
		app.clearScreen()
		reloaded, _ := app.render(ctx, name, files, fn)
		if len(reloaded) == 0 {
			return loaded
		}
		loaded = reloaded
		return loaded
	}, app.Log)
}

// render loads the journals and writes the report to stdout. The report is
// buffered so that nothing is written when it fails. It returns the files
// that were read.
func (app *App) render(ctx context.Context, name string, files []string, fn reportFunc) ([]string, error) {
	var collector telemetry.Collector
	if app.Globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		ctx = telemetry.WithCollector(ctx, collector)

		rootTimer := collector.Start(fmt.Sprintf("%s %s", name, displayFiles(files)))
		ctx = telemetry.WithRootTimer(ctx, rootTimer)

		defer func() {
			rootTimer.End()
			_, _ = fmt.Fprintln(app.Stderr)
			collector.Report(app.Stderr, output.NewStyles(app.Stderr, app.color))
		}()
	}

	ldr := loader.New(
		loader.WithAliases(app.Config.AccountAliases()...),
		loader.WithLogger(app.Log),
	)

	l, err := app.load(ctx, ldr, files)
	if err != nil {
		app.renderError(err, ldr.Sources())
		return ldr.Files(), NewCommandError(1)
	}

	var buf bytes.Buffer
	timer := telemetry.StartTimer(ctx, "report."+name)
	err = fn(&buf, report.New(report.WithStyles(app.styles)), l)
	timer.End()
	if err != nil {
		return ldr.Files(), err
	}

	_, err = app.Stdout.Write(buf.Bytes())
	return ldr.Files(), err
}

// load reads files, or standard input when the only file is "-".
func (app *App) load(ctx context.Context, ldr *loader.Loader, files []string) (*ledger.Ledger, error) {
	if len(files) == 1 && files[0] == "-" {
		data, err := io.ReadAll(app.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
		return ldr.LoadText(ctx, loader.StdinFilename, string(data))
	}
	return ldr.Load(ctx, files...)
}

// clearScreen clears the terminal between watch runs.
func (app *App) clearScreen() {
	f, ok := app.Stdout.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return
	}
	_, _ = io.WriteString(f, "\x1b[H\x1b[2J")
}

func displayFiles(files []string) string {
	names := make([]string, len(files))
	for i, file := range files {
		names[i] = filepath.Base(file)
	}
	return strings.Join(names, ", ")
}
