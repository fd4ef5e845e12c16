// Package cli implements the journal command line.
package cli

import (
	stdErrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"

	"github.com/robinvdvleuten/journal/config"
	"github.com/robinvdvleuten/journal/output"
)

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"
)

// kongExit carries an exit code requested by kong out of Main.
type kongExit int

// Main runs the command line with args and returns the process exit code.
func Main(args []string, stdin io.Reader, stdout, stderr io.Writer) (code int) {
	var cli struct {
		Version kong.VersionFlag `help:"Show version information."`
		Commands
	}

	defer func() {
		if r := recover(); r != nil {
			exit, ok := r.(kongExit)
			if !ok {
				panic(r)
			}
			code = int(exit)
		}
	}()

	if err := config.LoadEnv(); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}

	parser, err := kong.New(&cli,
		kong.Name("journal"),
		kong.Description("A plain-text double-entry accounting journal processor."),
		kong.Vars{"version": buildVersion()},
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { panic(kongExit(code)) }),
	)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}

	ctx, err := parser.Parse(args)
	parser.FatalIfErrorf(err)

	app, err := newApp(&cli.Globals, stdin, stdout, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "journal: error: %s\n", err)
		return 1
	}

	err = ctx.Run(app)

	var cmdErr *CommandError
	if stdErrors.As(err, &cmdErr) {
		return cmdErr.ExitCode()
	}
	if err != nil {
		app.printError(err.Error())
		return 1
	}
	return 0
}

// App is bound to every command. It holds the resolved settings and the
// streams of the current invocation.
type App struct {
	Globals *Globals
	Config  *config.Config
	Log     *logrus.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	color       output.ColorMode
	errorFormat string
	styles      *output.Styles     // for stdout
	renderer    *lipgloss.Renderer // for stderr
}

func newApp(globals *Globals, stdin io.Reader, stdout, stderr io.Writer) (*App, error) {
	cfg, err := config.Load(globals.Config)
	if err != nil {
		return nil, err
	}

	color, err := output.ParseColorMode(firstNonEmpty(globals.Color, cfg.Color))
	if err != nil {
		return nil, err
	}

	errorFormat := firstNonEmpty(globals.ErrorFormat, cfg.ErrorFormat, "text")
	if errorFormat != "text" && errorFormat != "json" {
		return nil, fmt.Errorf("invalid error format %q (expected text or json)", errorFormat)
	}

	log, err := newLogger(stderr, firstNonEmpty(globals.LogLevel, cfg.LogLevel, "warn"))
	if err != nil {
		return nil, err
	}

	renderer := lipgloss.NewRenderer(stderr)
	switch color {
	case output.ColorAlways:
		renderer.SetColorProfile(termenv.ANSI256)
	case output.ColorNever:
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &App{
		Globals:     globals,
		Config:      cfg,
		Log:         log,
		Stdin:       stdin,
		Stdout:      stdout,
		Stderr:      stderr,
		color:       color,
		errorFormat: errorFormat,
		styles:      output.NewStyles(stdout, color),
		renderer:    renderer,
	}, nil
}

// newLogger creates the diagnostics logger. DEBUG=1 forces debug output.
func newLogger(w io.Writer, level string) (*logrus.Logger, error) {
	if os.Getenv("DEBUG") == "1" {
		level = "debug"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return log, nil
}

func (app *App) printSuccess(message string) {
	style := app.renderer.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	_, _ = fmt.Fprintf(app.Stdout, "%s %s\n", style.Render(successSymbol), message)
}

func (app *App) printError(message string) {
	style := app.renderer.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	_, _ = fmt.Fprintf(app.Stderr, "%s %s\n", style.Render(errorSymbol), style.Render(message))
}

func (app *App) printInfof(format string, args ...any) {
	style := app.renderer.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	_, _ = fmt.Fprintf(app.Stderr, "%s %s\n", style.Render(infoSymbol), fmt.Sprintf(format, args...))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func buildVersion() string {
	if Version == "" {
		Version = "dev"
	}
	if CommitSHA == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, CommitSHA)
}
