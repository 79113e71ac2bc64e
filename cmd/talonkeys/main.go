// Package main is the entry point for talonkeys.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/dshills/talonkeys/internal/app"
	"github.com/dshills/talonkeys/internal/config"
	"github.com/dshills/talonkeys/internal/input/key"
	"github.com/dshills/talonkeys/internal/integration/dotool"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errUsage reports a command line that flag parsing accepted but that
// cannot be run.
var errUsage = errors.New("usage")

type options struct {
	configPath string
	logLevel   string
	appName    string
	dryRun     bool
	jsonOut    bool
	version    bool
	help       bool

	command string
	specs   []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := newFlagSet(stderr)
	opts, err := parseArgs(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fs.Usage()
		return 2
	}

	if opts.help {
		fs.Usage()
		return 0
	}
	if opts.version {
		fmt.Fprintf(stdout, "talonkeys %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	cfg, err := config.Load(config.LoadOptions{Path: opts.configPath})
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	logger, err := app.NewLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create logger: %v\n", err)
		return 1
	}

	appOpts := app.Options{Config: cfg, Logger: logger, App: opts.appName}
	if opts.dryRun {
		appOpts.Sink = dotool.NewWriterSink(stdout)
	}

	application, err := app.New(appOpts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch opts.command {
	case "translate":
		err = translate(application, opts, stdout)
	case "send":
		for _, spec := range opts.specs {
			application.Key(ctx, "", spec)
		}
	case "serve":
		err = serve(ctx, application, stdin, stderr)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newFlagSet(out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("talonkeys", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintf(out, "talonkeys - translate Talon key specs into dotool input\n\n")
		fmt.Fprintf(out, "Usage: talonkeys [options] <command> [spec...]\n\n")
		fmt.Fprintf(out, "Commands:\n")
		fmt.Fprintf(out, "  translate SPEC...   Print the dotool actions for each spec\n")
		fmt.Fprintf(out, "  send SPEC...        Translate and send to dotool\n")
		fmt.Fprintf(out, "  serve               Read specs from stdin, one per line\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  talonkeys translate \"ctrl-shift-p esc:2\"\n")
		fmt.Fprintf(out, "  talonkeys -dry-run send ctrl-s\n")
		fmt.Fprintf(out, "  talonkeys -app \"Sublime Text\" serve\n")
	}
	return fs
}

func parseArgs(fs *flag.FlagSet, args []string) (options, error) {
	var opts options

	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, warning, error)")
	fs.StringVar(&opts.appName, "app", "", "Application name used for scope checks")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "Print actions instead of sending them to dotool")
	fs.BoolVar(&opts.jsonOut, "json", false, "Print translate output as JSON")
	fs.BoolVar(&opts.version, "version", false, "Show version information")
	fs.BoolVar(&opts.version, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&opts.help, "help", false, "Show help message")
	fs.BoolVar(&opts.help, "h", false, "Show help message (shorthand)")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.help || opts.version {
		return opts, nil
	}

	switch opts.logLevel {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, warning, or error)", opts.logLevel)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return opts, fmt.Errorf("%w: missing command", errUsage)
	}
	opts.command, opts.specs = rest[0], rest[1:]

	switch opts.command {
	case "translate", "send":
		if len(opts.specs) == 0 {
			return opts, fmt.Errorf("%w: %s needs at least one key spec", errUsage, opts.command)
		}
	case "serve":
		if len(opts.specs) != 0 {
			return opts, fmt.Errorf("%w: serve takes no arguments", errUsage)
		}
	default:
		return opts, fmt.Errorf("%w: unknown command %q", errUsage, opts.command)
	}
	return opts, nil
}

// translation is one spec and its actions in -json output.
type translation struct {
	Spec    string   `json:"spec"`
	Actions []string `json:"actions"`
}

func translate(application *app.App, opts options, stdout io.Writer) error {
	if opts.jsonOut {
		out := make([]translation, 0, len(opts.specs))
		for _, spec := range opts.specs {
			out = append(out, translation{Spec: spec, Actions: key.Lines(application.Translate(spec))})
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	_, err := io.WriteString(stdout, key.FormatBatch(application.Translate(strings.Join(opts.specs, " "))))
	return err
}

func serve(ctx context.Context, application *app.App, stdin io.Reader, stderr io.Writer) error {
	serveOpts := app.ServeOptions{Watch: true}
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		serveOpts.Prompt = stderr
	}
	return application.Serve(ctx, stdin, serveOpts)
}
