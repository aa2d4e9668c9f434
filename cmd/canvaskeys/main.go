// Package main is the entry point for canvaskeys.
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
	"text/tabwriter"

	"github.com/dshills/canvaskeys/internal/app"
	"github.com/dshills/canvaskeys/internal/input/keymap"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, list, find := parseFlags()

	if list || find != "" {
		opts.NoTerminal = true
		opts.LogOutput = io.Discard
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	if list || find != "" {
		printKeymap(os.Stdout, application.Keymap(), find)
		return 0
	}

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// printKeymap writes the keymap's bindings grouped by category. A non-empty
// query keeps only the bindings matching it.
func printKeymap(w io.Writer, km *keymap.Keymap, query string) {
	if km == nil {
		return
	}
	fmt.Fprintf(w, "Keymap %s (%s)\n", km.Name, km.Source)

	bindings := km.Bindings
	if query != "" {
		bindings = km.Find(query, 0)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, cat := range keymap.GroupByCategory(bindings) {
		fmt.Fprintf(tw, "\n%s\n", cat.Name)
		for _, b := range cat.Bindings {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", b.Keys, b.Action, b.Description)
		}
	}
	_ = tw.Flush()
}

func parseFlags() (app.Options, bool, string) {
	var opts app.Options
	var scripts stringList
	var showVersion bool
	var showHelp bool
	var list bool
	var find string

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (default canvaskeys.toml)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.KeymapPath, "keymap", "", "Keymap file, reloaded on change")
	flag.StringVar(&opts.KeymapPath, "k", "", "Keymap file (shorthand)")
	flag.Var(&scripts, "script", "Lua script to run on startup (repeatable)")
	flag.BoolVar(&opts.Debug, "debug", false, "Enable debug mode")
	flag.BoolVar(&opts.Debug, "d", false, "Enable debug mode (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file")
	flag.BoolVar(&opts.ReadOnly, "readonly", false, "Veto shortcuts that change the diagram")
	flag.BoolVar(&opts.ReadOnly, "R", false, "Veto shortcuts that change the diagram (shorthand)")
	flag.BoolVar(&list, "list", false, "Print the active keymap and exit")
	flag.StringVar(&find, "find", "", "Print the bindings matching a fuzzy query and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "canvaskeys - keyboard shortcuts for a diagramming canvas\n\n")
		fmt.Fprintf(os.Stderr, "Usage: canvaskeys [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  canvaskeys                        Run with the default keymap\n")
		fmt.Fprintf(os.Stderr, "  canvaskeys -k keys.toml           Run with a keymap file\n")
		fmt.Fprintf(os.Stderr, "  canvaskeys -script init.lua       Run a Lua script on startup\n")
		fmt.Fprintf(os.Stderr, "  canvaskeys -list -k keys.yaml     Print a keymap\n")
		fmt.Fprintf(os.Stderr, "  canvaskeys -find zoom             Find bindings by action or key\n")
		fmt.Fprintf(os.Stderr, "\nPress Ctrl+Q to quit.\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("canvaskeys %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments: %s\n", strings.Join(flag.Args(), " "))
		flag.Usage()
		os.Exit(2)
	}

	opts.Scripts = scripts
	return opts, list, find
}
