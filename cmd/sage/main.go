package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sambeau/sage/config"
	"github.com/sambeau/sage/pkg/sage/help"
	"github.com/sambeau/sage/pkg/sage/printer"
	"github.com/sambeau/sage/pkg/sage/repl"
	"github.com/sambeau/sage/pkg/sage/sage"
	"github.com/sambeau/sage/pkg/sage/types"
)

// Version is set at compile time via -ldflags.
var Version = "0.1.0"

func main() {
	ctx := context.Background()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run is the entry point proper, kept free of globals so it can be driven
// from a test with substitute args, writers and environment.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	if len(args) > 0 && args[0] == "doc" {
		return docCommand(args[1:], stdout, stderr)
	}

	flags := flag.NewFlagSet("sage", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		configPath  = flags.String("config", "", "Path to config file")
		evalCode    = flags.String("e", "", "Evaluate code string and print the result")
		watch       = flags.Bool("watch", false, "Re-run the script when it or its bootstrap files change")
		showVersion = flags.Bool("version", false, "Show version")
		showHelp    = flags.Bool("help", false, "Show help")
	)

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(stdout)
			return nil
		}
		printUsage(stderr)
		return err
	}

	if *showHelp {
		printUsage(stdout)
		return nil
	}
	if *showVersion {
		fmt.Fprintf(stdout, "sage version %s\n", Version)
		return nil
	}

	cfgFile := *configPath
	if cfgFile == "" {
		cfgFile = "sage.yaml"
	}
	cfg, err := config.Load(cfgFile, getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.Watch = *watch

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *evalCode != "" {
		return executeInline(*evalCode, flags.Args(), cfg, stdout)
	}

	if len(flags.Args()) > 0 {
		return runFileMode(ctx, flags.Args(), cfg, stdout, stderr)
	}

	interp := newInterpreter(cfg, stdout)
	repl.Start(os.Stdin, stdout, interp.Env(), Version)
	return nil
}

func newInterpreter(cfg *config.Config, stdout io.Writer) *sage.Interpreter {
	interp := sage.New()
	interp.SetLogger(sage.WriterLogger(stdout))
	for _, path := range cfg.Bootstrap {
		src, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if _, err := interp.Eval("(do " + string(src) + "\nnil)"); err != nil {
			fmt.Fprintf(stdout, "bootstrap %s: %v\n", path, err)
		}
	}
	return interp
}

func executeInline(code string, scriptArgs []string, cfg *config.Config, stdout io.Writer) error {
	interp := newInterpreter(cfg, stdout)
	bindArgv(interp, scriptArgs)
	result, err := interp.Eval(code)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, printer.Str(result, true))
	return nil
}

func runFileMode(ctx context.Context, args []string, cfg *config.Config, stdout, stderr io.Writer) error {
	filename := args[0]
	scriptArgs := args[1:]

	runOnce := func() error {
		interp := newInterpreter(cfg, stdout)
		bindArgv(interp, scriptArgs)
		src, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("reading %s: %w", filename, err)
		}
		if _, err := interp.Eval("(do " + string(src) + "\nnil)"); err != nil {
			return fmt.Errorf("%s: %w", filename, err)
		}
		return nil
	}

	if err := runOnce(); err != nil {
		fmt.Fprintln(stderr, err)
	}
	if !cfg.Watch {
		return nil
	}

	return watchAndRerun(ctx, append([]string{filename}, cfg.Bootstrap...), stdout, runOnce)
}

func bindArgv(interp *sage.Interpreter, scriptArgs []string) {
	items := make([]types.Value, len(scriptArgs))
	for i, a := range scriptArgs {
		items[i] = &types.String{Value: a}
	}
	interp.Env().Set("*ARGV*", types.NewList(items...))
}

// watchAndRerun debounces fsnotify events on the given paths' directories
// and re-invokes rerun whenever one of the watched files changes.
func watchAndRerun(ctx context.Context, paths []string, stdout io.Writer, rerun func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	for _, p := range paths {
		dir := filepath.Dir(p)
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			continue
		}
		watched[dir] = true
	}

	targets := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, _ := filepath.Abs(p)
		targets[abs] = true
	}

	fmt.Fprintln(stdout, "watching for changes, Ctrl+C to stop")

	var lastRun time.Time
	const debounce = 200 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, _ := filepath.Abs(ev.Name)
			if !targets[abs] {
				continue
			}
			if time.Since(lastRun) < debounce {
				continue
			}
			lastRun = time.Now()
			fmt.Fprintf(stdout, "--- reloading %s ---\n", ev.Name)
			if err := rerun(); err != nil {
				fmt.Fprintln(stdout, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(stdout, "watch error:", err)
		}
	}
}

func docCommand(args []string, stdout, stderr io.Writer) error {
	htmlOutput := false
	var topic string
	for _, arg := range args {
		if arg == "--html" {
			htmlOutput = true
		} else if !strings.HasPrefix(arg, "-") {
			topic = arg
		}
	}

	result, err := help.DescribeTopic(topic)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return err
	}

	if htmlOutput {
		out, err := help.RenderHTML(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, out)
		return nil
	}
	fmt.Fprint(stdout, help.FormatText(result))
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `sage - a small Lisp interpreter

Usage:
  sage [options]                Start the interactive REPL
  sage [options] file [args...] Run a script
  sage -e "code"                Evaluate one form and print the result
  sage doc [--html] <topic>     Show help for a special form or builtin

Options:
  --config PATH    Path to config file (default: ./sage.yaml)
  --watch          Re-run the script when it or its bootstrap files change
  --version        Show version
  --help           Show this help

Examples:
  sage                      Start the REPL
  sage script.sage          Run a script
  sage --watch script.sage  Run a script, re-running on change
  sage -e "(+ 1 2)"         Evaluate inline code
  sage doc fn*              Show help for fn*
`)
}
