package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/funvibe/objrepl/internal/catalog"
	"github.com/funvibe/objrepl/internal/config"
	"github.com/funvibe/objrepl/internal/interp"
	"github.com/funvibe/objrepl/internal/logger"
	"github.com/funvibe/objrepl/internal/repl"
)

const usage = `Usage: objrepl [--config path] [--debug] [--no-banner] [script]

Reads commands from script, or from standard input when no script is given.
Standard input that is a terminal starts the interactive prompt.`

type options struct {
	configPath string
	debug      bool
	noBanner   bool
	help       bool
	script     string
}

func parseArgs(args []string) (options, error) {
	var opts options
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-debug" || arg == "--debug":
			opts.debug = true
		case arg == "-no-banner" || arg == "--no-banner":
			opts.noBanner = true
		case arg == "-h" || arg == "-help" || arg == "--help":
			opts.help = true
		case arg == "-config" || arg == "--config":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s requires a path", arg)
			}
			i++
			opts.configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			opts.configPath = strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "-") && arg != "-":
			return opts, fmt.Errorf("unknown flag %s", arg)
		case opts.script == "":
			opts.script = arg
		default:
			return opts, fmt.Errorf("unexpected argument %s", arg)
		}
	}
	return opts, nil
}

func main() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n%s\n", err, usage)
		return 2
	}
	if opts.help {
		fmt.Println(usage)
		return 0
	}

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	cfg, err := config.Load(opts.configPath, wd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	if opts.debug {
		cfg.Log.Level = "debug"
	}
	if opts.noBanner {
		off := false
		cfg.Banner = &off
	}

	log, err := logger.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	if cfg.Path() != "" {
		log.Debug("config loaded", "path", cfg.Path())
	}

	reg := catalog.NewDefault()
	if err := cfg.Apply(reg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}

	in := interp.New(interp.Options{Registry: reg, Logger: log})
	defer func() {
		if err := in.Close(); err != nil {
			in.Logger().Warn("session teardown", "err", err)
		}
	}()
	session := repl.New(in, cfg, os.Stdout)

	if opts.script != "" && opts.script != "-" {
		return runScript(session, opts.script, log)
	}
	if err := session.Run(os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

func runScript(session *repl.Session, path string, log *slog.Logger) int {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	defer f.Close()

	log.Debug("running script", "path", path)
	if err := session.RunBatch(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %s\n", path, err)
		return 1
	}
	return 0
}
