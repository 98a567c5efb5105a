// Package cli implements flag parsing and subcommand dispatch for the
// todo binary.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"todo/internal/config"
	"todo/internal/logging"
	"todo/internal/service"
	"todo/internal/shell"
	"todo/internal/store"
	"todo/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the todo CLI. Output goes to out, diagnostics to errOut.
func Run(ctx context.Context, args []string, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		printUsage(fs, errOut)
	}

	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")
	cliMode := fs.Bool("cli", false, "Use the interactive shell")
	guiMode := fs.Bool("gui", false, "Use the graphical list view")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, out)
		return nil
	}
	if *showVersion {
		fmt.Fprintln(out, "todo "+Version)
		return nil
	}
	if *cliMode {
		cfg.UI = config.UIShell
	}
	if *guiMode {
		cfg.UI = config.UIGraphical
	}

	log, closeLog, err := buildLogger(cfg, errOut)
	if err != nil {
		return err
	}
	if closeLog != nil {
		defer closeLog.Close()
	}

	st := store.New(cfg.DataFile, log)
	svc := service.New(st, log)

	rest := fs.Args()
	if len(rest) > 0 {
		switch rest[0] {
		case "shell":
			return runShell(ctx, cfg, svc, out, errOut)
		case "gui":
			return ui.Run(ctx, svc)
		case "doctor":
			return doctorCommand(cfg, st, out)
		case "version":
			fmt.Fprintln(out, "todo "+Version)
			return nil
		case "help":
			printUsage(fs, out)
			return nil
		default:
			return runOneShot(svc, rest, out, errOut)
		}
	}

	if cfg.UI == config.UIShell {
		return runShell(ctx, cfg, svc, out, errOut)
	}
	return ui.Run(ctx, svc)
}

// runOneShot executes a single shell command from argv and exits.
func runOneShot(svc *service.Service, args []string, out, errOut io.Writer) error {
	if !shell.IsCommand(args[0]) {
		return fmt.Errorf("unknown command: %s", args[0])
	}
	shell.New(svc, out, errOut).Exec(args)
	return nil
}

func runShell(ctx context.Context, cfg *config.Config, svc *service.Service, out, errOut io.Writer) error {
	fmt.Fprintf(out, "(using data file: %s)\n", cfg.DataFile)
	return shell.New(svc, out, errOut).Run(ctx, os.Stdin)
}

// doctorCommand checks the data file for structural problems.
func doctorCommand(cfg *config.Config, st *store.FileStore, out io.Writer) error {
	fmt.Fprintln(out, "todo doctor")
	fmt.Fprintf(out, "  data file: %s\n", st.Path())

	res, err := st.Check()
	if err != nil {
		return err
	}
	if res.OK() {
		fmt.Fprintf(out, "  OK: %d task records, no problems\n", res.Lines)
		return nil
	}
	for _, p := range res.Problems {
		fmt.Fprintf(out, "  FAIL: %s\n", p)
	}
	return fmt.Errorf("%d problem(s) in %s", len(res.Problems), st.Path())
}

// buildLogger picks the log destination for the selected front-end. The
// graphical view owns the terminal, so without an explicit log file its
// logs are dropped rather than smeared over the alt screen.
func buildLogger(cfg *config.Config, errOut io.Writer) (zerolog.Logger, io.Closer, error) {
	if cfg.LogFile != "" {
		log, closer, err := logging.File(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		return log, closer, nil
	}
	if cfg.UI == config.UIGraphical {
		return logging.Discard(), nil, nil
	}
	return logging.Console(cfg.LogLevel, errOut), nil, nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprint(w, `todo - personal task tracker

Usage:
  todo [flags]              Open the default front-end
  todo [flags] shell        Open the interactive shell
  todo [flags] gui          Open the graphical list view
  todo [flags] <command>    Run one shell command and exit
  todo doctor               Check the data file for problems
  todo version              Print the version

Commands:
  add "<title>" [--due yyyy-mm-dd]
  list [--all] [--pending] [--done]
  done <id>
  remove <id>
  due <id> <yyyy-mm-dd|clear>
  clear-done
  stats

Flags:
`)
	fs.SetOutput(w)
	fs.PrintDefaults()
}
