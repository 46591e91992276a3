package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/runlog/internal/config"
	"github.com/hpungsan/runlog/internal/errors"
	"github.com/hpungsan/runlog/internal/logging"
	"github.com/hpungsan/runlog/internal/ops"
	"github.com/hpungsan/runlog/internal/runlog"
)

// newCLIApp creates the CLI application with all commands.
// globalDir is the per-user config directory (normally ~/.runlog).
func newCLIApp(globalDir string) *cli.App {
	app := &cli.App{
		Name:    "runlog",
		Usage:   "Run records and weekly health digests",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"RUNLOG_LOG_LEVEL"}, Usage: "Log level: debug|info|warn|error"},
			&cli.StringFlag{Name: "root", Usage: "Repository root (default: current directory)"},
		},
		Before: func(c *cli.Context) error {
			level, err := logging.ParseLevel(c.String("log-level"))
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}
			logging.SetDefault(logging.New(os.Stderr, level, isTerminal(os.Stderr)))
			return nil
		},
		Commands: []*cli.Command{
			writeCmd(globalDir),
			weeklyCmd(globalDir),
			recentCmd(globalDir),
			parseCmd(),
			scheduleCmd(globalDir),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// writeCmd creates the write command.
func writeCmd(globalDir string) *cli.Command {
	return &cli.Command{
		Name:  "write",
		Usage: "Write a new run record (intent may be piped via stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "label", Aliases: []string{"l"}, Usage: "Short name used in the filename (required)"},
			&cli.StringFlag{Name: "summary", Aliases: []string{"s"}, Usage: "One-line summary (required)"},
			&cli.StringFlag{Name: "intent", Aliases: []string{"i"}, Usage: "Why the run happened (required)"},
			&cli.StringFlag{Name: "results", Aliases: []string{"r"}, Usage: "What came out of the run"},
			&cli.StringFlag{Name: "next-actions", Aliases: []string{"n"}, Usage: "Follow-up work"},
			&cli.BoolFlag{Name: "json", Usage: "Print the full result as JSON"},
		},
		Action: func(c *cli.Context) error {
			cfg, root, err := commandConfig(c, globalDir)
			if err != nil {
				return outputError(err)
			}

			intent := c.String("intent")
			if intent == "" && stdinHasData() {
				intent, err = readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
			}

			output, err := ops.Write(cfg, ops.WriteInput{
				Root:        root,
				Label:       c.String("label"),
				Summary:     c.String("summary"),
				Intent:      intent,
				Results:     c.String("results"),
				NextActions: c.String("next-actions"),
			})
			if err != nil {
				return outputError(err)
			}

			if c.Bool("json") {
				return outputJSON(output)
			}
			return outputLine(output.Path)
		},
	}
}

// weeklyCmd creates the weekly command.
func weeklyCmd(globalDir string) *cli.Command {
	return &cli.Command{
		Name:  "weekly",
		Usage: "Prepend a weekly health digest to the report",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print the full result as JSON"},
		},
		Action: func(c *cli.Context) error {
			cfg, root, err := commandConfig(c, globalDir)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Weekly(c.Context, cfg, ops.WeeklyInput{Root: root})
			if err != nil {
				return outputError(err)
			}

			if c.Bool("json") {
				return outputJSON(output)
			}
			return outputLine(output.Path)
		},
	}
}

// recentCmd creates the recent command.
func recentCmd(globalDir string) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "List run records from the trailing window without writing the report",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Usage: "Maximum records to list (default: recent_limit)"},
		},
		Action: func(c *cli.Context) error {
			cfg, root, err := commandConfig(c, globalDir)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Recent(c.Context, cfg, ops.RecentInput{
				Root:  root,
				Limit: c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// parseCmd creates the parse command.
func parseCmd() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse one run record and print the extracted fields",
		ArgsUsage: "<file>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("exactly one record file is required"))
			}

			cwd, err := os.Getwd()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			entry, err := runlog.ParseFile(c.Args().First(), cwd)
			if err != nil {
				logging.Default().Warn("record unreadable, showing degraded entry", "file", entry.File, "error", err)
			}
			return outputJSON(entry)
		},
	}
}

// scheduleClock overrides the schedule command's clock; nil means time.Now.
var scheduleClock func() time.Time

// scheduleCmd creates the schedule command.
func scheduleCmd(globalDir string) *cli.Command {
	return &cli.Command{
		Name:  "schedule",
		Usage: "Run the weekly digest on a cron schedule until interrupted",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "cron", Usage: "Five-field cron expression (default: schedule from config)"},
			&cli.IntFlag{Name: "max-runs", Usage: "Stop after this many runs (0: run until interrupted)"},
		},
		Action: func(c *cli.Context) error {
			cfg, root, err := commandConfig(c, globalDir)
			if err != nil {
				return outputError(err)
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			output, err := ops.Schedule(ctx, cfg, ops.ScheduleInput{
				Root:    root,
				Cron:    c.String("cron"),
				MaxRuns: c.Int("max-runs"),
				Clock:   scheduleClock,
				OnReport: func(res *ops.WeeklyOutput, err error) {
					if err == nil {
						_ = outputLine(res.Path)
					}
				},
			})
			if err != nil && !errors.Is(err, errors.ErrCancelled) {
				return outputError(err)
			}
			logging.Default().Info("schedule stopped", "runs", output.Runs, "failed", output.Failed)
			return nil
		},
	}
}

// commandConfig resolves the repository root from --root (or the working
// directory) and loads the layered configuration for it.
func commandConfig(c *cli.Context, globalDir string) (*config.Config, string, error) {
	root := c.String("root")
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, "", errors.NewInternal(err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, "", errors.NewInvalidRequest(fmt.Sprintf("invalid root: %v", err))
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, "", errors.NewFileNotFound(root)
	}

	cfg, err := loadConfig(globalDir, root)
	if err != nil {
		return nil, "", err
	}
	return cfg, root, nil
}

// loadConfig loads and validates the configuration for root.
func loadConfig(globalDir, root string) (*config.Config, error) {
	cfg, err := config.LoadWithRepo(globalDir, root)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("config: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("config: %v", err))
	}
	return cfg, nil
}

// outputJSON writes v to stdout as indented JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputLine writes a single line to stdout.
func outputLine(s string) error {
	_, err := fmt.Fprintln(os.Stdout, s)
	return err
}

// outputError formats error for CLI.
func outputError(err error) error {
	var rErr *errors.RunlogError
	if stderrors.As(err, &rErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", rErr.Code, rErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
