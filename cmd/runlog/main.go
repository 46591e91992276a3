package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/runlog/internal/config"
	"github.com/hpungsan/runlog/internal/logging"
	"github.com/hpungsan/runlog/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"write": true, "weekly": true, "recent": true,
	"parse": true, "schedule": true,
	"help": true,
}

// globalValueFlags are global flags that take a separate value argument.
var globalValueFlags = map[string]bool{
	"--log-level": true, "--root": true,
}

// commandArg returns the first argument that is not a global flag (or a
// global flag's value), or "" when there is none.
func commandArg(args []string) string {
	for i := 1; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			return arg
		}
		if globalValueFlags[arg] {
			i++
		}
	}
	return ""
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	if isHelpOrVersion() {
		return true
	}
	return cliCommands[commandArg(os.Args)]
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if f is a terminal (not piped or redirected).
func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
                    _
   _ __ _   _ _ __ | | ___   __ _
  | '__| | | | '_ \| |/ _ \ / _' |
  | |  | |_| | | | | | (_) | (_| |
  |_|   \__,_|_| |_|_|\___/ \__, |
                            |___/

  Run records and weekly health digests

  Usage: runlog <command> [options]
         runlog --help

  MCP server mode requires piped input.`)
}

// globalConfigDir returns ~/.runlog, or "" when the home directory is unknown.
func globalConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, config.DirName)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal(os.Stdin) {
		printBanner()
		return
	}

	globalDir := globalConfigDir()

	// CLI mode: known subcommand, help or version
	if isCLIMode() {
		app := newCLIApp(globalDir)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal(os.Stdin) {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'runlog --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default). Logs go to stderr; stdout carries the protocol.
	level, err := logging.ParseLevel(os.Getenv("RUNLOG_LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logging.New(os.Stderr, level, false))

	root, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine working directory: %v\n", err)
		os.Exit(1)
	}

	cfg, err := loadConfig(globalDir, root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		logging.Default().Warn("ignoring unknown disabled_tools entries", "tools", unknown)
	}

	if err := mcp.Run(cfg, root, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
