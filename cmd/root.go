// Package cmd provides the CLI commands for rollcall.
package cmd

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/rollcall/internal/config"
	"github.com/manav03panchal/rollcall/internal/errors"
	"github.com/manav03panchal/rollcall/internal/output"
	"github.com/manav03panchal/rollcall/internal/parser"
	"github.com/manav03panchal/rollcall/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat  string
	flagColor   string
	flagDebug   bool
	flagConfig  string
	flagDataDir string
	flagBackend string
)

// ctx is the shared runtime context.
var ctx *runtime.Context

// now is the reference time for relative dates. Tests pin it.
var now = time.Now

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rollcall",
	Short: "Attendance ledger for multi-department clubs",
	Long: `Rollcall records who attended which practice session, with what status,
and derives participation statistics per member, department and date.

Examples:
  rollcall member add Alice House
  rollcall checkin Alice, Bob, Carol
  rollcall checkin Dave --status late --date yesterday
  rollcall modify 2024-03-01 Dave present
  rollcall summary member Alice
  rollcall cumulative --until 2024-03-31 --department House`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for commands that never touch the ledger
		if skipRuntime(cmd) {
			return nil
		}

		opts := runtime.DefaultOptions()
		opts.ConfigPath = flagConfig
		opts.Overrides = config.Overrides{
			DataDir: flagDataDir,
			Backend: flagBackend,
		}
		opts.Format = output.ParseFormat(flagFormat)
		opts.ColorMode = output.ParseColorMode(flagColor)
		opts.Debug = flagDebug
		opts.Writer = cmd.OutOrStdout()

		var err error
		ctx, err = runtime.New(opts)
		return err
	},
	RunE: runMemberList,
}

// skipRuntime reports whether cmd runs without opening the data directory.
func skipRuntime(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "completion", "help", "version", "departments", "config":
		return true
	}
	return cmd.HasParent() && cmd.Parent().Name() == "config"
}

// Execute runs the command line and reports any error.
func Execute() error {
	return execute(os.Args[1:], os.Stdout, os.Stderr)
}

// execute runs rootCmd with args, renders a failure on stderr (or stdout as
// JSON) and always releases the runtime, even when the command failed.
func execute(args []string, stdout, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err != nil {
		printError(stderr, err)
	}

	if ctx != nil {
		if cerr := ctx.Close(); cerr != nil && err == nil {
			err = cerr
			printError(stderr, err)
		}
		ctx = nil
	}
	return err
}

func printError(stderr io.Writer, err error) {
	if ctx != nil && ctx.IsJSON() {
		var unknown []string
		if um, ok := errors.AsUnknownMembers(err); ok {
			unknown = um.Names
		}
		_ = ctx.JSONFormatter().PrintError("error", err.Error(), errors.GetSuggestion(err), unknown)
		return
	}
	io.WriteString(stderr, "Error: "+errors.FormatByCategory(err)+"\n")
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"Config file (default $XDG_CONFIG_HOME/rollcall/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "",
		"Data directory (default $XDG_DATA_HOME/rollcall)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "",
		"Storage backend: file, badger, sqlite")

	rootCmd.RegisterFlagCompletionFunc("format", fixedCompletions("cli", "json", "plain"))
	rootCmd.RegisterFlagCompletionFunc("color", fixedCompletions("auto", "always", "never"))
	rootCmd.RegisterFlagCompletionFunc("backend", fixedCompletions("file", "badger", "sqlite"))

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("rollcall %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}

// parseDate normalizes a date argument or flag to YYYY-MM-DD.
func parseDate(field, value string) (string, error) {
	date, err := parser.ParseDate(field, value, now())
	if err != nil {
		return "", dateError(err)
	}
	return date, nil
}

// parseOptionalDate is parseDate for flags that may be left empty.
func parseOptionalDate(field, value string) (string, error) {
	date, err := parser.ParseOptionalDate(field, value, now())
	if err != nil {
		return "", dateError(err)
	}
	return date, nil
}

func dateError(err error) error {
	var pe *parser.DateParseError
	if errors.As(err, &pe) {
		return pe.ToUserError()
	}
	return err
}
