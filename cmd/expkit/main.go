package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/expkit/expkit/internal/config"
	"github.com/expkit/expkit/internal/logging"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "expkit",
		Short: "Experiment toolkit - parameter sweeps with result bookkeeping",
		Long: `expkit runs an experiment pipeline under systematically varied
parameter assignments: single-dimension sweeps, independent named
searches, or full cartesian grids.

Run artifacts (run.log, the result database) are kept in the result
directory configured via expkit.yaml or --resultdir.`,
	}

	// Global flags
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase verbosity (repeatable)")
	rootCmd.PersistentFlags().CountP("quiet", "q", "decrease verbosity (repeatable)")
	rootCmd.PersistentFlags().String("config", ".", "directory containing expkit.yaml")
	rootCmd.PersistentFlags().String("resultdir", "", "where to store results (overrides config)")
	rootCmd.PersistentFlags().String("schema", "", "database schema used (overrides config)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newDBCmd(),
		newVerifyCmd(),
	)
	return rootCmd
}

// loadConfig loads configuration for the invocation and applies the
// --resultdir and --schema flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configDir, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	if dir, _ := cmd.Flags().GetString("resultdir"); dir != "" {
		cfg.ResultDir = dir
	}
	if schema, _ := cmd.Flags().GetString("schema"); schema != "" {
		cfg.Database.Schema = schema
	}
	return cfg, nil
}

// consoleLevel resolves the console log level: counted -v/-q flags take
// precedence over the configured level.
func consoleLevel(cmd *cobra.Command, cfg *config.Config) slog.Level {
	verbose, _ := cmd.Flags().GetCount("verbose")
	quiet, _ := cmd.Flags().GetCount("quiet")
	if verbose == 0 && quiet == 0 && cfg.Logging.Level != "" {
		return logging.ParseLevel(cfg.Logging.Level)
	}
	return logging.VerbosityLevel(verbose, quiet)
}

// consoleLogger builds a stderr-only logger for commands that do not keep
// a run log.
func consoleLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.NewLogger(consoleLevel(cmd, cfg), cmd.ErrOrStderr())
}
