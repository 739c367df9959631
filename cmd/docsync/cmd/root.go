// Package cmd implements the docsync command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agentstation/docsync/internal/config"
	"github.com/agentstation/docsync/pkg/logging"
)

var (
	configFile string
	verbose    bool
	quiet      bool
	logFormat  string

	// cfg is populated by setupCommand before any subcommand runs.
	cfg *config.Config

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "docsync",
	Short: "Sync CSV files with a remote document database",
	Long: `Docsync reconciles rows of a CSV file with pages of a remote
document-database collection, keyed by a configurable composite identity.

Rows whose key is absent remotely are created; rows whose key matches an
existing page overwrite that page's mapped properties. Pull mode exports
the collection back to CSV.

The column-to-property mapping and the key columns are declared in a
YAML mapping file (docsync.yaml by default).`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupCommand,
}

// Execute adds all child commands to the root command and runs it.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
	rootCmd.Version = version

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Err(err).Msg("Run failed")
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default .docsync.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (auto, console, json)")
}

// setupCommand loads configuration and wires logging before any
// subcommand runs. Each run gets a fresh identifier so its log lines
// are correlatable.
func setupCommand(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}

	logCfg := &logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: "stderr",
	}
	switch {
	case verbose:
		logCfg.Level = "debug"
	case quiet:
		logCfg.Level = "warn"
	}
	if logFormat != "" {
		logCfg.Format = logFormat
	}
	logging.Configure(logCfg)

	ctx := logging.WithRunID(cmd.Context(), uuid.NewString())
	cmd.SetContext(ctx)
	return nil
}
