package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/spachava753/addressbook/internal/config"
)

var (
	cfgFile    string
	sourceKind string
	sourcePath string
	verbose    bool
	cfg        *config.Config
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "addressbook",
	Short: "Query contacts from a local address book",
	Long: `addressbook reads contacts from a local address book and prints them
as JSON, optionally filtered by one field with prefix matching.

Sources:
  sqlite       a SQLite database with contacts, names, phones and emails tables
  addressbook  the macOS Contacts database (needs Full Disk Access)
  vcard        an exported .vcf file`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// fields only prints static metadata.
		if cmd.Name() == "fields" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile, config.Overrides{
			SourceKind: sourceKind,
			SourcePath: sourcePath,
		})
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger, err = cfg.Log.NewLogger(cmd.ErrOrStderr(), verbose)
		if err != nil {
			return err
		}
		return nil
	},
}

// Execute runs the root command with a background context.
// Prefer ExecuteContext for signal-aware execution.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with the given context,
// enabling graceful shutdown when the context is cancelled.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.addressbook/config.toml)")
	rootCmd.PersistentFlags().StringVar(&sourceKind, "source", "", "source kind: sqlite, addressbook or vcard (overrides config)")
	rootCmd.PersistentFlags().StringVar(&sourcePath, "path", "", "source database or .vcf path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Keep stdout for JSON results.
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)
}
