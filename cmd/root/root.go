// Package root contains the root command and the shared application
// wiring used by every subcommand.
package root

import (
	"fmt"

	"ledgerkit/statement-csv/internal/categorytree"
	"ledgerkit/statement-csv/internal/config"
	"ledgerkit/statement-csv/internal/logging"
	"ledgerkit/statement-csv/internal/store"

	"github.com/spf13/cobra"
)

// CommonFlags are the flags shared by multiple commands.
type CommonFlags struct {
	Input  string
	Output string
}

var (
	// Log is the shared logger instance for commands.
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cfg is the loaded application configuration.
	Cfg *config.Config

	// Backend is the persistence collaborator selected by configuration.
	Backend store.Store

	closeBackend func() error

	// SharedFlags are common flags accessible to all commands.
	SharedFlags = CommonFlags{}

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "statement-csv",
		Short: "Import bank-statement CSV exports and manage transaction categories.",
		Long: `statement-csv normalizes heterogeneous bank-statement CSV exports into
canonical transactions, deduplicates them against prior imports, and
maintains a hierarchical category tree with cascading renames and
deletes.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			Cfg = cfg
			Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

			if cfg.Store.Path == "" {
				Backend = store.NewMemoryStore()
				closeBackend = nil
				Log.Warn("no store path configured, using in-memory store")
				return nil
			}

			sqlite, err := store.OpenSQLite(cfg.Store.Path)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			Backend = sqlite
			closeBackend = sqlite.Close
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if closeBackend != nil {
				return closeBackend()
			}
			return nil
		},
	}
)

// Categories builds the category service for the configured owner.
func Categories() *categorytree.Service {
	return categorytree.NewService(Backend, Cfg.Owner,
		categorytree.WithSystemName(Cfg.Category.SystemName),
		categorytree.WithLogger(Log))
}

// Init registers the root command's persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
}
