// Package exportcmd handles the canonical CSV export command.
package exportcmd

import (
	"fmt"

	"ledgerkit/statement-csv/cmd/root"
	"ledgerkit/statement-csv/internal/export"
	"ledgerkit/statement-csv/internal/importer"

	"github.com/spf13/cobra"
)

// Cmd represents the export command.
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Write the stored transactions as canonical CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := root.SharedFlags.Output
		if out == "" && len(args) > 0 {
			out = args[0]
		}
		if out == "" {
			return fmt.Errorf("no output file given (use --output or a positional argument)")
		}

		loader := importer.NewLoader(root.Backend, root.Cfg.Owner)
		txs, applied, err := loader.Refresh(cmd.Context())
		if err != nil {
			return err
		}
		if !applied {
			// A concurrent refresh superseded this one; nothing to write.
			return nil
		}

		return export.WriteFile(txs, out, root.Cfg.Delimiter(), root.Log)
	},
}
