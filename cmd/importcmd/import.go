// Package importcmd handles the statement import command.
package importcmd

import (
	"fmt"

	"ledgerkit/statement-csv/cmd/root"
	"ledgerkit/statement-csv/internal/batch"
	"ledgerkit/statement-csv/internal/export"
	"ledgerkit/statement-csv/internal/importer"
	"ledgerkit/statement-csv/internal/ingest"
	"ledgerkit/statement-csv/internal/logging"

	"github.com/spf13/cobra"
)

var (
	accountID string
	batchDir  string
)

// Cmd represents the import command.
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import a bank-statement CSV export",
	Long: `Import a bank-statement CSV export: column roles are inferred from the
header row, amounts and dates are normalized, and rows already imported
are skipped. With --dir, every .csv file in the directory is imported.`,
	RunE: importFunc,
}

func init() {
	Cmd.Flags().StringVar(&accountID, "account", "", "Account to attach imported transactions to")
	Cmd.Flags().StringVar(&batchDir, "dir", "", "Import every .csv file in this directory")
}

func importFunc(cmd *cobra.Command, args []string) error {
	var engineOpts []ingest.Option
	engineOpts = append(engineOpts, ingest.WithDelimiter(root.Cfg.Delimiter()))
	if accountID != "" {
		engineOpts = append(engineOpts, ingest.WithAccountID(accountID))
	}

	im := importer.New(root.Backend, root.Categories(), root.Cfg.Owner, root.Log, engineOpts...)

	if batchDir != "" {
		return importDirectory(cmd, im)
	}

	input := root.SharedFlags.Input
	if input == "" && len(args) > 0 {
		input = args[0]
	}
	if input == "" {
		return fmt.Errorf("no input given (use --input, --dir or a positional argument)")
	}

	result, accepted, err := im.ImportFile(cmd.Context(), input)
	if err != nil {
		return err
	}

	root.Log.Info("import summary",
		logging.F("file", input),
		logging.F("parsed", result.Parsed),
		logging.F("accepted", result.Accepted),
		logging.F("duplicates", result.Duplicates))

	if out := root.SharedFlags.Output; out != "" {
		if err := export.WriteFile(accepted, out, root.Cfg.Delimiter(), root.Log); err != nil {
			return err
		}
	}
	return nil
}

func importDirectory(cmd *cobra.Command, im *importer.Importer) error {
	summary, err := batch.NewRunner(im, root.Log).ImportDirectory(cmd.Context(), batchDir)
	if err != nil {
		return err
	}

	root.Log.Info("batch import summary",
		logging.F("dir", batchDir),
		logging.F("files", len(summary.Files)),
		logging.F("failed", summary.Failed),
		logging.F("parsed", summary.Parsed),
		logging.F("accepted", summary.Accepted),
		logging.F("duplicates", summary.Duplicates))

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d statement files failed", summary.Failed, len(summary.Files))
	}
	return nil
}
