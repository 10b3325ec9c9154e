// Package export writes canonical transactions back out as CSV, the
// normalized counterpart of whatever layout they were ingested from.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"ledgerkit/statement-csv/internal/fileutils"
	"ledgerkit/statement-csv/internal/logging"
	"ledgerkit/statement-csv/internal/models"

	"github.com/gocarina/gocsv"
)

// row is the canonical export layout. Amounts carry exactly two decimal
// places.
type row struct {
	ID          string `csv:"ID"`
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Balance     string `csv:"Balance"`
	Category    string `csv:"Category"`
}

func toRow(t models.Transaction) row {
	balance := ""
	if t.Balance != nil {
		balance = t.Balance.StringFixed(2)
	}
	return row{
		ID:          t.ID,
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount.StringFixed(2),
		Balance:     balance,
		Category:    t.Category,
	}
}

// Write renders the transactions as canonical CSV to w.
func Write(transactions []models.Transaction, w io.Writer, delimiter rune) error {
	rows := make([]row, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, toRow(t))
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter

	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteFile writes the canonical CSV to path, creating parent directories
// as needed.
func WriteFile(transactions []models.Transaction, path string, delimiter rune, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	logger.Info("writing canonical CSV",
		logging.F("file", path),
		logging.F("count", len(transactions)))

	file, err := fileutils.CreateFile(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("failed to close file")
		}
	}()

	return Write(transactions, file, delimiter)
}
