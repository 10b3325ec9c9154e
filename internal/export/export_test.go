package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ledgerkit/statement-csv/internal/logging"
	"ledgerkit/statement-csv/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTransactions() []models.Transaction {
	balance := decimal.RequireFromString("17954.50")
	return []models.Transaction{
		{
			ID:          "tx-1",
			Date:        "2024-11-01",
			Description: "Coffee, beans",
			Amount:      decimal.RequireFromString("-45.5"),
			Balance:     &balance,
			Category:    "Groceries",
		},
		{
			ID:          "tx-2",
			Date:        "2024-11-02",
			Description: "Salary",
			Amount:      decimal.RequireFromString("15000"),
			Category:    "Uncategorized",
		},
	}
}

func TestWriteCanonicalCSV(t *testing.T) {
	var sb strings.Builder
	err := Write(sampleTransactions(), &sb, ',')
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Date,Description,Amount,Balance,Category", lines[0])

	// Embedded delimiters are quoted; amounts carry two decimal places; a
	// missing balance renders as empty.
	assert.Equal(t, `tx-1,2024-11-01,"Coffee, beans",-45.50,17954.50,Groceries`, lines[1])
	assert.Equal(t, "tx-2,2024-11-02,Salary,15000.00,,Uncategorized", lines[2])
}

func TestWriteCustomDelimiter(t *testing.T) {
	var sb strings.Builder
	err := Write(sampleTransactions(), &sb, ';')
	require.NoError(t, err)

	lines := strings.Split(sb.String(), "\n")
	assert.Equal(t, "ID;Date;Description;Amount;Balance;Category", lines[0])
	assert.Equal(t, "tx-1;2024-11-01;Coffee, beans;-45.50;17954.50;Groceries", lines[1])
}

func TestWriteEmptyInputProducesHeaderOnly(t *testing.T) {
	var sb strings.Builder
	err := Write(nil, &sb, ',')
	require.NoError(t, err)
	assert.Equal(t, "ID,Date,Description,Amount,Balance,Category\n", sb.String())
}

func TestWriteFileCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "statement.csv")

	err := WriteFile(sampleTransactions(), path, ',', logging.NewMockLogger())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "ID,Date,Description,Amount,Balance,Category"))
	assert.Contains(t, string(data), "tx-2")
}
