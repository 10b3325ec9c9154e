package store

import (
	"context"
	"testing"

	"ledgerkit/statement-csv/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestMemoryStoreTransactionRoundTrip(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	err := st.InsertTransactions(ctx, "owner", []models.Transaction{
		{ID: "tx-2", Date: "2024-11-02", Description: "B", Amount: decimal.NewFromInt(2)},
		{ID: "tx-1", Date: "2024-11-01", Description: "A", Amount: decimal.NewFromInt(1)},
	})
	require.NoError(t, err)

	txs, err := st.ListTransactions(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, txs, 2)

	// Listing is ordered by date.
	assert.Equal(t, "tx-1", txs[0].ID)
	assert.Equal(t, "tx-2", txs[1].ID)

	// Owners are isolated.
	other, err := st.ListTransactions(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryStoreRelabelAndReset(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, st.InsertTransactions(ctx, "owner", []models.Transaction{
		{ID: "tx-1", Date: "2024-11-01", Category: "Transport"},
		{ID: "tx-2", Date: "2024-11-02", Category: "Transport → Fuel"},
	}))

	require.NoError(t, st.RelabelCategory(ctx, "owner", "Transport", "Commute"))
	txs, err := st.ListTransactions(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, "Commute", txs[0].Category)
	assert.Equal(t, "Transport → Fuel", txs[1].Category)

	require.NoError(t, st.ResetCategory(ctx, "owner", "Transport → Fuel", "Uncategorized"))
	txs, err = st.ListTransactions(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, "Uncategorized", txs[1].Category)
}

func TestMemoryStoreDeleteTransaction(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, st.InsertTransactions(ctx, "owner", []models.Transaction{
		{ID: "tx-1", Date: "2024-11-01"},
		{ID: "tx-2", Date: "2024-11-02"},
	}))

	require.NoError(t, st.DeleteTransaction(ctx, "owner", "tx-1"))
	txs, err := st.ListTransactions(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "tx-2", txs[0].ID)

	// Deleting an unknown id is a no-op.
	require.NoError(t, st.DeleteTransaction(ctx, "owner", "ghost"))
}

func TestMemoryStoreCategoryCascadeDelete(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, st.InsertCategory(ctx, models.Category{ID: "c1", OwnerID: "owner", Name: "Transport"}))
	require.NoError(t, st.InsertCategory(ctx, models.Category{ID: "c2", OwnerID: "owner", Name: "Fuel", ParentID: strptr("c1")}))
	require.NoError(t, st.InsertCategory(ctx, models.Category{ID: "c3", OwnerID: "owner", Name: "Diesel", ParentID: strptr("c2")}))
	require.NoError(t, st.InsertCategory(ctx, models.Category{ID: "c4", OwnerID: "owner", Name: "Groceries"}))

	require.NoError(t, st.InsertTransactions(ctx, "owner", []models.Transaction{
		{ID: "tx-1", Date: "2024-11-01", Category: "Transport → Fuel", CategoryID: strptr("c2")},
		{ID: "tx-2", Date: "2024-11-02", Category: "Groceries", CategoryID: strptr("c4")},
	}))

	require.NoError(t, st.DeleteCategory(ctx, "owner", "c1"))

	cats, err := st.ListCategories(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "c4", cats[0].ID)

	// The dangling reference is cleared, mirroring ON DELETE SET NULL.
	txs, err := st.ListTransactions(ctx, "owner")
	require.NoError(t, err)
	assert.Nil(t, txs[0].CategoryID)
	require.NotNil(t, txs[1].CategoryID)
	assert.Equal(t, "c4", *txs[1].CategoryID)
}

func TestMemoryStoreSiblingNameUniqueness(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, st.InsertCategory(ctx, models.Category{ID: "c1", OwnerID: "owner", Name: "Fuel"}))
	err := st.InsertCategory(ctx, models.Category{ID: "c2", OwnerID: "owner", Name: "Fuel"})
	assert.Error(t, err)

	// The same name under a different parent is fine.
	require.NoError(t, st.InsertCategory(ctx, models.Category{ID: "c3", OwnerID: "owner", Name: "Transport"}))
	require.NoError(t, st.InsertCategory(ctx, models.Category{ID: "c4", OwnerID: "owner", Name: "Fuel", ParentID: strptr("c3")}))
}

func TestMemoryStoreSetTransactionCategory(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, st.InsertTransactions(ctx, "owner", []models.Transaction{
		{ID: "tx-1", Date: "2024-11-01", Category: "Uncategorized"},
	}))

	require.NoError(t, st.SetTransactionCategory(ctx, "owner", "tx-1", models.CategoryRef{
		ID: strptr("c1"), Label: "Transport → Fuel",
	}))
	txs, err := st.ListTransactions(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, "Transport → Fuel", txs[0].Category)
	require.NotNil(t, txs[0].CategoryID)
	assert.Equal(t, "c1", *txs[0].CategoryID)

	err = st.SetTransactionCategory(ctx, "owner", "ghost", models.CategoryRef{Label: "x"})
	assert.Error(t, err)
}
