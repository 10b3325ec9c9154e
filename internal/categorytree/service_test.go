package categorytree

import (
	"context"
	"fmt"
	"testing"

	"ledgerkit/statement-csv/internal/errs"
	"ledgerkit/statement-csv/internal/logging"
	"ledgerkit/statement-csv/internal/models"
	"ledgerkit/statement-csv/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwner = "owner"

func newTestService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	n := 0
	svc := NewService(st, testOwner,
		WithLogger(logging.NewMockLogger()),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("cat-%d", n)
		}))
	return svc, st
}

func seedTx(t *testing.T, st *store.MemoryStore, id, label string) {
	t.Helper()
	err := st.InsertTransactions(context.Background(), testOwner, []models.Transaction{{
		ID:          id,
		Date:        "2024-11-01",
		Description: "seed " + id,
		Amount:      decimal.NewFromInt(10),
		Category:    label,
	}})
	require.NoError(t, err)
}

func labelsByID(t *testing.T, st *store.MemoryStore) map[string]string {
	t.Helper()
	txs, err := st.ListTransactions(context.Background(), testOwner)
	require.NoError(t, err)
	labels := make(map[string]string, len(txs))
	for _, tx := range txs {
		labels[tx.ID] = tx.Category
	}
	return labels
}

func TestEnsureSystemCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	system, err := svc.EnsureSystemCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Uncategorized", system.Name)
	assert.True(t, system.IsSystem)

	// Second call returns the existing bucket, never a second one.
	again, err := svc.EnsureSystemCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, system.ID, again.ID)
}

func TestCreateValidatesName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "   ", nil)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))

	created, err := svc.Create(ctx, "  Transport  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "Transport", created.Name)
	assert.False(t, created.IsSystem)
}

func TestCreateDuplicateSiblingRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "Transport", nil)
	require.NoError(t, err)

	_, err = svc.Create(ctx, "Transport", nil)
	require.Error(t, err)
	assert.True(t, errs.IsStore(err))
}

func TestUpdateRenameCascadesExactLabels(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	transport, err := svc.Create(ctx, "Transport", nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Fuel", &transport.ID)
	require.NoError(t, err)
	travel, err := svc.Create(ctx, "Travel", nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Fuel", &travel.ID)
	require.NoError(t, err)

	seedTx(t, st, "tx-1", "Transport")
	seedTx(t, st, "tx-2", "Transport → Fuel")
	seedTx(t, st, "tx-3", "Travel → Fuel") // already under the sibling tree
	seedTx(t, st, "tx-4", "transport → fuel") // case differs, no exact match

	err = svc.Update(ctx, transport.ID, UpdateParams{Name: "Commute"})
	require.NoError(t, err)

	labels := labelsByID(t, st)
	assert.Equal(t, "Commute", labels["tx-1"])
	assert.Equal(t, "Commute → Fuel", labels["tx-2"])
	assert.Equal(t, "Travel → Fuel", labels["tx-3"])
	assert.Equal(t, "transport → fuel", labels["tx-4"])
}

func TestUpdateReparentCascadesDescendantPaths(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	transport, err := svc.Create(ctx, "Transport", nil)
	require.NoError(t, err)
	fuel, err := svc.Create(ctx, "Fuel", &transport.ID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Diesel", &fuel.ID)
	require.NoError(t, err)
	household, err := svc.Create(ctx, "Household", nil)
	require.NoError(t, err)

	seedTx(t, st, "tx-1", "Transport → Fuel")
	seedTx(t, st, "tx-2", "Transport → Fuel → Diesel")

	err = svc.Update(ctx, fuel.ID, UpdateParams{Name: "Fuel", ParentID: &household.ID})
	require.NoError(t, err)

	labels := labelsByID(t, st)
	assert.Equal(t, "Household → Fuel", labels["tx-1"])
	assert.Equal(t, "Household → Fuel → Diesel", labels["tx-2"])
}

func TestUpdateValidations(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	system, err := svc.EnsureSystemCategory(ctx)
	require.NoError(t, err)
	transport, err := svc.Create(ctx, "Transport", nil)
	require.NoError(t, err)
	fuel, err := svc.Create(ctx, "Fuel", &transport.ID)
	require.NoError(t, err)

	ghost := "ghost"
	tests := []struct {
		name   string
		id     string
		params UpdateParams
		reason string
	}{
		{"unknown id", "nope", UpdateParams{Name: "X"}, errs.ReasonNotFound},
		{"system category", system.ID, UpdateParams{Name: "X"}, errs.ReasonSystemProtection},
		{"empty name", transport.ID, UpdateParams{Name: "  "}, errs.ReasonRequiredField},
		{"self parent", transport.ID, UpdateParams{Name: "Transport", ParentID: &transport.ID}, errs.ReasonSelfReference},
		{"unknown parent", transport.ID, UpdateParams{Name: "Transport", ParentID: &ghost}, errs.ReasonNotFound},
		{"descendant parent", transport.ID, UpdateParams{Name: "Transport", ParentID: &fuel.ID}, errs.ReasonCyclicReparent},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Update(ctx, tc.id, tc.params)
			require.Error(t, err)
			var verr *errs.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.reason, verr.Reason)
		})
	}
}

func TestDeleteCascadesAndResetsLabels(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	_, err := svc.EnsureSystemCategory(ctx)
	require.NoError(t, err)
	transport, err := svc.Create(ctx, "Transport", nil)
	require.NoError(t, err)
	fuel, err := svc.Create(ctx, "Fuel", &transport.ID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Diesel", &fuel.ID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Groceries", nil)
	require.NoError(t, err)

	seedTx(t, st, "tx-1", "Transport")
	seedTx(t, st, "tx-2", "Transport → Fuel")
	seedTx(t, st, "tx-3", "Transport → Fuel → Diesel")
	seedTx(t, st, "tx-4", "Groceries")

	err = svc.Delete(ctx, transport.ID)
	require.NoError(t, err)

	labels := labelsByID(t, st)
	assert.Equal(t, "Uncategorized", labels["tx-1"])
	assert.Equal(t, "Uncategorized", labels["tx-2"])
	assert.Equal(t, "Uncategorized", labels["tx-3"])
	assert.Equal(t, "Groceries", labels["tx-4"])

	// The subtree is gone from the store.
	cats, err := st.ListCategories(ctx, testOwner)
	require.NoError(t, err)
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"Uncategorized", "Groceries"}, names)
}

func TestDeleteValidations(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	system, err := svc.EnsureSystemCategory(ctx)
	require.NoError(t, err)

	err = svc.Delete(ctx, "nope")
	require.Error(t, err)
	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, errs.ReasonNotFound, verr.Reason)

	err = svc.Delete(ctx, system.ID)
	require.Error(t, err)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, errs.ReasonSystemProtection, verr.Reason)
}

func TestDeleteSurfacesMidCascadeStoreFailure(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	_, err := svc.EnsureSystemCategory(ctx)
	require.NoError(t, err)
	transport, err := svc.Create(ctx, "Transport", nil)
	require.NoError(t, err)
	seedTx(t, st, "tx-1", "Transport")

	st.FailOn = "ResetCategory"
	err = svc.Delete(ctx, transport.ID)
	require.Error(t, err)
	assert.True(t, errs.IsStore(err))

	// Validation happened before mutation; the delete itself went through
	// and a retry of the reset converges.
	st.FailOn = ""
	require.NoError(t, st.ResetCategory(ctx, testOwner, "Transport", "Uncategorized"))
	assert.Equal(t, "Uncategorized", labelsByID(t, st)["tx-1"])
}

func TestOptionsOrderingAndPlaceholder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Empty collection synthesizes a placeholder system option.
	options, err := svc.Options(ctx)
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "Uncategorized", options[0].Label)
	assert.True(t, options[0].IsSystem)
	assert.Empty(t, options[0].ID)

	_, err = svc.EnsureSystemCategory(ctx)
	require.NoError(t, err)
	transport, err := svc.Create(ctx, "Transport", nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Fuel", &transport.ID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "aardvark club", nil)
	require.NoError(t, err)

	options, err = svc.Options(ctx)
	require.NoError(t, err)
	require.Len(t, options, 4)

	// System first, then case-insensitive by full path label.
	assert.Equal(t, "Uncategorized", options[0].Label)
	assert.True(t, options[0].IsSystem)
	assert.Equal(t, "aardvark club", options[1].Label)
	assert.Equal(t, "Transport", options[2].Label)
	assert.Equal(t, "Transport → Fuel", options[3].Label)
}

func TestSystemLabelFallsBackToDefault(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	label, err := svc.SystemLabel(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Uncategorized", label)
}

func TestSystemLabelHonorsConfiguredName(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewService(st, testOwner,
		WithSystemName("Sonstiges"),
		WithLogger(logging.NewMockLogger()))
	ctx := context.Background()

	system, err := svc.EnsureSystemCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sonstiges", system.Name)

	label, err := svc.SystemLabel(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sonstiges", label)
}

func TestSetTransactionCategory(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	transport, err := svc.Create(ctx, "Transport", nil)
	require.NoError(t, err)
	fuel, err := svc.Create(ctx, "Fuel", &transport.ID)
	require.NoError(t, err)
	seedTx(t, st, "tx-1", "Uncategorized")

	err = svc.SetTransactionCategory(ctx, "tx-1", models.CategoryRef{ID: &fuel.ID})
	require.NoError(t, err)
	assert.Equal(t, "Transport → Fuel", labelsByID(t, st)["tx-1"])

	// A nil ref stores a legacy label and clears the reference.
	err = svc.SetTransactionCategory(ctx, "tx-1", models.CategoryRef{Label: "Old Import Label"})
	require.NoError(t, err)
	txs, err := st.ListTransactions(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Old Import Label", txs[0].Category)
	assert.Nil(t, txs[0].CategoryID)

	// Unknown category ids are rejected before any store write.
	unknown := "nope"
	err = svc.SetTransactionCategory(ctx, "tx-1", models.CategoryRef{ID: &unknown})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}
