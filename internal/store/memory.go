package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ledgerkit/statement-csv/internal/models"
)

// MemoryStore is an in-memory Store used by tests and as the fallback
// when no database path is configured. Its cascade semantics mirror the
// SQLite schema: deleting a category removes its descendants and clears
// the category reference on affected transactions.
type MemoryStore struct {
	mu           sync.Mutex
	transactions map[string][]models.Transaction // keyed by owner, insertion order
	categories   map[string][]models.Category    // keyed by owner

	// FailOn, when set, makes the named operation return an error. Used
	// by tests exercising mid-cascade store failures.
	FailOn string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string][]models.Transaction),
		categories:   make(map[string][]models.Category),
	}
}

func (m *MemoryStore) fail(op string) error {
	if m.FailOn == op {
		return fmt.Errorf("injected failure in %s", op)
	}
	return nil
}

func (m *MemoryStore) InsertTransactions(ctx context.Context, owner string, txs []models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("InsertTransactions"); err != nil {
		return err
	}
	m.transactions[owner] = append(m.transactions[owner], txs...)
	return nil
}

func (m *MemoryStore) ListTransactions(ctx context.Context, owner string) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListTransactions"); err != nil {
		return nil, err
	}
	out := make([]models.Transaction, len(m.transactions[owner]))
	copy(out, m.transactions[owner])
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *MemoryStore) RelabelCategory(ctx context.Context, owner, oldLabel, newLabel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("RelabelCategory"); err != nil {
		return err
	}
	txs := m.transactions[owner]
	for i := range txs {
		if txs[i].Category == oldLabel {
			txs[i].Category = newLabel
		}
	}
	return nil
}

func (m *MemoryStore) ResetCategory(ctx context.Context, owner, label, systemLabel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ResetCategory"); err != nil {
		return err
	}
	txs := m.transactions[owner]
	for i := range txs {
		if txs[i].Category == label {
			txs[i].Category = systemLabel
		}
	}
	return nil
}

func (m *MemoryStore) SetTransactionCategory(ctx context.Context, owner, txID string, ref models.CategoryRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("SetTransactionCategory"); err != nil {
		return err
	}
	txs := m.transactions[owner]
	for i := range txs {
		if txs[i].ID == txID {
			txs[i].Category = ref.Label
			txs[i].CategoryID = ref.ID
			return nil
		}
	}
	return fmt.Errorf("transaction %s not found", txID)
}

func (m *MemoryStore) DeleteTransaction(ctx context.Context, owner, txID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("DeleteTransaction"); err != nil {
		return err
	}
	txs := m.transactions[owner]
	for i := range txs {
		if txs[i].ID == txID {
			m.transactions[owner] = append(txs[:i:i], txs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MemoryStore) ListCategories(ctx context.Context, owner string) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListCategories"); err != nil {
		return nil, err
	}
	out := make([]models.Category, len(m.categories[owner]))
	copy(out, m.categories[owner])
	return out, nil
}

func (m *MemoryStore) InsertCategory(ctx context.Context, category models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("InsertCategory"); err != nil {
		return err
	}
	for _, c := range m.categories[category.OwnerID] {
		if c.Name == category.Name && equalParent(c.ParentID, category.ParentID) {
			return fmt.Errorf("category %q already exists under the same parent", category.Name)
		}
	}
	m.categories[category.OwnerID] = append(m.categories[category.OwnerID], category)
	return nil
}

func (m *MemoryStore) UpdateCategory(ctx context.Context, category models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UpdateCategory"); err != nil {
		return err
	}
	cats := m.categories[category.OwnerID]
	for i := range cats {
		if cats[i].ID == category.ID {
			cats[i].Name = category.Name
			cats[i].ParentID = category.ParentID
			return nil
		}
	}
	return fmt.Errorf("category %s not found", category.ID)
}

func (m *MemoryStore) DeleteCategory(ctx context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("DeleteCategory"); err != nil {
		return err
	}

	// Collect the delete scope: the node plus every transitive child.
	doomed := map[string]struct{}{id: {}}
	for changed := true; changed; {
		changed = false
		for _, c := range m.categories[owner] {
			if _, gone := doomed[c.ID]; gone {
				continue
			}
			if c.ParentID != nil {
				if _, parentGone := doomed[*c.ParentID]; parentGone {
					doomed[c.ID] = struct{}{}
					changed = true
				}
			}
		}
	}

	kept := m.categories[owner][:0]
	for _, c := range m.categories[owner] {
		if _, gone := doomed[c.ID]; !gone {
			kept = append(kept, c)
		}
	}
	m.categories[owner] = kept

	// Mirror ON DELETE SET NULL on transaction references.
	txs := m.transactions[owner]
	for i := range txs {
		if txs[i].CategoryID != nil {
			if _, gone := doomed[*txs[i].CategoryID]; gone {
				txs[i].CategoryID = nil
			}
		}
	}
	return nil
}

func equalParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
