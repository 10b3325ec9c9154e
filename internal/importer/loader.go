package importer

import (
	"context"
	"sync"

	"ledgerkit/statement-csv/internal/errs"
	"ledgerkit/statement-csv/internal/models"
	"ledgerkit/statement-csv/internal/store"
)

// Loader refreshes a transaction view. Each refresh is tagged with a
// generation marker; a result whose generation has been superseded by a
// newer refresh (e.g. the caller switched accounts mid-fetch) is dropped
// instead of applied.
type Loader struct {
	mu         sync.Mutex
	store      store.TransactionStore
	owner      string
	generation uint64
	snapshot   []models.Transaction
}

// NewLoader creates a Loader over the given store and owner.
func NewLoader(st store.TransactionStore, owner string) *Loader {
	return &Loader{store: st, owner: owner}
}

// Refresh fetches the owner's transactions. The second return value is
// false when the result was stale on arrival and therefore discarded.
func (l *Loader) Refresh(ctx context.Context) ([]models.Transaction, bool, error) {
	l.mu.Lock()
	l.generation++
	gen := l.generation
	l.mu.Unlock()

	txs, err := l.store.ListTransactions(ctx, l.owner)
	if err != nil {
		return nil, false, &errs.StoreError{Op: "transaction.list", Err: err}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		return nil, false, nil
	}
	l.snapshot = txs
	return txs, true, nil
}

// Snapshot returns the most recently applied result.
func (l *Loader) Snapshot() []models.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Transaction, len(l.snapshot))
	copy(out, l.snapshot)
	return out
}
