// Package store defines the persistence collaborator consumed by the
// ingestion and category engines, plus its SQLite and in-memory
// implementations. Every call may fail with a store-reported error;
// callers tag failures with the logical operation via errs.StoreError.
package store

import (
	"context"

	"ledgerkit/statement-csv/internal/models"
)

// TransactionStore is keyed CRUD over transactions, scoped to an owner.
type TransactionStore interface {
	// InsertTransactions persists a batch, preserving input order.
	InsertTransactions(ctx context.Context, owner string, txs []models.Transaction) error

	// ListTransactions returns the owner's transactions ordered by date,
	// then insertion order.
	ListTransactions(ctx context.Context, owner string) ([]models.Transaction, error)

	// RelabelCategory rewrites the denormalized category label of every
	// transaction whose label exactly equals oldLabel.
	RelabelCategory(ctx context.Context, owner, oldLabel, newLabel string) error

	// ResetCategory resets every transaction whose label exactly equals
	// label to the system label. The category reference itself is cleared
	// by the store's delete cascade, not here.
	ResetCategory(ctx context.Context, owner, label, systemLabel string) error

	// SetTransactionCategory updates one transaction's category reference
	// and denormalized label. A nil ref ID clears the reference.
	SetTransactionCategory(ctx context.Context, owner, txID string, ref models.CategoryRef) error

	// DeleteTransaction removes one transaction by id.
	DeleteTransaction(ctx context.Context, owner, txID string) error
}

// CategoryStore is keyed CRUD over an owner's category forest.
type CategoryStore interface {
	// ListCategories returns the owner's flat category collection.
	ListCategories(ctx context.Context, owner string) ([]models.Category, error)

	// InsertCategory persists a new category.
	InsertCategory(ctx context.Context, category models.Category) error

	// UpdateCategory persists a rename and/or reparent.
	UpdateCategory(ctx context.Context, category models.Category) error

	// DeleteCategory removes a category and, by cascade, all of its
	// descendants. Transactions referencing removed categories have their
	// reference cleared by the same cascade.
	DeleteCategory(ctx context.Context, owner, id string) error
}

// Store is the full persistence surface.
type Store interface {
	TransactionStore
	CategoryStore
}
