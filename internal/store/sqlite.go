package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"ledgerkit/statement-csv/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

const schemaVersion = 1

// Amounts are stored as decimal text, never as REAL, so sums over
// thousands of rows stay exact.
const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_meta (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
	id        TEXT PRIMARY KEY,
	owner_id  TEXT NOT NULL,
	name      TEXT NOT NULL,
	parent_id TEXT REFERENCES categories(id) ON DELETE CASCADE,
	is_system INTEGER NOT NULL DEFAULT 0,
	UNIQUE(owner_id, parent_id, name)
);

CREATE TABLE IF NOT EXISTS transactions (
	id          TEXT PRIMARY KEY,
	owner_id    TEXT NOT NULL,
	date        TEXT NOT NULL,
	description TEXT NOT NULL,
	amount      TEXT NOT NULL,
	balance     TEXT,
	category    TEXT NOT NULL,
	category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
	account_id  TEXT,
	seq         INTEGER
);

-- UNIQUE treats NULLs as distinct, so root categories need their own
-- uniqueness index to keep sibling names unique at the top level too.
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_root_name
	ON categories(owner_id, name) WHERE parent_id IS NULL;

CREATE INDEX IF NOT EXISTS idx_transactions_owner_date ON transactions(owner_id, date);
CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(owner_id, category);
CREATE INDEX IF NOT EXISTS idx_categories_owner ON categories(owner_id);
`

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB

	seqMu sync.Mutex
	seq   int64
}

// OpenSQLite opens (or creates) the database at path and ensures the
// schema is at the current version.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schemaV1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_meta").Scan(&count); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("check schema version: %w", err)
	}
	if count == 0 {
		if _, err := db.Exec("INSERT INTO schema_meta (version) VALUES (?)", schemaVersion); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("record schema version: %w", err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := db.QueryRow("SELECT COALESCE(MAX(seq), 0) FROM transactions").Scan(&s.seq); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("read insert sequence: %w", err)
	}

	return s, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) nextSeq() int64 {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	s.seq++
	return s.seq
}

// InsertTransactions persists a batch inside a single transaction so a
// partial import is rolled back on error.
func (s *SQLiteStore) InsertTransactions(ctx context.Context, owner string, txs []models.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback is a no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (id, owner_id, date, description, amount, balance, category, category_id, account_id, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txs {
		var balance *string
		if t.Balance != nil {
			b := t.Balance.String()
			balance = &b
		}
		if _, err := stmt.ExecContext(ctx, t.ID, owner, t.Date, t.Description,
			t.Amount.String(), balance, t.Category, t.CategoryID, t.AccountID, s.nextSeq()); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListTransactions returns the owner's transactions ordered by date, then
// insertion order.
func (s *SQLiteStore) ListTransactions(ctx context.Context, owner string) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, description, amount, balance, category, category_id, account_id
		FROM transactions WHERE owner_id = ?
		ORDER BY date, seq
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var amount string
		var balance sql.NullString
		var categoryID, accountID sql.NullString
		if err := rows.Scan(&t.ID, &t.Date, &t.Description, &amount, &balance,
			&t.Category, &categoryID, &accountID); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("decode amount for %s: %w", t.ID, err)
		}
		if balance.Valid {
			b, err := decimal.NewFromString(balance.String)
			if err != nil {
				return nil, fmt.Errorf("decode balance for %s: %w", t.ID, err)
			}
			t.Balance = &b
		}
		if categoryID.Valid {
			t.CategoryID = &categoryID.String
		}
		if accountID.Valid {
			t.AccountID = &accountID.String
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// RelabelCategory rewrites labels matching exactly oldLabel.
func (s *SQLiteStore) RelabelCategory(ctx context.Context, owner, oldLabel, newLabel string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET category = ? WHERE owner_id = ? AND category = ?`,
		newLabel, owner, oldLabel)
	if err != nil {
		return fmt.Errorf("relabel %q: %w", oldLabel, err)
	}
	return nil
}

// ResetCategory resets labels matching exactly label to the system label.
func (s *SQLiteStore) ResetCategory(ctx context.Context, owner, label, systemLabel string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET category = ? WHERE owner_id = ? AND category = ?`,
		systemLabel, owner, label)
	if err != nil {
		return fmt.Errorf("reset %q: %w", label, err)
	}
	return nil
}

// SetTransactionCategory updates one transaction's category reference and
// denormalized label.
func (s *SQLiteStore) SetTransactionCategory(ctx context.Context, owner, txID string, ref models.CategoryRef) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET category = ?, category_id = ? WHERE owner_id = ? AND id = ?`,
		ref.Label, ref.ID, owner, txID)
	if err != nil {
		return fmt.Errorf("set category for %s: %w", txID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set category for %s: %w", txID, err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s not found", txID)
	}
	return nil
}

// DeleteTransaction removes one transaction by id.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, owner, txID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE owner_id = ? AND id = ?`, owner, txID)
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", txID, err)
	}
	return nil
}

// ListCategories returns the owner's flat category collection.
func (s *SQLiteStore) ListCategories(ctx context.Context, owner string) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, parent_id, is_system FROM categories WHERE owner_id = ? ORDER BY id
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		c := models.Category{OwnerID: owner}
		var parentID sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &parentID, &c.IsSystem); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if parentID.Valid {
			c.ParentID = &parentID.String
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// InsertCategory persists a new category.
func (s *SQLiteStore) InsertCategory(ctx context.Context, category models.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, owner_id, name, parent_id, is_system)
		VALUES (?, ?, ?, ?, ?)
	`, category.ID, category.OwnerID, category.Name, category.ParentID, category.IsSystem)
	if err != nil {
		return fmt.Errorf("insert category %q: %w", category.Name, err)
	}
	return nil
}

// UpdateCategory persists a rename and/or reparent.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, category models.Category) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, parent_id = ? WHERE owner_id = ? AND id = ?
	`, category.Name, category.ParentID, category.OwnerID, category.ID)
	if err != nil {
		return fmt.Errorf("update category %s: %w", category.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category %s: %w", category.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("category %s not found", category.ID)
	}
	return nil
}

// DeleteCategory removes a category. The parent_id foreign key cascades
// the delete through descendants, and category_id references on
// transactions are set to NULL by the schema.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, owner, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM categories WHERE owner_id = ? AND id = ?`, owner, id)
	if err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	return nil
}
