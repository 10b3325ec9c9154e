// Package models provides the data structures shared by the ingestion,
// deduplication and category engines.
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Transaction is the canonical record produced by the ingestion engine
// from one bank-statement row, whatever the source column layout was.
//
// Category is a denormalized display label; CategoryID, when set, is the
// reference the label must render. The two may diverge only while a
// reconciliation pass is running.
type Transaction struct {
	ID          string
	Date        string // ISO calendar date (YYYY-MM-DD) when normalizable
	Description string
	Amount      decimal.Decimal  // positive = inflow, negative = outflow
	Balance     *decimal.Decimal // running balance as stated by the source, if present
	Category    string
	CategoryID  *string
	AccountID   *string
}

// Inflow reports whether the transaction brings money in.
func (t *Transaction) Inflow() bool {
	return t.Amount.GreaterThan(decimal.Zero)
}

// Outflow reports whether the transaction takes money out.
func (t *Transaction) Outflow() bool {
	return t.Amount.LessThan(decimal.Zero)
}

// Fingerprint derives the content key used for deduplication:
// trimmed date, lowercased trimmed description, and the amount fixed to
// exactly two decimal places.
func (t *Transaction) Fingerprint() string {
	return strings.TrimSpace(t.Date) + "|" +
		strings.ToLower(strings.TrimSpace(t.Description)) + "|" +
		t.Amount.StringFixed(2)
}
