package ingest

import (
	"io"
	"strings"

	"ledgerkit/statement-csv/internal/currencyutils"
	"ledgerkit/statement-csv/internal/dateutils"
	"ledgerkit/statement-csv/internal/errs"
	"ledgerkit/statement-csv/internal/logging"
	"ledgerkit/statement-csv/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Engine converts raw statement CSV text into canonical transactions.
type Engine struct {
	delimiter   rune
	systemLabel string
	accountID   *string
	logger      logging.Logger
	newID       func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithDelimiter overrides the default comma field delimiter.
func WithDelimiter(d rune) Option {
	return func(e *Engine) { e.delimiter = d }
}

// WithAccountID attaches an account reference to every produced
// transaction.
func WithAccountID(id string) Option {
	return func(e *Engine) { e.accountID = &id }
}

// WithLogger sets the logger used for row-level diagnostics.
func WithLogger(logger logging.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithIDGenerator overrides transaction id generation, for deterministic
// tests.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

// New creates an Engine. systemLabel is the display name of the owner's
// system category, used as the default category of every ingested row.
func New(systemLabel string, opts ...Option) *Engine {
	e := &Engine{
		delimiter:   ',',
		systemLabel: systemLabel,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewLogrusAdapter("info", "text")
	}
	return e
}

// Parse reads the statement from r and returns one transaction per
// well-formed data row, in input order.
//
// The header row must yield a date column, a description column, and
// either an amount column or a complete debit+credit pair; otherwise a
// FormatError is returned. Blank lines and rows too short to cover the
// date and description columns are skipped, never failing the batch.
func (e *Engine) Parse(r io.Reader) ([]models.Transaction, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return nil, &errs.FormatError{Reason: "statement needs a header row and at least one data row"}
	}

	header := lines[0]
	layout := InferLayout(SplitLine(header, e.delimiter))
	if err := e.validateLayout(layout, header); err != nil {
		return nil, err
	}

	e.logger.Debug("resolved statement layout",
		logging.F("amountColumn", layout.Amount),
		logging.F("debitCredit", layout.UsesDebitCredit()))

	transactions := make([]models.Transaction, 0, len(lines)-1)
	skipped := 0
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := SplitLine(line, e.delimiter)
		if len(fields) <= layout.Date || len(fields) <= layout.Description {
			skipped++
			continue
		}

		transactions = append(transactions, e.buildTransaction(fields, layout))
	}

	if skipped > 0 {
		e.logger.Warn("skipped malformed statement rows", logging.F("count", skipped))
	}
	e.logger.Info("parsed statement rows", logging.F("count", len(transactions)))

	return transactions, nil
}

func (e *Engine) validateLayout(layout Layout, header string) error {
	if layout.Date < 0 {
		return &errs.FormatError{Reason: "no date column found", Header: header}
	}
	if layout.Description < 0 {
		return &errs.FormatError{Reason: "no description column found", Header: header}
	}
	if layout.Amount < 0 && !layout.UsesDebitCredit() {
		return &errs.FormatError{Reason: "no amount column and no debit/credit column pair found", Header: header}
	}
	return nil
}

func (e *Engine) buildTransaction(fields []string, layout Layout) models.Transaction {
	tx := models.Transaction{
		ID:          e.newID(),
		Date:        dateutils.NormalizeDate(fields[layout.Date]),
		Description: strings.TrimSpace(fields[layout.Description]),
		Amount:      e.resolveAmount(fields, layout),
		Category:    e.systemLabel,
		AccountID:   e.accountID,
	}

	if layout.Balance >= 0 && layout.Balance < len(fields) {
		if raw := strings.TrimSpace(fields[layout.Balance]); raw != "" {
			balance := currencyutils.NormalizeAmount(raw)
			tx.Balance = &balance
		}
	}

	return tx
}

// resolveAmount prefers a single signed amount column; otherwise the
// signed amount is credit minus debit, with missing or unparseable cells
// treated as zero.
func (e *Engine) resolveAmount(fields []string, layout Layout) decimal.Decimal {
	if layout.Amount >= 0 {
		return currencyutils.NormalizeAmount(fieldAt(fields, layout.Amount))
	}
	credit := currencyutils.NormalizeAmount(fieldAt(fields, layout.Credit))
	debit := currencyutils.NormalizeAmount(fieldAt(fields, layout.Debit))
	return credit.Sub(debit)
}

func fieldAt(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return fields[idx]
}
