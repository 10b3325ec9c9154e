// Package importer orchestrates one statement import: ingest the CSV,
// filter duplicates against a freshly read reference set, and insert the
// surviving batch.
package importer

import (
	"context"
	"io"
	"os"

	"ledgerkit/statement-csv/internal/categorytree"
	"ledgerkit/statement-csv/internal/dedup"
	"ledgerkit/statement-csv/internal/errs"
	"ledgerkit/statement-csv/internal/ingest"
	"ledgerkit/statement-csv/internal/logging"
	"ledgerkit/statement-csv/internal/models"
	"ledgerkit/statement-csv/internal/store"
)

// Result summarizes one import batch.
type Result struct {
	Parsed     int
	Accepted   int
	Duplicates int
}

// Importer wires the ingestion engine, the dedup filter and the store
// into the import pipeline for one owner.
type Importer struct {
	store      store.Store
	categories *categorytree.Service
	owner      string
	logger     logging.Logger
	engineOpts []ingest.Option
}

// New creates an Importer. engineOpts are forwarded to the ingestion
// engine (delimiter, account id, id generation).
func New(st store.Store, categories *categorytree.Service, owner string, logger logging.Logger, engineOpts ...ingest.Option) *Importer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Importer{
		store:      st,
		categories: categories,
		owner:      owner,
		logger:     logger,
		engineOpts: engineOpts,
	}
}

// ImportFile imports the statement at path.
func (im *Importer) ImportFile(ctx context.Context, path string) (Result, []models.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, nil, err
	}
	defer f.Close()
	return im.Import(ctx, f)
}

// Import runs the pipeline against raw statement text.
//
// The dedup reference set is read immediately before the insert it gates.
// That keeps the window for a racing second batch as small as it can be
// without a transactional store; it is best effort, not a hard guarantee.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Result, []models.Transaction, error) {
	system, err := im.categories.EnsureSystemCategory(ctx)
	if err != nil {
		return Result{}, nil, err
	}

	opts := append([]ingest.Option{ingest.WithLogger(im.logger)}, im.engineOpts...)
	engine := ingest.New(system.Name, opts...)

	parsed, err := engine.Parse(r)
	if err != nil {
		return Result{}, nil, err
	}

	existing, err := im.store.ListTransactions(ctx, im.owner)
	if err != nil {
		return Result{}, nil, &errs.StoreError{Op: "transaction.list", Err: err}
	}

	accepted := dedup.Filter(dedup.BuildReferenceSet(existing), parsed)
	if len(accepted) > 0 {
		if err := im.store.InsertTransactions(ctx, im.owner, accepted); err != nil {
			return Result{}, nil, &errs.StoreError{Op: "transaction.insert", Err: err}
		}
	}

	result := Result{
		Parsed:     len(parsed),
		Accepted:   len(accepted),
		Duplicates: len(parsed) - len(accepted),
	}
	im.logger.Info("import finished",
		logging.F("parsed", result.Parsed),
		logging.F("accepted", result.Accepted),
		logging.F("duplicates", result.Duplicates))

	return result, accepted, nil
}
