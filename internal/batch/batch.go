// Package batch imports every statement file found in a directory,
// continuing past files that fail so one bad export does not block the
// rest of the drop folder.
package batch

import (
	"context"
	"fmt"
	"path/filepath"

	"ledgerkit/statement-csv/internal/fileutils"
	"ledgerkit/statement-csv/internal/importer"
	"ledgerkit/statement-csv/internal/logging"
)

// FileResult records the outcome of one file in a batch run.
type FileResult struct {
	Path   string
	Result importer.Result
	Err    error
}

// Summary aggregates a whole batch run.
type Summary struct {
	Files      []FileResult
	Failed     int
	Parsed     int
	Accepted   int
	Duplicates int
}

// Runner imports all statement files in a directory through one
// Importer.
type Runner struct {
	importer *importer.Importer
	logger   logging.Logger
}

// NewRunner creates a batch Runner.
func NewRunner(im *importer.Importer, logger logging.Logger) *Runner {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Runner{importer: im, logger: logger}
}

// ImportDirectory imports every .csv file under dir, in lexical path
// order. A file that fails to parse or store is recorded and skipped;
// the returned error is non-nil only when the directory itself cannot
// be read or it contains no statement files.
func (r *Runner) ImportDirectory(ctx context.Context, dir string) (Summary, error) {
	files, err := fileutils.ListFilesWithExtension(dir, ".csv")
	if err != nil {
		return Summary{}, err
	}
	if len(files) == 0 {
		return Summary{}, fmt.Errorf("no .csv files found in %s", dir)
	}

	var summary Summary
	for _, file := range files {
		result, _, err := r.importer.ImportFile(ctx, file)
		summary.Files = append(summary.Files, FileResult{Path: file, Result: result, Err: err})
		if err != nil {
			summary.Failed++
			r.logger.WithError(err).Error("statement file failed",
				logging.F("file", filepath.Base(file)))
			continue
		}

		summary.Parsed += result.Parsed
		summary.Accepted += result.Accepted
		summary.Duplicates += result.Duplicates
		r.logger.Info("statement file imported",
			logging.F("file", filepath.Base(file)),
			logging.F("accepted", result.Accepted),
			logging.F("duplicates", result.Duplicates))
	}

	r.logger.Info("batch import finished",
		logging.F("files", len(files)),
		logging.F("failed", summary.Failed),
		logging.F("accepted", summary.Accepted))
	return summary, nil
}
