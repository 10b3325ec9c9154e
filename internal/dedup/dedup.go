// Package dedup filters out statement rows that were already imported,
// using a content fingerprint over date, description and amount.
package dedup

import "ledgerkit/statement-csv/internal/models"

// ReferenceSet is the set of fingerprints of already-known transactions.
type ReferenceSet map[string]struct{}

// BuildReferenceSet computes the fingerprint set of existing records.
func BuildReferenceSet(existing []models.Transaction) ReferenceSet {
	set := make(ReferenceSet, len(existing))
	for i := range existing {
		set[existing[i].Fingerprint()] = struct{}{}
	}
	return set
}

// Filter returns the subsequence of candidates whose fingerprint is
// absent from the reference set and from earlier candidates accepted
// within the same batch — first occurrence wins.
//
// Filter is a pure function: given identical inputs it returns identical
// results, so a failed import can safely be re-run.
func Filter(known ReferenceSet, candidates []models.Transaction) []models.Transaction {
	seen := make(map[string]struct{}, len(candidates))
	accepted := make([]models.Transaction, 0, len(candidates))

	for _, tx := range candidates {
		fp := tx.Fingerprint()
		if _, dup := known[fp]; dup {
			continue
		}
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		accepted = append(accepted, tx)
	}

	return accepted
}
