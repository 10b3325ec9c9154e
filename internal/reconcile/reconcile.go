// Package reconcile plans the transaction label updates needed to keep
// denormalized category labels consistent after a structural tree edit.
// It is a pure planning layer: the category service issues one store call
// per plan entry.
package reconcile

import "sort"

// Rewrite maps one affected category's old full path to its new one.
type Rewrite struct {
	CategoryID string
	OldLabel   string
	NewLabel   string
}

// Reset marks one deleted category's full path for reset to the system
// label.
type Reset struct {
	CategoryID string
	Label      string
}

// PlanRewrites diffs the old and new id→path maps and returns the minimal
// rewrite list: ids whose path did not change produce no entry, and at
// most one entry exists per distinct old label. Entries are ordered by
// ascending category id so repeated runs against identical state issue
// identical call sequences.
func PlanRewrites(oldPaths, newPaths map[string]string) []Rewrite {
	ids := make([]string, 0, len(oldPaths))
	for id := range oldPaths {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	seen := make(map[string]struct{}, len(ids))
	var plan []Rewrite
	for _, id := range ids {
		newPath, ok := newPaths[id]
		if !ok || newPath == oldPaths[id] {
			continue
		}
		if _, dup := seen[oldPaths[id]]; dup {
			continue
		}
		seen[oldPaths[id]] = struct{}{}
		plan = append(plan, Rewrite{CategoryID: id, OldLabel: oldPaths[id], NewLabel: newPath})
	}
	return plan
}

// PlanResets returns one reset per category in scope (the deleted node
// and its descendants), labeled with its pre-delete full path, ordered by
// ascending category id.
func PlanResets(scope map[string]struct{}, oldPaths map[string]string) []Reset {
	ids := make([]string, 0, len(scope))
	for id := range scope {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var plan []Reset
	for _, id := range ids {
		path, ok := oldPaths[id]
		if !ok {
			continue
		}
		plan = append(plan, Reset{CategoryID: id, Label: path})
	}
	return plan
}
