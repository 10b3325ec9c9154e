// Package categorytree maintains an owner's category forest: structure,
// materialized full paths, descendant sets, and the cascading effects of
// structural edits on transaction labels.
package categorytree

import (
	"sort"
	"strings"

	"ledgerkit/statement-csv/internal/errs"
	"ledgerkit/statement-csv/internal/models"
)

// rootKey groups categories without a parent.
const rootKey = ""

func parentKey(c models.Category) string {
	if c.ParentID == nil {
		return rootKey
	}
	return *c.ParentID
}

// childrenOf groups the flat collection by parent id, siblings sorted
// case-insensitively by name (id as tiebreaker, so builds are
// deterministic).
func childrenOf(categories []models.Category) map[string][]models.Category {
	children := make(map[string][]models.Category)
	for _, c := range categories {
		key := parentKey(c)
		children[key] = append(children[key], c)
	}
	for _, siblings := range children {
		sort.SliceStable(siblings, func(i, j int) bool {
			ni, nj := strings.ToLower(siblings[i].Name), strings.ToLower(siblings[j].Name)
			if ni != nj {
				return ni < nj
			}
			return siblings[i].ID < siblings[j].ID
		})
	}
	return children
}

// Build assembles the nested tree and the id→full-path lookup from the
// flat collection. Root nodes' paths are their own names; every other
// node's path is its parent's path joined with its name.
//
// The walk keeps a visited set. A revisited node, or a node unreachable
// from any root (both only possible through a parent cycle), yields a
// StructuralError instead of looping forever.
func Build(categories []models.Category) ([]*models.CategoryNode, map[string]string, error) {
	children := childrenOf(categories)
	paths := make(map[string]string, len(categories))
	visited := make(map[string]struct{}, len(categories))

	var walk func(parent models.Category, parentPath string) ([]*models.CategoryNode, error)
	walk = func(parent models.Category, parentPath string) ([]*models.CategoryNode, error) {
		var nodes []*models.CategoryNode
		for _, c := range children[parent.ID] {
			if _, seen := visited[c.ID]; seen {
				return nil, &errs.StructuralError{Reason: "category visited twice while building tree", CategoryID: c.ID}
			}
			visited[c.ID] = struct{}{}

			path := c.Name
			if parentPath != "" {
				path = parentPath + models.PathSeparator + c.Name
			}
			paths[c.ID] = path

			node := &models.CategoryNode{Category: c, FullPath: path}
			sub, err := walk(c, path)
			if err != nil {
				return nil, err
			}
			node.Children = sub
			nodes = append(nodes, node)
		}
		return nodes, nil
	}

	var roots []*models.CategoryNode
	for _, c := range children[rootKey] {
		if _, seen := visited[c.ID]; seen {
			return nil, nil, &errs.StructuralError{Reason: "category visited twice while building tree", CategoryID: c.ID}
		}
		visited[c.ID] = struct{}{}
		paths[c.ID] = c.Name

		node := &models.CategoryNode{Category: c, FullPath: c.Name}
		sub, err := walk(c, c.Name)
		if err != nil {
			return nil, nil, err
		}
		node.Children = sub
		roots = append(roots, node)
	}

	if len(visited) != len(categories) {
		for _, c := range categories {
			if _, seen := visited[c.ID]; !seen {
				return nil, nil, &errs.StructuralError{Reason: "category unreachable from any root (parent cycle)", CategoryID: c.ID}
			}
		}
	}

	return roots, paths, nil
}

// Descendants computes, for each category, the transitive closure of its
// child edges. The visited guard makes the walk terminate even on
// pathological cyclic input.
func Descendants(categories []models.Category) map[string]map[string]struct{} {
	children := childrenOf(categories)
	result := make(map[string]map[string]struct{}, len(categories))

	var collect func(id string, into map[string]struct{})
	collect = func(id string, into map[string]struct{}) {
		for _, c := range children[id] {
			if _, seen := into[c.ID]; seen {
				continue
			}
			into[c.ID] = struct{}{}
			collect(c.ID, into)
		}
	}

	for _, c := range categories {
		set := make(map[string]struct{})
		collect(c.ID, set)
		result[c.ID] = set
	}
	return result
}
