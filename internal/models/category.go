package models

// PathSeparator joins category names into a materialized full path,
// e.g. "Transport → Fuel".
const PathSeparator = " → "

// Category is one node of an owner's category forest. Name is unique
// among siblings sharing the same parent. Exactly one category per owner
// carries IsSystem and acts as the fallback bucket for uncategorized
// transactions; it cannot be renamed, reparented or deleted.
type Category struct {
	ID       string
	OwnerID  string
	Name     string
	ParentID *string
	IsSystem bool
}

// CategoryNode is a category with its resolved children and materialized
// full path, as produced by the tree builder.
type CategoryNode struct {
	Category
	FullPath string
	Children []*CategoryNode
}

// CategoryOption is the flattened view exposed to the presentation layer:
// one selectable entry per category, labeled with its full path.
type CategoryOption struct {
	ID       string
	Label    string
	IsSystem bool
}

// CategoryRef is the payload of a transaction category change. A nil ID
// means a legacy, unmanaged label: only the denormalized label is kept
// and the category reference is cleared.
type CategoryRef struct {
	ID    *string
	Label string
}
