package categorytree

import (
	"context"
	"sort"
	"strings"

	"ledgerkit/statement-csv/internal/errs"
	"ledgerkit/statement-csv/internal/logging"
	"ledgerkit/statement-csv/internal/models"
	"ledgerkit/statement-csv/internal/reconcile"
	"ledgerkit/statement-csv/internal/store"

	"github.com/google/uuid"
)

// DefaultSystemName is the display name of the system category when a
// fresh owner has none yet.
const DefaultSystemName = "Uncategorized"

// Service runs category operations against the persistence collaborator.
// All input validation happens before the first store mutation; a store
// failure mid-cascade is surfaced as a StoreError and leaves the backing
// store partially updated — cascade steps are idempotent and ordered
// deterministically so a retry converges.
type Service struct {
	store      store.Store
	owner      string
	systemName string
	logger     logging.Logger
	newID      func() string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithSystemName overrides the default system category display name.
func WithSystemName(name string) ServiceOption {
	return func(s *Service) { s.systemName = name }
}

// WithLogger sets the service logger.
func WithLogger(logger logging.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// WithIDGenerator overrides category id generation, for deterministic
// tests.
func WithIDGenerator(gen func() string) ServiceOption {
	return func(s *Service) { s.newID = gen }
}

// NewService creates a category service for one owner.
func NewService(st store.Store, owner string, opts ...ServiceOption) *Service {
	s := &Service{
		store:      st,
		owner:      owner,
		systemName: DefaultSystemName,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewLogrusAdapter("info", "text")
	}
	return s
}

// UpdateParams carries the new state of a category. Callers pass the
// current value for whatever they leave unchanged.
type UpdateParams struct {
	Name     string
	ParentID *string // nil moves the category to the root
}

func (s *Service) list(ctx context.Context, op string) ([]models.Category, error) {
	cats, err := s.store.ListCategories(ctx, s.owner)
	if err != nil {
		return nil, &errs.StoreError{Op: op, Err: err}
	}
	return cats, nil
}

func find(categories []models.Category, id string) *models.Category {
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i]
		}
	}
	return nil
}

// SystemLabel returns the display label of the owner's system category,
// falling back to the configured default when none is stored yet.
func SystemLabel(categories []models.Category, fallback string) string {
	for _, c := range categories {
		if c.IsSystem {
			return c.Name
		}
	}
	return fallback
}

// SystemLabel resolves the owner's current system category label.
func (s *Service) SystemLabel(ctx context.Context) (string, error) {
	cats, err := s.list(ctx, "category.list")
	if err != nil {
		return "", err
	}
	return SystemLabel(cats, s.systemName), nil
}

// EnsureSystemCategory guarantees the owner has exactly one system
// category, creating the default bucket on first use.
func (s *Service) EnsureSystemCategory(ctx context.Context) (models.Category, error) {
	cats, err := s.list(ctx, "category.ensure-system")
	if err != nil {
		return models.Category{}, err
	}
	for _, c := range cats {
		if c.IsSystem {
			return c, nil
		}
	}

	system := models.Category{
		ID:       s.newID(),
		OwnerID:  s.owner,
		Name:     s.systemName,
		IsSystem: true,
	}
	if err := s.store.InsertCategory(ctx, system); err != nil {
		return models.Category{}, &errs.StoreError{Op: "category.ensure-system", Err: err}
	}
	s.logger.Info("created system category", logging.F("name", system.Name))
	return system, nil
}

// Tree returns the owner's nested category tree.
func (s *Service) Tree(ctx context.Context) ([]*models.CategoryNode, error) {
	cats, err := s.list(ctx, "category.list")
	if err != nil {
		return nil, err
	}
	roots, _, err := Build(cats)
	return roots, err
}

// Options returns the flattened option list exposed to the presentation
// layer: system category first, then case-insensitive by label. An empty
// collection synthesizes a placeholder system option so consumers always
// have a fallback choice.
func (s *Service) Options(ctx context.Context) ([]models.CategoryOption, error) {
	cats, err := s.list(ctx, "category.options")
	if err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return []models.CategoryOption{{Label: s.systemName, IsSystem: true}}, nil
	}

	_, paths, err := Build(cats)
	if err != nil {
		return nil, err
	}

	options := make([]models.CategoryOption, 0, len(cats))
	for _, c := range cats {
		options = append(options, models.CategoryOption{
			ID:       c.ID,
			Label:    paths[c.ID],
			IsSystem: c.IsSystem,
		})
	}
	sort.SliceStable(options, func(i, j int) bool {
		if options[i].IsSystem != options[j].IsSystem {
			return options[i].IsSystem
		}
		return strings.ToLower(options[i].Label) < strings.ToLower(options[j].Label)
	})
	return options, nil
}

// Create adds a category under the given parent (nil for root). The new
// node is never the system category.
func (s *Service) Create(ctx context.Context, name string, parentID *string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, &errs.ValidationError{
			Op: "category.create", Reason: errs.ReasonRequiredField, Detail: "name must not be empty",
		}
	}

	category := models.Category{
		ID:       s.newID(),
		OwnerID:  s.owner,
		Name:     name,
		ParentID: parentID,
	}
	if err := s.store.InsertCategory(ctx, category); err != nil {
		return models.Category{}, &errs.StoreError{Op: "category.create", Err: err}
	}
	s.logger.Info("created category", logging.F("id", category.ID), logging.F("name", name))
	return category, nil
}

// Update renames and/or reparents a category, then rewrites the
// denormalized label of every transaction whose label matches the old
// full path of the category or of any of its descendants. Rewrites are
// exact-match, per affected category, in ascending id order.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) error {
	const op = "category.update"

	cats, err := s.list(ctx, op)
	if err != nil {
		return err
	}

	target := find(cats, id)
	if target == nil {
		return &errs.ValidationError{Op: op, Reason: errs.ReasonNotFound, Detail: "category " + id + " not found"}
	}
	if target.IsSystem {
		return &errs.ValidationError{Op: op, Reason: errs.ReasonSystemProtection, Detail: "the system category cannot be edited"}
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return &errs.ValidationError{Op: op, Reason: errs.ReasonRequiredField, Detail: "name must not be empty"}
	}

	if params.ParentID != nil {
		if *params.ParentID == id {
			return &errs.ValidationError{Op: op, Reason: errs.ReasonSelfReference, Detail: "a category cannot be its own parent"}
		}
		if find(cats, *params.ParentID) == nil {
			return &errs.ValidationError{Op: op, Reason: errs.ReasonNotFound, Detail: "parent category " + *params.ParentID + " not found"}
		}
		if _, isDescendant := Descendants(cats)[id][*params.ParentID]; isDescendant {
			return &errs.ValidationError{Op: op, Reason: errs.ReasonCyclicReparent, Detail: "new parent is a descendant of the category"}
		}
	}

	_, oldPaths, err := Build(cats)
	if err != nil {
		return err
	}

	updated := *target
	updated.Name = name
	updated.ParentID = params.ParentID

	next := make([]models.Category, len(cats))
	copy(next, cats)
	*find(next, id) = updated

	_, newPaths, err := Build(next)
	if err != nil {
		return err
	}

	if err := s.store.UpdateCategory(ctx, updated); err != nil {
		return &errs.StoreError{Op: op, Err: err}
	}

	plan := reconcile.PlanRewrites(oldPaths, newPaths)
	for _, rw := range plan {
		if err := s.store.RelabelCategory(ctx, s.owner, rw.OldLabel, rw.NewLabel); err != nil {
			return &errs.StoreError{Op: "category.relabel", Err: err}
		}
	}

	s.logger.Info("updated category",
		logging.F("id", id),
		logging.F("relabeled", len(plan)))
	return nil
}

// Delete removes a category and all of its descendants (store-level
// cascade) and resets every transaction labeled with any removed path to
// the system category's label.
func (s *Service) Delete(ctx context.Context, id string) error {
	const op = "category.delete"

	cats, err := s.list(ctx, op)
	if err != nil {
		return err
	}

	target := find(cats, id)
	if target == nil {
		return &errs.ValidationError{Op: op, Reason: errs.ReasonNotFound, Detail: "category " + id + " not found"}
	}
	if target.IsSystem {
		return &errs.ValidationError{Op: op, Reason: errs.ReasonSystemProtection, Detail: "the system category cannot be deleted"}
	}

	_, oldPaths, err := Build(cats)
	if err != nil {
		return err
	}

	scope := map[string]struct{}{id: {}}
	for descID := range Descendants(cats)[id] {
		scope[descID] = struct{}{}
	}

	if err := s.store.DeleteCategory(ctx, s.owner, id); err != nil {
		return &errs.StoreError{Op: op, Err: err}
	}

	systemLabel := SystemLabel(cats, s.systemName)
	plan := reconcile.PlanResets(scope, oldPaths)
	for _, reset := range plan {
		if err := s.store.ResetCategory(ctx, s.owner, reset.Label, systemLabel); err != nil {
			return &errs.StoreError{Op: "category.reset", Err: err}
		}
	}

	s.logger.Info("deleted category",
		logging.F("id", id),
		logging.F("cascaded", len(scope)-1))
	return nil
}

// SetTransactionCategory assigns a category to one transaction. A nil ref
// ID stores a legacy, unmanaged label and clears the reference; otherwise
// the id must resolve and the label becomes its full path.
func (s *Service) SetTransactionCategory(ctx context.Context, txID string, ref models.CategoryRef) error {
	const op = "transaction.set-category"

	if ref.ID != nil {
		cats, err := s.list(ctx, op)
		if err != nil {
			return err
		}
		if find(cats, *ref.ID) == nil {
			return &errs.ValidationError{Op: op, Reason: errs.ReasonNotFound, Detail: "category " + *ref.ID + " not found"}
		}
		_, paths, err := Build(cats)
		if err != nil {
			return err
		}
		ref.Label = paths[*ref.ID]
	}

	if err := s.store.SetTransactionCategory(ctx, s.owner, txID, ref); err != nil {
		return &errs.StoreError{Op: op, Err: err}
	}
	return nil
}
