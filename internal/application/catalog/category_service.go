package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CategoryService handles storefront category operations
type CategoryService struct {
	categories     catalog.CategoryRepository
	eventPublisher shared.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categories catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CategoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes all domain events raised by the category
func (s *CategoryService) publishDomainEvents(ctx context.Context, category *catalog.Category) {
	if s.eventPublisher == nil {
		return
	}
	events := category.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	category.ClearDomainEvents()
}

// Create creates a root or child category
func (s *CategoryService) Create(ctx context.Context, storeID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categories.ExistsBySlug(ctx, storeID, req.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this slug already exists")
	}

	var category *catalog.Category
	if req.ParentID != nil {
		parent, err := s.categories.FindByID(ctx, storeID, *req.ParentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PARENT", "Parent category not found")
			}
			return nil, err
		}
		category, err = catalog.NewChildCategory(storeID, req.Slug, req.Name, parent)
		if err != nil {
			return nil, err
		}
	} else {
		category, err = catalog.NewCategory(storeID, req.Slug, req.Name)
		if err != nil {
			return nil, err
		}
	}

	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, category)

	return ToCategoryResponse(category), nil
}

// Get retrieves a category by ID
func (s *CategoryService) Get(ctx context.Context, storeID, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categories.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponse(category), nil
}

// Update renames a category and adjusts its sort order
func (s *CategoryService) Update(ctx context.Context, storeID, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categories.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	if err := category.Rename(req.Name); err != nil {
		return nil, err
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, category)

	return ToCategoryResponse(category), nil
}

// SetStatus activates or deactivates a category
func (s *CategoryService) SetStatus(ctx context.Context, storeID, id uuid.UUID, active bool) (*CategoryResponse, error) {
	category, err := s.categories.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	if active {
		err = category.Activate()
	} else {
		err = category.Deactivate()
	}
	if err != nil {
		return nil, err
	}

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, category)

	return ToCategoryResponse(category), nil
}

// Tree returns the root categories with their direct children
func (s *CategoryService) Tree(ctx context.Context, storeID uuid.UUID) ([]CategoryResponse, error) {
	roots, err := s.categories.FindRoots(ctx, storeID)
	if err != nil {
		return nil, err
	}

	responses := make([]CategoryResponse, 0, len(roots))
	for i := range roots {
		responses = append(responses, *ToCategoryResponse(&roots[i]))
	}
	return responses, nil
}

// Children returns the children of a category: direct children by
// default, the full subtree via the materialized path when recursive
func (s *CategoryService) Children(ctx context.Context, storeID, parentID uuid.UUID, recursive bool) ([]CategoryResponse, error) {
	var (
		children []catalog.Category
		err      error
	)
	if recursive {
		parent, ferr := s.categories.FindByID(ctx, storeID, parentID)
		if ferr != nil {
			return nil, ferr
		}
		children, err = s.categories.FindDescendants(ctx, storeID, parent.Path)
	} else {
		children, err = s.categories.FindChildren(ctx, storeID, parentID)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]CategoryResponse, 0, len(children))
	for i := range children {
		responses = append(responses, *ToCategoryResponse(&children[i]))
	}
	return responses, nil
}

// Delete removes a leaf category. Categories with children must be emptied
// first so the navigation tree never dangles.
func (s *CategoryService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	hasChildren, err := s.categories.HasChildren(ctx, storeID, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return shared.NewDomainError("HAS_CHILDREN", "Category has child categories; delete or move them first")
	}

	return s.categories.Delete(ctx, storeID, id)
}
