package catalog

import (
	"context"

	"github.com/google/uuid"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by ID within a store
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*Category, error)

	// FindBySlug finds a category by its slug within a store
	FindBySlug(ctx context.Context, storeID uuid.UUID, slug string) (*Category, error)

	// FindRoots finds all root categories for a store ordered by sort order
	FindRoots(ctx context.Context, storeID uuid.UUID) ([]Category, error)

	// FindChildren finds all direct children of a category
	FindChildren(ctx context.Context, storeID, parentID uuid.UUID) ([]Category, error)

	// FindDescendants finds every descendant via the materialized path
	FindDescendants(ctx context.Context, storeID uuid.UUID, path string) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete deletes a category within a store
	Delete(ctx context.Context, storeID, id uuid.UUID) error

	// HasChildren checks if a category has any children
	HasChildren(ctx context.Context, storeID, categoryID uuid.UUID) (bool, error)

	// ExistsBySlug checks if a slug is already taken in the store
	ExistsBySlug(ctx context.Context, storeID uuid.UUID, slug string) (bool, error)
}

// AttributeRepository defines the interface for attribute persistence
type AttributeRepository interface {
	// FindByID finds an attribute by ID within a store
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*Attribute, error)

	// FindByCode finds an attribute by its code within a store
	FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*Attribute, error)

	// FindAll finds all attributes for a store
	FindAll(ctx context.Context, storeID uuid.UUID) ([]Attribute, error)

	// FindFilterable finds attributes exposed as storefront filters
	FindFilterable(ctx context.Context, storeID uuid.UUID) ([]Attribute, error)

	// Save creates or updates an attribute
	Save(ctx context.Context, attribute *Attribute) error

	// Delete deletes an attribute within a store
	Delete(ctx context.Context, storeID, id uuid.UUID) error

	// ExistsByCode checks if an attribute code is already taken in the store
	ExistsByCode(ctx context.Context, storeID uuid.UUID, code string) (bool, error)
}
