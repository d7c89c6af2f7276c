package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// MaxCategoryDepth is the maximum depth of the storefront navigation tree
const MaxCategoryDepth = 4

// CategoryStatus represents the status of a category
type CategoryStatus string

const (
	CategoryStatusActive   CategoryStatus = "active"
	CategoryStatusInactive CategoryStatus = "inactive"
)

// Category is a storefront navigation category. Categories form a tree
// through parent references with a materialized path for subtree queries.
type Category struct {
	shared.StoreAggregateRoot
	Slug      string         `gorm:"type:varchar(80);not null;uniqueIndex:idx_categories_store_slug,priority:2"`
	Name      string         `gorm:"type:varchar(120);not null"`
	ParentID  *uuid.UUID     `gorm:"type:uuid;index"`
	Path      string         `gorm:"type:varchar(400);not null;index"`
	Level     int            `gorm:"not null;default:0"`
	SortOrder int            `gorm:"not null;default:0"`
	Status    CategoryStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new root category
func NewCategory(storeID uuid.UUID, slug, name string) (*Category, error) {
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	category := &Category{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Slug:               strings.ToLower(slug),
		Name:               name,
		Status:             CategoryStatusActive,
		Level:              0,
	}
	category.Path = category.ID.String()

	category.AddDomainEvent(NewCategoryCreatedEvent(category))

	return category, nil
}

// NewChildCategory creates a new child category under a parent
func NewChildCategory(storeID uuid.UUID, slug, name string, parent *Category) (*Category, error) {
	if parent == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent category is required")
	}
	if parent.StoreID != storeID {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent category belongs to a different store")
	}
	if parent.Level >= MaxCategoryDepth-1 {
		return nil, shared.NewDomainError("MAX_DEPTH_EXCEEDED", fmt.Sprintf("Category depth cannot exceed %d levels", MaxCategoryDepth))
	}

	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	category := &Category{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Slug:               strings.ToLower(slug),
		Name:               name,
		ParentID:           &parent.ID,
		Level:              parent.Level + 1,
		Status:             CategoryStatusActive,
	}
	category.Path = parent.Path + "/" + category.ID.String()

	category.AddDomainEvent(NewCategoryCreatedEvent(category))

	return category, nil
}

// Rename updates the category's display name
func (c *Category) Rename(name string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}

	c.Name = name
	c.UpdatedAt = time.Now()

	c.AddDomainEvent(NewCategoryUpdatedEvent(c))

	return nil
}

// SetSortOrder sets the display order within the parent
func (c *Category) SetSortOrder(order int) {
	c.SortOrder = order
	c.UpdatedAt = time.Now()
}

// Activate activates the category
func (c *Category) Activate() error {
	if c.Status == CategoryStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Category is already active")
	}

	c.Status = CategoryStatusActive
	c.UpdatedAt = time.Now()

	c.AddDomainEvent(NewCategoryStatusChangedEvent(c, CategoryStatusInactive, CategoryStatusActive))

	return nil
}

// Deactivate deactivates the category
func (c *Category) Deactivate() error {
	if c.Status == CategoryStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Category is already inactive")
	}

	c.Status = CategoryStatusInactive
	c.UpdatedAt = time.Now()

	c.AddDomainEvent(NewCategoryStatusChangedEvent(c, CategoryStatusActive, CategoryStatusInactive))

	return nil
}

// IsActive returns true if the category is active
func (c *Category) IsActive() bool {
	return c.Status == CategoryStatusActive
}

// IsRoot returns true if this is a root category
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// IsAncestorOf returns true if this category is an ancestor of the given category
func (c *Category) IsAncestorOf(other *Category) bool {
	if other == nil || other.Path == "" {
		return false
	}
	return strings.HasPrefix(other.Path, c.Path+"/")
}

func validateSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if len(slug) > 80 {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot exceed 80 characters")
	}
	for _, r := range slug {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_SLUG", "Slug can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 120 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 120 characters")
	}
	return nil
}
