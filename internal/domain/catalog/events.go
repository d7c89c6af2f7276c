package catalog

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeCategory = "Category"

// Event type constants
const (
	EventTypeCategoryCreated       = "CategoryCreated"
	EventTypeCategoryUpdated       = "CategoryUpdated"
	EventTypeCategoryStatusChanged = "CategoryStatusChanged"
)

// CategoryCreatedEvent is published when a new category is created
type CategoryCreatedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID  `json:"category_id"`
	Slug       string     `json:"slug"`
	Name       string     `json:"name"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	Level      int        `json:"level"`
}

// NewCategoryCreatedEvent creates a new CategoryCreatedEvent
func NewCategoryCreatedEvent(category *Category) *CategoryCreatedEvent {
	return &CategoryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryCreated, AggregateTypeCategory, category.ID, category.StoreID),
		CategoryID:      category.ID,
		Slug:            category.Slug,
		Name:            category.Name,
		ParentID:        category.ParentID,
		Level:           category.Level,
	}
}

// CategoryUpdatedEvent is published when a category is updated
type CategoryUpdatedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID `json:"category_id"`
	Slug       string    `json:"slug"`
	Name       string    `json:"name"`
}

// NewCategoryUpdatedEvent creates a new CategoryUpdatedEvent
func NewCategoryUpdatedEvent(category *Category) *CategoryUpdatedEvent {
	return &CategoryUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryUpdated, AggregateTypeCategory, category.ID, category.StoreID),
		CategoryID:      category.ID,
		Slug:            category.Slug,
		Name:            category.Name,
	}
}

// CategoryStatusChangedEvent is published when a category's status changes
type CategoryStatusChangedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID      `json:"category_id"`
	Slug       string         `json:"slug"`
	OldStatus  CategoryStatus `json:"old_status"`
	NewStatus  CategoryStatus `json:"new_status"`
}

// NewCategoryStatusChangedEvent creates a new CategoryStatusChangedEvent
func NewCategoryStatusChangedEvent(category *Category, oldStatus, newStatus CategoryStatus) *CategoryStatusChangedEvent {
	return &CategoryStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryStatusChanged, AggregateTypeCategory, category.ID, category.StoreID),
		CategoryID:      category.ID,
		Slug:            category.Slug,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
