package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CreateCategoryRequest is the input for creating a category
type CreateCategoryRequest struct {
	Slug      string     `json:"slug" binding:"required"`
	Name      string     `json:"name" binding:"required"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	SortOrder *int       `json:"sort_order,omitempty"`
}

// UpdateCategoryRequest is the input for updating a category
type UpdateCategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder *int   `json:"sort_order,omitempty"`
}

// CategoryResponse is the API representation of a category
type CategoryResponse struct {
	ID        uuid.UUID  `json:"id"`
	Slug      string     `json:"slug"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	Path      string     `json:"path"`
	Level     int        `json:"level"`
	SortOrder int        `json:"sort_order"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToCategoryResponse converts a domain category to its API representation
func ToCategoryResponse(category *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:        category.ID,
		Slug:      category.Slug,
		Name:      category.Name,
		ParentID:  category.ParentID,
		Path:      category.Path,
		Level:     category.Level,
		SortOrder: category.SortOrder,
		Status:    string(category.Status),
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

// CreateAttributeRequest is the input for creating an attribute
type CreateAttributeRequest struct {
	Code      string   `json:"code" binding:"required"`
	Label     string   `json:"label" binding:"required"`
	InputType string   `json:"input_type" binding:"required"`
	Options   []string `json:"options,omitempty"`
}

// UpdateAttributeRequest is the input for updating an attribute
type UpdateAttributeRequest struct {
	Label      string   `json:"label" binding:"required"`
	Options    []string `json:"options,omitempty"`
	Filterable *bool    `json:"filterable,omitempty"`
}

// AttributeResponse is the API representation of an attribute
type AttributeResponse struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	Label      string    `json:"label"`
	InputType  string    `json:"input_type"`
	Options    []string  `json:"options"`
	Filterable bool      `json:"filterable"`
	Required   bool      `json:"required"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToAttributeResponse converts a domain attribute to its API representation
func ToAttributeResponse(attribute *catalog.Attribute) (*AttributeResponse, error) {
	options, err := attribute.OptionList()
	if err != nil {
		return nil, err
	}
	if options == nil {
		options = []string{}
	}

	return &AttributeResponse{
		ID:         attribute.ID,
		Code:       attribute.Code,
		Label:      attribute.Label,
		InputType:  string(attribute.InputType),
		Options:    options,
		Filterable: attribute.Filterable,
		Required:   attribute.Required,
		CreatedAt:  attribute.CreatedAt,
		UpdatedAt:  attribute.UpdatedAt,
	}, nil
}
