package catalog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// AttributeInputType represents how an attribute is captured in the storefront
type AttributeInputType string

const (
	AttributeInputText    AttributeInputType = "text"
	AttributeInputNumber  AttributeInputType = "number"
	AttributeInputSelect  AttributeInputType = "select"
	AttributeInputBoolean AttributeInputType = "boolean"
	AttributeInputColor   AttributeInputType = "color"
	AttributeInputDate    AttributeInputType = "date"
)

// IsValid checks if the input type is a known value
func (t AttributeInputType) IsValid() bool {
	switch t {
	case AttributeInputText, AttributeInputNumber, AttributeInputSelect,
		AttributeInputBoolean, AttributeInputColor, AttributeInputDate:
		return true
	}
	return false
}

// Attribute is a product attribute definition used by storefront filters
// and product detail pages. Options are only meaningful for select inputs
// and are stored as a jsonb array of strings.
type Attribute struct {
	shared.StoreAggregateRoot
	Code       string             `gorm:"type:varchar(50);not null;uniqueIndex:idx_attributes_store_code,priority:2"`
	Label      string             `gorm:"type:varchar(120);not null"`
	InputType  AttributeInputType `gorm:"type:varchar(20);not null"`
	Options    string             `gorm:"type:jsonb;not null;default:'[]'"`
	Filterable bool               `gorm:"not null;default:false"`
	Required   bool               `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Attribute) TableName() string {
	return "attributes"
}

// NewAttribute creates a new attribute definition
func NewAttribute(storeID uuid.UUID, code, label string, inputType AttributeInputType) (*Attribute, error) {
	if err := validateSlug(code); err != nil {
		return nil, shared.NewDomainError("INVALID_CODE", "Attribute code can only contain letters, numbers, underscores, and hyphens")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Attribute code cannot exceed 50 characters")
	}
	if label == "" {
		return nil, shared.NewDomainError("INVALID_LABEL", "Attribute label cannot be empty")
	}
	if !inputType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT_TYPE", "Unknown attribute input type")
	}

	return &Attribute{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Code:               strings.ToLower(code),
		Label:              label,
		InputType:          inputType,
		Options:            "[]",
	}, nil
}

// SetOptions replaces the option list. Only select attributes carry options.
func (a *Attribute) SetOptions(options []string) error {
	if a.InputType != AttributeInputSelect {
		return shared.NewDomainError("INVALID_INPUT_TYPE", "Only select attributes have options")
	}
	if len(options) == 0 {
		return shared.NewDomainError("INVALID_OPTIONS", "Select attributes need at least one option")
	}

	seen := make(map[string]struct{}, len(options))
	for _, option := range options {
		trimmed := strings.TrimSpace(option)
		if trimmed == "" {
			return shared.NewDomainError("INVALID_OPTIONS", "Options cannot be blank")
		}
		if _, dup := seen[trimmed]; dup {
			return shared.NewDomainError("INVALID_OPTIONS", "Duplicate option: "+trimmed)
		}
		seen[trimmed] = struct{}{}
	}

	raw, err := json.Marshal(options)
	if err != nil {
		return err
	}
	a.Options = string(raw)
	a.UpdatedAt = time.Now()
	return nil
}

// OptionList decodes the stored options
func (a *Attribute) OptionList() ([]string, error) {
	var options []string
	if err := json.Unmarshal([]byte(a.Options), &options); err != nil {
		return nil, err
	}
	return options, nil
}

// Relabel updates the display label
func (a *Attribute) Relabel(label string) error {
	if label == "" {
		return shared.NewDomainError("INVALID_LABEL", "Attribute label cannot be empty")
	}
	a.Label = label
	a.UpdatedAt = time.Now()
	return nil
}

// MarkFilterable toggles whether the attribute appears in storefront filters
func (a *Attribute) MarkFilterable(filterable bool) {
	a.Filterable = filterable
	a.UpdatedAt = time.Now()
}
