package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// InteractionType classifies a captured storefront interaction
type InteractionType string

const (
	InteractionTypeClick  InteractionType = "click"
	InteractionTypeScroll InteractionType = "scroll"
	InteractionTypeMove   InteractionType = "move"
)

// IsValid checks if the interaction type is a known value
func (t InteractionType) IsValid() bool {
	switch t {
	case InteractionTypeClick, InteractionTypeScroll, InteractionTypeMove:
		return true
	}
	return false
}

// Interaction is a single captured storefront pointer event. Interactions
// are append-only: they are batch-inserted at capture time and queried for
// the heatmap overlay, never updated.
type Interaction struct {
	shared.BaseEntity
	StoreID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_interactions_scope,priority:1"`
	PageType   string          `gorm:"type:varchar(50);not null;index:idx_interactions_scope,priority:2"`
	SessionID  string          `gorm:"type:varchar(64);not null;index"`
	Type       InteractionType `gorm:"type:varchar(10);not null"`
	X          int             `gorm:"not null"`
	Y          int             `gorm:"not null"`
	ViewportW  int             `gorm:"not null"`
	ViewportH  int             `gorm:"not null"`
	ElementTag string          `gorm:"type:varchar(40)"`
	OccurredAt time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Interaction) TableName() string {
	return "heatmap_interactions"
}

// NewInteraction validates and creates a captured interaction
func NewInteraction(storeID uuid.UUID, pageType, sessionID string, interactionType InteractionType, x, y, viewportW, viewportH int, elementTag string, occurredAt time.Time) (*Interaction, error) {
	if pageType == "" {
		return nil, shared.NewDomainError("INVALID_PAGE_TYPE", "Page type cannot be empty")
	}
	if sessionID == "" || len(sessionID) > 64 {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID must be 1-64 characters")
	}
	if !interactionType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INTERACTION_TYPE", "Unknown interaction type")
	}
	if viewportW <= 0 || viewportH <= 0 {
		return nil, shared.NewDomainError("INVALID_VIEWPORT", "Viewport dimensions must be positive")
	}
	if x < 0 || x > viewportW || y < 0 {
		return nil, shared.NewDomainError("INVALID_COORDINATES", "Coordinates must fall inside the viewport")
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	return &Interaction{
		BaseEntity: shared.NewBaseEntity(),
		StoreID:    storeID,
		PageType:   pageType,
		SessionID:  sessionID,
		Type:       interactionType,
		X:          x,
		Y:          y,
		ViewportW:  viewportW,
		ViewportH:  viewportH,
		ElementTag: elementTag,
		OccurredAt: occurredAt,
	}, nil
}
