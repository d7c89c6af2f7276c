package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/analytics"
)

// CapturedInteraction is one interaction inside a tracking batch
type CapturedInteraction struct {
	Type       string    `json:"type" binding:"required"`
	X          int       `json:"x"`
	Y          int       `json:"y"`
	ViewportW  int       `json:"viewport_w" binding:"required"`
	ViewportH  int       `json:"viewport_h" binding:"required"`
	ElementTag string    `json:"element_tag,omitempty"`
	OccurredAt time.Time `json:"occurred_at,omitempty"`
}

// TrackBatchRequest is the input for ingesting a batch of interactions
type TrackBatchRequest struct {
	PageType     string                `json:"page_type" binding:"required"`
	SessionID    string                `json:"session_id" binding:"required"`
	Interactions []CapturedInteraction `json:"interactions" binding:"required,min=1"`
}

// TrackBatchResponse reports how much of the batch was accepted
type TrackBatchResponse struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// InteractionResponse is the API representation of a stored interaction
type InteractionResponse struct {
	ID         uuid.UUID `json:"id"`
	PageType   string    `json:"page_type"`
	SessionID  string    `json:"session_id"`
	Type       string    `json:"type"`
	X          int       `json:"x"`
	Y          int       `json:"y"`
	ViewportW  int       `json:"viewport_w"`
	ViewportH  int       `json:"viewport_h"`
	ElementTag string    `json:"element_tag,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ToInteractionResponse converts a stored interaction to its API representation
func ToInteractionResponse(interaction *analytics.Interaction) *InteractionResponse {
	return &InteractionResponse{
		ID:         interaction.ID,
		PageType:   interaction.PageType,
		SessionID:  interaction.SessionID,
		Type:       string(interaction.Type),
		X:          interaction.X,
		Y:          interaction.Y,
		ViewportW:  interaction.ViewportW,
		ViewportH:  interaction.ViewportH,
		ElementTag: interaction.ElementTag,
		OccurredAt: interaction.OccurredAt,
	}
}
