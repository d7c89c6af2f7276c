package storefront

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/storefront"
)

// UpsertDraftRequest represents a request to create or update a draft.
// Configuration is optional: an existing draft keeps its content when no
// payload is supplied, a new draft falls back to the latest published
// configuration or the baseline default.
type UpsertDraftRequest struct {
	UserID        uuid.UUID
	StoreID       uuid.UUID
	PageType      string          `json:"page_type" binding:"required,min=1,max=50"`
	Configuration json.RawMessage `json:"configuration"`
}

// RevertRequest represents a request to revert a scope to an older version
type RevertRequest struct {
	UserID    uuid.UUID
	StoreID   uuid.UUID
	VersionID uuid.UUID
}

// SetCurrentEditRequest marks a version as the one currently being edited
type SetCurrentEditRequest struct {
	UserID    uuid.UUID
	StoreID   uuid.UUID
	PageType  string `json:"page_type" binding:"required,min=1,max=50"`
	VersionID uuid.UUID
}

// VersionHistoryFilter represents filter options for the history query
type VersionHistoryFilter struct {
	PageType string `form:"page_type" binding:"required,min=1,max=50"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// PageVersionResponse represents a page version in API responses
type PageVersionResponse struct {
	ID                    uuid.UUID       `json:"id"`
	StoreID               uuid.UUID       `json:"store_id"`
	UserID                uuid.UUID       `json:"user_id"`
	PageType              string          `json:"page_type"`
	Configuration         json.RawMessage `json:"configuration"`
	VersionNumber         int             `json:"version_number"`
	Status                string          `json:"status"`
	IsActive              bool            `json:"is_active"`
	PublishedAt           *time.Time      `json:"published_at,omitempty"`
	PublishedBy           *uuid.UUID      `json:"published_by,omitempty"`
	AcceptancePublishedAt *time.Time      `json:"acceptance_published_at,omitempty"`
	AcceptancePublishedBy *uuid.UUID      `json:"acceptance_published_by,omitempty"`
	ParentVersionID       *uuid.UUID      `json:"parent_version_id,omitempty"`
	CurrentEditID         *uuid.UUID      `json:"current_edit_id,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// VersionHistoryEntry represents a history list item; the configuration
// blob is omitted to keep the listing light
type VersionHistoryEntry struct {
	ID              uuid.UUID  `json:"id"`
	PageType        string     `json:"page_type"`
	VersionNumber   int        `json:"version_number"`
	Status          string     `json:"status"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	PublishedBy     *uuid.UUID `json:"published_by,omitempty"`
	ParentVersionID *uuid.UUID `json:"parent_version_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToPageVersionResponse converts a domain PageVersion to PageVersionResponse
func ToPageVersionResponse(v *storefront.PageVersion) *PageVersionResponse {
	return &PageVersionResponse{
		ID:                    v.ID,
		StoreID:               v.StoreID,
		UserID:                v.UserID,
		PageType:              v.PageType,
		Configuration:         json.RawMessage(v.Configuration),
		VersionNumber:         v.VersionNumber,
		Status:                string(v.Status),
		IsActive:              v.IsActive,
		PublishedAt:           v.PublishedAt,
		PublishedBy:           v.PublishedBy,
		AcceptancePublishedAt: v.AcceptancePublishedAt,
		AcceptancePublishedBy: v.AcceptancePublishedBy,
		ParentVersionID:       v.ParentVersionID,
		CurrentEditID:         v.CurrentEditID,
		CreatedAt:             v.CreatedAt,
		UpdatedAt:             v.UpdatedAt,
	}
}

// ToVersionHistoryEntry converts a domain PageVersion to a history entry
func ToVersionHistoryEntry(v *storefront.PageVersion) VersionHistoryEntry {
	return VersionHistoryEntry{
		ID:              v.ID,
		PageType:        v.PageType,
		VersionNumber:   v.VersionNumber,
		Status:          string(v.Status),
		PublishedAt:     v.PublishedAt,
		PublishedBy:     v.PublishedBy,
		ParentVersionID: v.ParentVersionID,
		CreatedAt:       v.CreatedAt,
	}
}
