package storefront

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePageVersion = "PageVersion"

// Event type constants
const (
	EventTypeDraftCreated                 = "PageDraftCreated"
	EventTypeVersionPublishedToAcceptance = "PageVersionPublishedToAcceptance"
	EventTypeVersionPublished             = "PageVersionPublished"
	EventTypeVersionReverted              = "PageVersionReverted"
)

// DraftCreatedEvent is published when a new draft version is created
type DraftCreatedEvent struct {
	shared.BaseDomainEvent
	VersionID       uuid.UUID  `json:"version_id"`
	UserID          uuid.UUID  `json:"user_id"`
	PageType        string     `json:"page_type"`
	VersionNumber   int        `json:"version_number"`
	ParentVersionID *uuid.UUID `json:"parent_version_id,omitempty"`
}

// NewDraftCreatedEvent creates a new DraftCreatedEvent
func NewDraftCreatedEvent(version *PageVersion) *DraftCreatedEvent {
	return &DraftCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDraftCreated, AggregateTypePageVersion, version.ID, version.StoreID),
		VersionID:       version.ID,
		UserID:          version.UserID,
		PageType:        version.PageType,
		VersionNumber:   version.VersionNumber,
		ParentVersionID: version.ParentVersionID,
	}
}

// VersionPublishedToAcceptanceEvent is published when a draft reaches the
// acceptance (preview) stage
type VersionPublishedToAcceptanceEvent struct {
	shared.BaseDomainEvent
	VersionID     uuid.UUID `json:"version_id"`
	PageType      string    `json:"page_type"`
	VersionNumber int       `json:"version_number"`
	PublishedBy   uuid.UUID `json:"published_by"`
}

// NewVersionPublishedToAcceptanceEvent creates a new VersionPublishedToAcceptanceEvent
func NewVersionPublishedToAcceptanceEvent(version *PageVersion) *VersionPublishedToAcceptanceEvent {
	e := &VersionPublishedToAcceptanceEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVersionPublishedToAcceptance, AggregateTypePageVersion, version.ID, version.StoreID),
		VersionID:       version.ID,
		PageType:        version.PageType,
		VersionNumber:   version.VersionNumber,
	}
	if version.AcceptancePublishedBy != nil {
		e.PublishedBy = *version.AcceptancePublishedBy
	}
	return e
}

// VersionPublishedEvent is published when a version goes live in production
type VersionPublishedEvent struct {
	shared.BaseDomainEvent
	VersionID     uuid.UUID `json:"version_id"`
	PageType      string    `json:"page_type"`
	VersionNumber int       `json:"version_number"`
	PublishedBy   uuid.UUID `json:"published_by"`
}

// NewVersionPublishedEvent creates a new VersionPublishedEvent
func NewVersionPublishedEvent(version *PageVersion) *VersionPublishedEvent {
	e := &VersionPublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVersionPublished, AggregateTypePageVersion, version.ID, version.StoreID),
		VersionID:       version.ID,
		PageType:        version.PageType,
		VersionNumber:   version.VersionNumber,
	}
	if version.PublishedBy != nil {
		e.PublishedBy = *version.PublishedBy
	}
	return e
}

// VersionRevertedEvent is published when a revert creates a new published
// version from an older one
type VersionRevertedEvent struct {
	shared.BaseDomainEvent
	VersionID           uuid.UUID `json:"version_id"`
	PageType            string    `json:"page_type"`
	VersionNumber       int       `json:"version_number"`
	RevertedToVersionID uuid.UUID `json:"reverted_to_version_id"`
	RevertedToNumber    int       `json:"reverted_to_number"`
}

// NewVersionRevertedEvent creates a new VersionRevertedEvent
func NewVersionRevertedEvent(version, target *PageVersion) *VersionRevertedEvent {
	return &VersionRevertedEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypeVersionReverted, AggregateTypePageVersion, version.ID, version.StoreID),
		VersionID:           version.ID,
		PageType:            version.PageType,
		VersionNumber:       version.VersionNumber,
		RevertedToVersionID: target.ID,
		RevertedToNumber:    target.VersionNumber,
	}
}
