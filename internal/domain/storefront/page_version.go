package storefront

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// VersionStatus represents the lifecycle status of a page version
type VersionStatus string

const (
	// VersionStatusDraft is an editable, unpublished version
	VersionStatusDraft VersionStatus = "draft"
	// VersionStatusAcceptance is published to the preview environment only
	VersionStatusAcceptance VersionStatus = "acceptance"
	// VersionStatusPublished is the live, production-serving version
	VersionStatusPublished VersionStatus = "published"
	// VersionStatusReverted marks a version superseded by a revert; terminal
	VersionStatusReverted VersionStatus = "reverted"
)

// IsValid returns true if the status is one of the known lifecycle states
func (s VersionStatus) IsValid() bool {
	switch s {
	case VersionStatusDraft, VersionStatusAcceptance, VersionStatusPublished, VersionStatusReverted:
		return true
	}
	return false
}

// PageVersion is the aggregate root for a single version of a storefront
// page's slot configuration. Versions are numbered per (store, page type)
// scope; the configuration blob itself is opaque to the lifecycle and is
// only ever copied or stored.
type PageVersion struct {
	shared.StoreAggregateRoot
	UserID                uuid.UUID     `gorm:"type:uuid;not null;index:idx_page_versions_owner"`
	PageType              string        `gorm:"type:varchar(50);not null;uniqueIndex:idx_page_versions_scope_number,priority:2"`
	Configuration         string        `gorm:"type:jsonb;not null"` // opaque slot tree owned by the editor
	VersionNumber         int           `gorm:"not null;uniqueIndex:idx_page_versions_scope_number,priority:3"`
	Status                VersionStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	IsActive              bool          `gorm:"not null;default:false"` // legacy flag, written but never read by transitions
	PublishedAt           *time.Time
	PublishedBy           *uuid.UUID `gorm:"type:uuid"`
	AcceptancePublishedAt *time.Time
	AcceptancePublishedBy *uuid.UUID `gorm:"type:uuid"`
	ParentVersionID       *uuid.UUID `gorm:"type:uuid;index"` // lineage back-reference, not ownership
	CurrentEditID         *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (PageVersion) TableName() string {
	return "page_versions"
}

// NewDraft creates a new draft version for the given scope. The caller is
// responsible for supplying the next version number and, when one exists,
// the id of the published version the draft derives from.
func NewDraft(userID, storeID uuid.UUID, pageType, configuration string, versionNumber int, parentVersionID *uuid.UUID) (*PageVersion, error) {
	if err := validatePageType(pageType); err != nil {
		return nil, err
	}
	if versionNumber < 1 {
		return nil, shared.NewDomainError("INVALID_VERSION_NUMBER", "Version number must be positive")
	}
	if configuration == "" {
		configuration = "{}"
	}

	version := &PageVersion{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		UserID:             userID,
		PageType:           pageType,
		Configuration:      configuration,
		VersionNumber:      versionNumber,
		Status:             VersionStatusDraft,
		IsActive:           true,
		ParentVersionID:    parentVersionID,
	}

	version.AddDomainEvent(NewDraftCreatedEvent(version))

	return version, nil
}

// NewRevision creates a new published version carrying a copy of the
// target's configuration. The target itself is never mutated; the new row
// points back at it through both the lineage and current-edit references.
func NewRevision(target *PageVersion, versionNumber int, revertedBy uuid.UUID) (*PageVersion, error) {
	if target == nil {
		return nil, shared.ErrNotFound
	}
	if !target.IsRevertTarget() {
		return nil, shared.NewInvalidStateError("revert", "published or acceptance", string(target.Status))
	}
	if versionNumber <= target.VersionNumber {
		return nil, shared.NewDomainError("INVALID_VERSION_NUMBER", "Revision number must exceed the target's version number")
	}

	now := time.Now()
	targetID := target.ID
	version := &PageVersion{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(target.StoreID),
		UserID:             revertedBy,
		PageType:           target.PageType,
		Configuration:      target.Configuration,
		VersionNumber:      versionNumber,
		Status:             VersionStatusPublished,
		IsActive:           true,
		PublishedAt:        &now,
		PublishedBy:        &revertedBy,
		ParentVersionID:    &targetID,
		CurrentEditID:      &targetID,
	}

	version.AddDomainEvent(NewVersionRevertedEvent(version, target))

	return version, nil
}

// UpdateConfiguration replaces the draft's configuration blob.
// Only drafts are editable in place.
func (v *PageVersion) UpdateConfiguration(configuration string) error {
	if v.Status != VersionStatusDraft {
		return shared.NewInvalidStateError("update configuration", string(VersionStatusDraft), string(v.Status))
	}
	if configuration == "" {
		return shared.NewDomainError("INVALID_CONFIGURATION", "Configuration cannot be empty")
	}

	v.Configuration = configuration
	v.UpdatedAt = time.Now()

	return nil
}

// Touch bumps the updated-at timestamp without changing anything else.
// Used when an upsert carries no configuration payload.
func (v *PageVersion) Touch() {
	v.UpdatedAt = time.Now()
}

// PublishToAcceptance promotes a draft to the acceptance (preview) stage
func (v *PageVersion) PublishToAcceptance(publishedBy uuid.UUID) error {
	if v.Status != VersionStatusDraft {
		return shared.NewInvalidStateError("publish to acceptance", string(VersionStatusDraft), string(v.Status))
	}

	now := time.Now()
	v.Status = VersionStatusAcceptance
	v.AcceptancePublishedAt = &now
	v.AcceptancePublishedBy = &publishedBy
	v.UpdatedAt = now

	v.AddDomainEvent(NewVersionPublishedToAcceptanceEvent(v))

	return nil
}

// PublishToProduction promotes an acceptance version to production
func (v *PageVersion) PublishToProduction(publishedBy uuid.UUID) error {
	if v.Status != VersionStatusAcceptance {
		return shared.NewInvalidStateError("publish to production", string(VersionStatusAcceptance), string(v.Status))
	}

	v.markPublished(publishedBy)

	return nil
}

// PublishDirect promotes a draft straight to production, bypassing the
// acceptance stage. Legacy path kept for stores without a preview
// environment.
func (v *PageVersion) PublishDirect(publishedBy uuid.UUID) error {
	if v.Status != VersionStatusDraft {
		return shared.NewInvalidStateError("publish", string(VersionStatusDraft), string(v.Status))
	}

	v.markPublished(publishedBy)

	return nil
}

func (v *PageVersion) markPublished(publishedBy uuid.UUID) {
	now := time.Now()
	v.Status = VersionStatusPublished
	v.IsActive = true
	v.PublishedAt = &now
	v.PublishedBy = &publishedBy
	v.UpdatedAt = now

	v.AddDomainEvent(NewVersionPublishedEvent(v))
}

// MarkReverted moves a published or acceptance version into the terminal
// reverted state and drops its current-edit reference.
func (v *PageVersion) MarkReverted() error {
	if !v.IsRevertTarget() {
		return shared.NewInvalidStateError("mark reverted", "published or acceptance", string(v.Status))
	}

	v.Status = VersionStatusReverted
	v.CurrentEditID = nil
	v.UpdatedAt = time.Now()

	return nil
}

// IsDraft returns true while the version is still editable
func (v *PageVersion) IsDraft() bool {
	return v.Status == VersionStatusDraft
}

// IsPublished returns true if the version is serving production
func (v *PageVersion) IsPublished() bool {
	return v.Status == VersionStatusPublished
}

// IsRevertTarget returns true if a revert may copy from or supersede this
// version; drafts and already-reverted versions are excluded.
func (v *PageVersion) IsRevertTarget() bool {
	return v.Status == VersionStatusPublished || v.Status == VersionStatusAcceptance
}

// validatePageType validates the page type key
func validatePageType(pageType string) error {
	if pageType == "" {
		return shared.NewDomainError("INVALID_PAGE_TYPE", "Page type cannot be empty")
	}
	if len(pageType) > 50 {
		return shared.NewDomainError("INVALID_PAGE_TYPE", "Page type cannot exceed 50 characters")
	}
	for _, r := range pageType {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_PAGE_TYPE", "Page type can only contain lowercase letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}
