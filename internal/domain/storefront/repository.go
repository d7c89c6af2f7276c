package storefront

import (
	"context"

	"github.com/google/uuid"
)

// PageVersionRepository defines the interface for page version persistence.
// Version numbering and draft uniqueness are scoped per (store, page type);
// draft and current-edit lookups are additionally scoped by the editing user.
type PageVersionRepository interface {
	// FindByID finds a version by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*PageVersion, error)

	// FindByIDForStore finds a version by ID within a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*PageVersion, error)

	// FindActiveByOwner finds the row flagged is_active for an owner within
	// a store. Legacy helper retained for the editor's resume-session path.
	FindActiveByOwner(ctx context.Context, userID, storeID uuid.UUID) (*PageVersion, error)

	// FindDraftByOwner finds the single draft for (user, store, page type),
	// if one exists
	FindDraftByOwner(ctx context.Context, userID, storeID uuid.UUID, pageType string) (*PageVersion, error)

	// FindLatestByStatus finds the highest-numbered version with the given
	// status in a (store, page type) scope
	FindLatestByStatus(ctx context.Context, storeID uuid.UUID, pageType string, status VersionStatus) (*PageVersion, error)

	// MaxVersionNumber returns the highest version number assigned in a
	// scope, or 0 when the scope has no versions yet
	MaxVersionNumber(ctx context.Context, storeID uuid.UUID, pageType string) (int, error)

	// Create inserts a new version row. A duplicate (store, page type,
	// version number) maps to shared.ErrConcurrencyConflict so callers can
	// recompute the number and retry.
	Create(ctx context.Context, version *PageVersion) error

	// Save persists in-place changes to an existing version
	Save(ctx context.Context, version *PageVersion) error

	// CreateRevision atomically marks every published or acceptance version
	// in the revision's scope with a version number above supersedeAbove as
	// reverted, then inserts the revision. Both steps run in one
	// transaction; any failure rolls the whole operation back.
	CreateRevision(ctx context.Context, revision *PageVersion, supersedeAbove int) error

	// SetCurrentEdit atomically clears the current-edit reference on every
	// version for (user, store, page type) and sets it on the target row
	SetCurrentEdit(ctx context.Context, userID, storeID uuid.UUID, pageType string, versionID uuid.UUID) error

	// VersionHistory returns published versions in a scope ordered by
	// version number descending, newest first, up to limit rows
	VersionHistory(ctx context.Context, storeID uuid.UUID, pageType string, limit int) ([]PageVersion, error)
}
