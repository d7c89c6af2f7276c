package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	"gorm.io/gorm"
)

// GormPageVersionRepository implements PageVersionRepository using GORM
type GormPageVersionRepository struct {
	db *gorm.DB
}

// NewGormPageVersionRepository creates a new GormPageVersionRepository
func NewGormPageVersionRepository(db *gorm.DB) *GormPageVersionRepository {
	return &GormPageVersionRepository{db: db}
}

// FindByID finds a version by its ID
func (r *GormPageVersionRepository) FindByID(ctx context.Context, id uuid.UUID) (*storefront.PageVersion, error) {
	var version storefront.PageVersion
	if err := r.db.WithContext(ctx).First(&version, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &version, nil
}

// FindByIDForStore finds a version by ID within a store
func (r *GormPageVersionRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*storefront.PageVersion, error) {
	var version storefront.PageVersion
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&version).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &version, nil
}

// FindActiveByOwner finds the is_active row for an owner within a store
func (r *GormPageVersionRepository) FindActiveByOwner(ctx context.Context, userID, storeID uuid.UUID) (*storefront.PageVersion, error) {
	var version storefront.PageVersion
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ? AND is_active = ?", userID, storeID, true).
		Order("updated_at DESC").
		First(&version).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &version, nil
}

// FindDraftByOwner finds the single draft for (user, store, page type)
func (r *GormPageVersionRepository) FindDraftByOwner(ctx context.Context, userID, storeID uuid.UUID, pageType string) (*storefront.PageVersion, error) {
	var version storefront.PageVersion
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ? AND page_type = ? AND status = ?",
			userID, storeID, pageType, storefront.VersionStatusDraft).
		Order("version_number DESC").
		First(&version).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &version, nil
}

// FindLatestByStatus finds the highest-numbered version with the given status
func (r *GormPageVersionRepository) FindLatestByStatus(ctx context.Context, storeID uuid.UUID, pageType string, status storefront.VersionStatus) (*storefront.PageVersion, error) {
	var version storefront.PageVersion
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND page_type = ? AND status = ?", storeID, pageType, status).
		Order("version_number DESC").
		First(&version).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &version, nil
}

// MaxVersionNumber returns the highest assigned version number in a scope,
// or 0 for an empty scope
func (r *GormPageVersionRepository) MaxVersionNumber(ctx context.Context, storeID uuid.UUID, pageType string) (int, error) {
	var max int
	if err := r.db.WithContext(ctx).
		Model(&storefront.PageVersion{}).
		Where("store_id = ? AND page_type = ?", storeID, pageType).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

// Create inserts a new version row
func (r *GormPageVersionRepository) Create(ctx context.Context, version *storefront.PageVersion) error {
	if err := r.db.WithContext(ctx).Create(version).Error; err != nil {
		return translateDuplicate(err)
	}
	return nil
}

// Save persists in-place changes to an existing version
func (r *GormPageVersionRepository) Save(ctx context.Context, version *storefront.PageVersion) error {
	return r.db.WithContext(ctx).Save(version).Error
}

// CreateRevision atomically supersedes newer published/acceptance versions
// in the revision's scope and inserts the revision itself. The bulk update
// and the insert commit or roll back together; a half-applied revert would
// leave the scope with no live version or with two competing ones.
func (r *GormPageVersionRepository) CreateRevision(ctx context.Context, revision *storefront.PageVersion, supersedeAbove int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&storefront.PageVersion{}).
			Where("store_id = ? AND page_type = ? AND status IN ? AND version_number > ?",
				revision.StoreID, revision.PageType,
				[]storefront.VersionStatus{storefront.VersionStatusPublished, storefront.VersionStatusAcceptance},
				supersedeAbove).
			Updates(map[string]interface{}{
				"status":          storefront.VersionStatusReverted,
				"current_edit_id": nil,
				"updated_at":      time.Now(),
			}).Error; err != nil {
			return err
		}

		if err := tx.Create(revision).Error; err != nil {
			return translateDuplicate(err)
		}

		return nil
	})
}

// SetCurrentEdit clears every current-edit reference for the owner scope
// and sets it on the target row inside one transaction
func (r *GormPageVersionRepository) SetCurrentEdit(ctx context.Context, userID, storeID uuid.UUID, pageType string, versionID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&storefront.PageVersion{}).
			Where("user_id = ? AND store_id = ? AND page_type = ? AND current_edit_id IS NOT NULL",
				userID, storeID, pageType).
			Updates(map[string]interface{}{
				"current_edit_id": nil,
				"updated_at":      time.Now(),
			}).Error; err != nil {
			return err
		}

		result := tx.Model(&storefront.PageVersion{}).
			Where("id = ? AND store_id = ?", versionID, storeID).
			Updates(map[string]interface{}{
				"current_edit_id": versionID,
				"updated_at":      time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// VersionHistory returns published versions newest first, up to limit rows
func (r *GormPageVersionRepository) VersionHistory(ctx context.Context, storeID uuid.UUID, pageType string, limit int) ([]storefront.PageVersion, error) {
	if limit <= 0 {
		limit = 20
	}

	var versions []storefront.PageVersion
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND page_type = ? AND status = ?", storeID, pageType, storefront.VersionStatusPublished).
		Order("version_number DESC").
		Limit(limit).
		Find(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

// translateDuplicate maps unique-index violations onto the shared
// concurrency sentinel so the lifecycle engine can recompute the version
// number and retry.
func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrConcurrencyConflict
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrConcurrencyConflict
	}
	return err
}

// Ensure GormPageVersionRepository implements PageVersionRepository
var _ storefront.PageVersionRepository = (*GormPageVersionRepository)(nil)
