package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/plugin"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInstallationRepository implements InstallationRepository using GORM
type GormInstallationRepository struct {
	db *gorm.DB
}

// NewGormInstallationRepository creates a new GormInstallationRepository
func NewGormInstallationRepository(db *gorm.DB) *GormInstallationRepository {
	return &GormInstallationRepository{db: db}
}

// FindByID finds an installation by ID within a store
func (r *GormInstallationRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*plugin.Installation, error) {
	var installation plugin.Installation
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&installation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &installation, nil
}

// FindBySlug finds an installation by plugin slug within a store
func (r *GormInstallationRepository) FindBySlug(ctx context.Context, storeID uuid.UUID, slug string) (*plugin.Installation, error) {
	var installation plugin.Installation
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND slug = ?", storeID, slug).
		First(&installation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &installation, nil
}

// FindAll finds every installation for a store
func (r *GormInstallationRepository) FindAll(ctx context.Context, storeID uuid.UUID) ([]plugin.Installation, error) {
	var installations []plugin.Installation
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("name ASC").
		Find(&installations).Error; err != nil {
		return nil, err
	}
	return installations, nil
}

// FindEnabled finds all enabled installations for a store
func (r *GormInstallationRepository) FindEnabled(ctx context.Context, storeID uuid.UUID) ([]plugin.Installation, error) {
	var installations []plugin.Installation
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND status = ?", storeID, plugin.InstallationStatusEnabled).
		Order("name ASC").
		Find(&installations).Error; err != nil {
		return nil, err
	}
	return installations, nil
}

// Save creates or updates an installation
func (r *GormInstallationRepository) Save(ctx context.Context, installation *plugin.Installation) error {
	return r.db.WithContext(ctx).Save(installation).Error
}

// ExistsBySlug checks if a plugin is already installed in the store
func (r *GormInstallationRepository) ExistsBySlug(ctx context.Context, storeID uuid.UUID, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&plugin.Installation{}).
		Where("store_id = ? AND slug = ?", storeID, slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormInstallationRepository implements InstallationRepository
var _ plugin.InstallationRepository = (*GormInstallationRepository)(nil)
