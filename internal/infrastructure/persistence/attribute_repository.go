package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAttributeRepository implements AttributeRepository using GORM
type GormAttributeRepository struct {
	db *gorm.DB
}

// NewGormAttributeRepository creates a new GormAttributeRepository
func NewGormAttributeRepository(db *gorm.DB) *GormAttributeRepository {
	return &GormAttributeRepository{db: db}
}

// FindByID finds an attribute by ID within a store
func (r *GormAttributeRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*catalog.Attribute, error) {
	var attribute catalog.Attribute
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&attribute).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &attribute, nil
}

// FindByCode finds an attribute by its code within a store
func (r *GormAttributeRepository) FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*catalog.Attribute, error) {
	var attribute catalog.Attribute
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND code = ?", storeID, code).
		First(&attribute).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &attribute, nil
}

// FindAll finds all attributes for a store
func (r *GormAttributeRepository) FindAll(ctx context.Context, storeID uuid.UUID) ([]catalog.Attribute, error) {
	var attributes []catalog.Attribute
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("code ASC").
		Find(&attributes).Error; err != nil {
		return nil, err
	}
	return attributes, nil
}

// FindFilterable finds attributes exposed as storefront filters
func (r *GormAttributeRepository) FindFilterable(ctx context.Context, storeID uuid.UUID) ([]catalog.Attribute, error) {
	var attributes []catalog.Attribute
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND filterable = ?", storeID, true).
		Order("code ASC").
		Find(&attributes).Error; err != nil {
		return nil, err
	}
	return attributes, nil
}

// Save creates or updates an attribute
func (r *GormAttributeRepository) Save(ctx context.Context, attribute *catalog.Attribute) error {
	return r.db.WithContext(ctx).Save(attribute).Error
}

// Delete deletes an attribute within a store
func (r *GormAttributeRepository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		Delete(&catalog.Attribute{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByCode checks if an attribute code is already taken in the store
func (r *GormAttributeRepository) ExistsByCode(ctx context.Context, storeID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Attribute{}).
		Where("store_id = ? AND code = ?", storeID, code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormAttributeRepository implements AttributeRepository
var _ catalog.AttributeRepository = (*GormAttributeRepository)(nil)
