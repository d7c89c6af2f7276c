package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by ID within a store
func (r *GormCategoryRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindBySlug finds a category by its slug within a store
func (r *GormCategoryRepository) FindBySlug(ctx context.Context, storeID uuid.UUID, slug string) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND slug = ?", storeID, slug).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindRoots finds all root categories for a store ordered by sort order
func (r *GormCategoryRepository) FindRoots(ctx context.Context, storeID uuid.UUID) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND parent_id IS NULL", storeID).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindChildren finds all direct children of a category
func (r *GormCategoryRepository) FindChildren(ctx context.Context, storeID, parentID uuid.UUID) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND parent_id = ?", storeID, parentID).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindDescendants finds every descendant via the materialized path
func (r *GormCategoryRepository) FindDescendants(ctx context.Context, storeID uuid.UUID, path string) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND path LIKE ?", storeID, path+"/%").
		Order("path ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete deletes a category within a store
func (r *GormCategoryRepository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		Delete(&catalog.Category{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// HasChildren checks if a category has any children
func (r *GormCategoryRepository) HasChildren(ctx context.Context, storeID, categoryID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Category{}).
		Where("store_id = ? AND parent_id = ?", storeID, categoryID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsBySlug checks if a slug is already taken in the store
func (r *GormCategoryRepository) ExistsBySlug(ctx context.Context, storeID uuid.UUID, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Category{}).
		Where("store_id = ? AND slug = ?", storeID, slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
