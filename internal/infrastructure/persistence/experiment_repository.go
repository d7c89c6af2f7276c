package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/experiment"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormExperimentRepository implements ExperimentRepository using GORM
type GormExperimentRepository struct {
	db *gorm.DB
}

// NewGormExperimentRepository creates a new GormExperimentRepository
func NewGormExperimentRepository(db *gorm.DB) *GormExperimentRepository {
	return &GormExperimentRepository{db: db}
}

// FindByID finds an experiment with its variants by ID within a store
func (r *GormExperimentRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*experiment.Experiment, error) {
	var exp experiment.Experiment
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("store_id = ? AND id = ?", storeID, id).
		First(&exp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &exp, nil
}

// FindByKey finds an experiment by its key within a store
func (r *GormExperimentRepository) FindByKey(ctx context.Context, storeID uuid.UUID, key string) (*experiment.Experiment, error) {
	var exp experiment.Experiment
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("store_id = ? AND key = ?", storeID, key).
		First(&exp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &exp, nil
}

// FindRunningByPageType finds the running experiment for a page type
func (r *GormExperimentRepository) FindRunningByPageType(ctx context.Context, storeID uuid.UUID, pageType string) (*experiment.Experiment, error) {
	var exp experiment.Experiment
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("store_id = ? AND page_type = ? AND status = ?", storeID, pageType, experiment.ExperimentStatusRunning).
		First(&exp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &exp, nil
}

// FindAll finds all experiments for a store, newest first
func (r *GormExperimentRepository) FindAll(ctx context.Context, storeID uuid.UUID) ([]experiment.Experiment, error) {
	var experiments []experiment.Experiment
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&experiments).Error; err != nil {
		return nil, err
	}
	return experiments, nil
}

// Save creates or updates an experiment and replaces its variant rows so
// removed variants do not linger
func (r *GormExperimentRepository) Save(ctx context.Context, exp *experiment.Experiment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Variants").Save(exp).Error; err != nil {
			return err
		}
		if err := tx.Where("experiment_id = ?", exp.ID).Delete(&experiment.Variant{}).Error; err != nil {
			return err
		}
		if len(exp.Variants) > 0 {
			if err := tx.Create(&exp.Variants).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes an experiment and its variants within a store
func (r *GormExperimentRepository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("store_id = ? AND id = ?", storeID, id).Delete(&experiment.Experiment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("experiment_id = ?", id).Delete(&experiment.Variant{}).Error
	})
}

// ExistsByKey checks if an experiment key is already taken in the store
func (r *GormExperimentRepository) ExistsByKey(ctx context.Context, storeID uuid.UUID, key string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&experiment.Experiment{}).
		Where("store_id = ? AND key = ?", storeID, key).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormExperimentRepository implements ExperimentRepository
var _ experiment.ExperimentRepository = (*GormExperimentRepository)(nil)
