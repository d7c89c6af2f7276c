package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/analytics"
	"gorm.io/gorm"
)

// interactionInsertBatchSize bounds one multi-row INSERT
const interactionInsertBatchSize = 100

// GormInteractionRepository implements InteractionRepository using GORM
type GormInteractionRepository struct {
	db *gorm.DB
}

// NewGormInteractionRepository creates a new GormInteractionRepository
func NewGormInteractionRepository(db *gorm.DB) *GormInteractionRepository {
	return &GormInteractionRepository{db: db}
}

// CreateBatch inserts a batch of captured interactions
func (r *GormInteractionRepository) CreateBatch(ctx context.Context, interactions []*analytics.Interaction) error {
	if len(interactions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(interactions, interactionInsertBatchSize).Error
}

// FindRecent returns interactions for a page scope captured after the
// given time, newest first
func (r *GormInteractionRepository) FindRecent(ctx context.Context, storeID uuid.UUID, pageType string, since time.Time, limit int) ([]analytics.Interaction, error) {
	if limit <= 0 {
		limit = 1000
	}

	var interactions []analytics.Interaction
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND page_type = ? AND occurred_at > ?", storeID, pageType, since).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&interactions).Error; err != nil {
		return nil, err
	}
	return interactions, nil
}

// CountBySession counts interactions captured in one session
func (r *GormInteractionRepository) CountBySession(ctx context.Context, storeID uuid.UUID, sessionID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&analytics.Interaction{}).
		Where("store_id = ? AND session_id = ?", storeID, sessionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteOlderThan removes interactions past the retention window
func (r *GormInteractionRepository) DeleteOlderThan(ctx context.Context, storeID uuid.UUID, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("store_id = ? AND occurred_at < ?", storeID, cutoff).
		Delete(&analytics.Interaction{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteAllOlderThan removes expired interactions across every store
func (r *GormInteractionRepository) DeleteAllOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("occurred_at < ?", cutoff).
		Delete(&analytics.Interaction{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Ensure GormInteractionRepository implements InteractionRepository
var _ analytics.InteractionRepository = (*GormInteractionRepository)(nil)
