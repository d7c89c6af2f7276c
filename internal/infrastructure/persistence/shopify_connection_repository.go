package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/integration"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormShopifyConnectionRepository implements ShopifyConnectionRepository using GORM
type GormShopifyConnectionRepository struct {
	db *gorm.DB
}

// NewGormShopifyConnectionRepository creates a new GormShopifyConnectionRepository
func NewGormShopifyConnectionRepository(db *gorm.DB) *GormShopifyConnectionRepository {
	return &GormShopifyConnectionRepository{db: db}
}

// FindByID finds a connection by ID within a store
func (r *GormShopifyConnectionRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*integration.ShopifyConnection, error) {
	var connection integration.ShopifyConnection
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&connection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &connection, nil
}

// FindByShopDomain finds a connection by shop domain within a store
func (r *GormShopifyConnectionRepository) FindByShopDomain(ctx context.Context, storeID uuid.UUID, shopDomain string) (*integration.ShopifyConnection, error) {
	var connection integration.ShopifyConnection
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND shop_domain = ?", storeID, shopDomain).
		First(&connection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &connection, nil
}

// FindConnected finds all active connections for a store
func (r *GormShopifyConnectionRepository) FindConnected(ctx context.Context, storeID uuid.UUID) ([]integration.ShopifyConnection, error) {
	var connections []integration.ShopifyConnection
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND status = ?", storeID, integration.ConnectionStatusConnected).
		Order("shop_domain ASC").
		Find(&connections).Error; err != nil {
		return nil, err
	}
	return connections, nil
}

// FindAll finds all connections for a store regardless of status
func (r *GormShopifyConnectionRepository) FindAll(ctx context.Context, storeID uuid.UUID) ([]integration.ShopifyConnection, error) {
	var connections []integration.ShopifyConnection
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("shop_domain ASC").
		Find(&connections).Error; err != nil {
		return nil, err
	}
	return connections, nil
}

// Save creates or updates a connection
func (r *GormShopifyConnectionRepository) Save(ctx context.Context, connection *integration.ShopifyConnection) error {
	return r.db.WithContext(ctx).Save(connection).Error
}

// Delete deletes a connection within a store
func (r *GormShopifyConnectionRepository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		Delete(&integration.ShopifyConnection{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormShopifyConnectionRepository implements ShopifyConnectionRepository
var _ integration.ShopifyConnectionRepository = (*GormShopifyConnectionRepository)(nil)
