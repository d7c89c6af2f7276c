package integration

import (
	"context"

	"github.com/google/uuid"
)

// ShopifyConnectionRepository defines the interface for connection persistence
type ShopifyConnectionRepository interface {
	// FindByID finds a connection by ID within a store
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*ShopifyConnection, error)

	// FindByShopDomain finds a connection by shop domain within a store
	FindByShopDomain(ctx context.Context, storeID uuid.UUID, shopDomain string) (*ShopifyConnection, error)

	// FindConnected finds all active connections for a store
	FindConnected(ctx context.Context, storeID uuid.UUID) ([]ShopifyConnection, error)

	// FindAll finds all connections for a store regardless of status
	FindAll(ctx context.Context, storeID uuid.UUID) ([]ShopifyConnection, error)

	// Save creates or updates a connection
	Save(ctx context.Context, connection *ShopifyConnection) error

	// Delete deletes a connection within a store
	Delete(ctx context.Context, storeID, id uuid.UUID) error
}
