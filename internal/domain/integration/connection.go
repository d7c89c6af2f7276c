package integration

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ConnectionStatus represents the lifecycle of a Shopify store connection
type ConnectionStatus string

const (
	ConnectionStatusPending   ConnectionStatus = "pending"
	ConnectionStatusConnected ConnectionStatus = "connected"
	ConnectionStatusRevoked   ConnectionStatus = "revoked"
)

// shopDomainSuffix is the only shop domain form Shopify issues
const shopDomainSuffix = ".myshopify.com"

// ShopifyConnection records a store's OAuth link to a Shopify shop. The
// connection holds the granted token and scopes; actual catalog/order sync
// runs elsewhere against this record.
type ShopifyConnection struct {
	shared.StoreAggregateRoot
	ShopDomain     string           `gorm:"type:varchar(120);not null;uniqueIndex:idx_shopify_connections_store_shop,priority:2"`
	AccessToken    string           `gorm:"type:varchar(255)"`
	Scopes         string           `gorm:"type:varchar(500)"`
	Status         ConnectionStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	ConnectedAt    *time.Time
	RevokedAt      *time.Time
	TokenRotatedAt *time.Time
}

// TableName returns the table name for GORM
func (ShopifyConnection) TableName() string {
	return "shopify_connections"
}

// NewShopifyConnection starts a pending connection for a shop domain
func NewShopifyConnection(storeID uuid.UUID, shopDomain string) (*ShopifyConnection, error) {
	shopDomain = strings.ToLower(strings.TrimSpace(shopDomain))
	if shopDomain == "" {
		return nil, shared.NewDomainError("INVALID_SHOP_DOMAIN", "Shop domain cannot be empty")
	}
	if !strings.HasSuffix(shopDomain, shopDomainSuffix) || len(shopDomain) <= len(shopDomainSuffix) {
		return nil, shared.NewDomainError("INVALID_SHOP_DOMAIN", "Shop domain must be a myshopify.com domain")
	}

	return &ShopifyConnection{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		ShopDomain:         shopDomain,
		Status:             ConnectionStatusPending,
	}, nil
}

// Connect stores the granted token and scopes after the OAuth callback
func (c *ShopifyConnection) Connect(accessToken string, scopes []string) error {
	if c.Status == ConnectionStatusRevoked {
		return shared.NewDomainError("INVALID_STATE", "Revoked connections cannot be reconnected; create a new connection")
	}
	if accessToken == "" {
		return shared.NewDomainError("INVALID_TOKEN", "Access token cannot be empty")
	}
	if len(scopes) == 0 {
		return shared.NewDomainError("INVALID_SCOPES", "At least one scope is required")
	}

	now := time.Now()
	c.AccessToken = accessToken
	c.Scopes = strings.Join(scopes, ",")
	c.Status = ConnectionStatusConnected
	c.ConnectedAt = &now
	c.UpdatedAt = now

	return nil
}

// RotateToken replaces the access token on an active connection
func (c *ShopifyConnection) RotateToken(accessToken string) error {
	if c.Status != ConnectionStatusConnected {
		return shared.NewDomainError("INVALID_STATE", "Only connected shops can rotate tokens")
	}
	if accessToken == "" {
		return shared.NewDomainError("INVALID_TOKEN", "Access token cannot be empty")
	}

	now := time.Now()
	c.AccessToken = accessToken
	c.TokenRotatedAt = &now
	c.UpdatedAt = now

	return nil
}

// Revoke drops the token and ends the connection. Revoked is terminal.
func (c *ShopifyConnection) Revoke() error {
	if c.Status == ConnectionStatusRevoked {
		return shared.NewDomainError("INVALID_STATE", "Connection is already revoked")
	}

	now := time.Now()
	c.AccessToken = ""
	c.Status = ConnectionStatusRevoked
	c.RevokedAt = &now
	c.UpdatedAt = now

	return nil
}

// IsConnected returns true if the connection currently holds a valid link
func (c *ShopifyConnection) IsConnected() bool {
	return c.Status == ConnectionStatusConnected
}

// ScopeList splits the stored scopes
func (c *ShopifyConnection) ScopeList() []string {
	if c.Scopes == "" {
		return nil
	}
	return strings.Split(c.Scopes, ",")
}

// HasScope checks whether a scope was granted
func (c *ShopifyConnection) HasScope(scope string) bool {
	for _, granted := range c.ScopeList() {
		if granted == scope {
			return true
		}
	}
	return false
}
