package integration

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/integration"
)

// ConnectShopRequest is the input for starting a shop connection
type ConnectShopRequest struct {
	ShopDomain string `json:"shop_domain" binding:"required"`
}

// CompleteConnectionRequest is the input for the OAuth callback
type CompleteConnectionRequest struct {
	AccessToken string   `json:"access_token" binding:"required"`
	Scopes      []string `json:"scopes" binding:"required,min=1"`
}

// RotateTokenRequest is the input for replacing an access token
type RotateTokenRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

// ConnectionResponse is the API representation of a connection. The access
// token is never returned.
type ConnectionResponse struct {
	ID             uuid.UUID  `json:"id"`
	ShopDomain     string     `json:"shop_domain"`
	Scopes         []string   `json:"scopes"`
	Status         string     `json:"status"`
	ConnectedAt    *time.Time `json:"connected_at,omitempty"`
	RevokedAt      *time.Time `json:"revoked_at,omitempty"`
	TokenRotatedAt *time.Time `json:"token_rotated_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToConnectionResponse converts a domain connection to its API representation
func ToConnectionResponse(connection *integration.ShopifyConnection) *ConnectionResponse {
	scopes := connection.ScopeList()
	if scopes == nil {
		scopes = []string{}
	}

	return &ConnectionResponse{
		ID:             connection.ID,
		ShopDomain:     connection.ShopDomain,
		Scopes:         scopes,
		Status:         string(connection.Status),
		ConnectedAt:    connection.ConnectedAt,
		RevokedAt:      connection.RevokedAt,
		TokenRotatedAt: connection.TokenRotatedAt,
		CreatedAt:      connection.CreatedAt,
		UpdatedAt:      connection.UpdatedAt,
	}
}
