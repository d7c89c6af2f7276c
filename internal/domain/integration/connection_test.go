package integration

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShopifyConnection(t *testing.T) {
	storeID := uuid.New()

	t.Run("creates pending connection", func(t *testing.T) {
		connection, err := NewShopifyConnection(storeID, "  Acme-Shop.myshopify.com ")

		require.NoError(t, err)
		assert.Equal(t, "acme-shop.myshopify.com", connection.ShopDomain)
		assert.Equal(t, ConnectionStatusPending, connection.Status)
		assert.Empty(t, connection.AccessToken)
		assert.False(t, connection.IsConnected())
	})

	t.Run("rejects non-shopify domain", func(t *testing.T) {
		_, err := NewShopifyConnection(storeID, "acme-shop.example.com")
		assert.Error(t, err)
	})

	t.Run("rejects bare suffix", func(t *testing.T) {
		_, err := NewShopifyConnection(storeID, ".myshopify.com")
		assert.Error(t, err)
	})

	t.Run("rejects empty domain", func(t *testing.T) {
		_, err := NewShopifyConnection(storeID, "")
		assert.Error(t, err)
	})
}

func TestShopifyConnection_Connect(t *testing.T) {
	t.Run("stores token and scopes", func(t *testing.T) {
		connection, err := NewShopifyConnection(uuid.New(), "acme.myshopify.com")
		require.NoError(t, err)

		require.NoError(t, connection.Connect("shpat_token", []string{"read_products", "read_orders"}))

		assert.True(t, connection.IsConnected())
		assert.Equal(t, "shpat_token", connection.AccessToken)
		assert.True(t, connection.HasScope("read_orders"))
		assert.False(t, connection.HasScope("write_orders"))
		assert.NotNil(t, connection.ConnectedAt)
	})

	t.Run("rejects empty token", func(t *testing.T) {
		connection, err := NewShopifyConnection(uuid.New(), "acme.myshopify.com")
		require.NoError(t, err)

		assert.Error(t, connection.Connect("", []string{"read_products"}))
	})

	t.Run("rejects empty scopes", func(t *testing.T) {
		connection, err := NewShopifyConnection(uuid.New(), "acme.myshopify.com")
		require.NoError(t, err)

		assert.Error(t, connection.Connect("shpat_token", nil))
	})

	t.Run("cannot reconnect a revoked connection", func(t *testing.T) {
		connection, err := NewShopifyConnection(uuid.New(), "acme.myshopify.com")
		require.NoError(t, err)
		require.NoError(t, connection.Connect("shpat_token", []string{"read_products"}))
		require.NoError(t, connection.Revoke())

		assert.Error(t, connection.Connect("shpat_other", []string{"read_products"}))
	})
}

func TestShopifyConnection_RotateToken(t *testing.T) {
	t.Run("rotates token on connected shop", func(t *testing.T) {
		connection, err := NewShopifyConnection(uuid.New(), "acme.myshopify.com")
		require.NoError(t, err)
		require.NoError(t, connection.Connect("shpat_old", []string{"read_products"}))

		require.NoError(t, connection.RotateToken("shpat_new"))

		assert.Equal(t, "shpat_new", connection.AccessToken)
		assert.NotNil(t, connection.TokenRotatedAt)
	})

	t.Run("rejects rotation while pending", func(t *testing.T) {
		connection, err := NewShopifyConnection(uuid.New(), "acme.myshopify.com")
		require.NoError(t, err)

		assert.Error(t, connection.RotateToken("shpat_new"))
	})
}

func TestShopifyConnection_Revoke(t *testing.T) {
	t.Run("drops the token and is terminal", func(t *testing.T) {
		connection, err := NewShopifyConnection(uuid.New(), "acme.myshopify.com")
		require.NoError(t, err)
		require.NoError(t, connection.Connect("shpat_token", []string{"read_products"}))

		require.NoError(t, connection.Revoke())

		assert.Equal(t, ConnectionStatusRevoked, connection.Status)
		assert.Empty(t, connection.AccessToken)
		assert.NotNil(t, connection.RevokedAt)
		assert.Error(t, connection.Revoke())
	})
}
