package integration

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/integration"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ConnectionService manages Shopify shop connections for a store
type ConnectionService struct {
	connections integration.ShopifyConnectionRepository
	logger      *zap.Logger
}

// NewConnectionService creates a new ConnectionService
func NewConnectionService(connections integration.ShopifyConnectionRepository, logger *zap.Logger) *ConnectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConnectionService{connections: connections, logger: logger}
}

// Connect starts a pending connection for a shop domain. A store may hold
// one connection per shop.
func (s *ConnectionService) Connect(ctx context.Context, storeID uuid.UUID, req ConnectShopRequest) (*ConnectionResponse, error) {
	connection, err := integration.NewShopifyConnection(storeID, req.ShopDomain)
	if err != nil {
		return nil, err
	}

	existing, err := s.connections.FindByShopDomain(ctx, storeID, connection.ShopDomain)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.Status != integration.ConnectionStatusRevoked {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Shop is already connected to this store")
	}

	if err := s.connections.Save(ctx, connection); err != nil {
		return nil, err
	}

	return ToConnectionResponse(connection), nil
}

// Complete stores the token and scopes granted in the OAuth callback
func (s *ConnectionService) Complete(ctx context.Context, storeID, connectionID uuid.UUID, req CompleteConnectionRequest) (*ConnectionResponse, error) {
	connection, err := s.connections.FindByID(ctx, storeID, connectionID)
	if err != nil {
		return nil, err
	}

	if err := connection.Connect(req.AccessToken, req.Scopes); err != nil {
		return nil, err
	}

	if err := s.connections.Save(ctx, connection); err != nil {
		return nil, err
	}

	s.logger.Info("shopify shop connected",
		zap.String("store_id", storeID.String()),
		zap.String("shop_domain", connection.ShopDomain),
	)

	return ToConnectionResponse(connection), nil
}

// RotateToken replaces the access token on an active connection
func (s *ConnectionService) RotateToken(ctx context.Context, storeID, connectionID uuid.UUID, req RotateTokenRequest) (*ConnectionResponse, error) {
	connection, err := s.connections.FindByID(ctx, storeID, connectionID)
	if err != nil {
		return nil, err
	}

	if err := connection.RotateToken(req.AccessToken); err != nil {
		return nil, err
	}

	if err := s.connections.Save(ctx, connection); err != nil {
		return nil, err
	}

	return ToConnectionResponse(connection), nil
}

// Revoke ends a connection and drops its token
func (s *ConnectionService) Revoke(ctx context.Context, storeID, connectionID uuid.UUID) (*ConnectionResponse, error) {
	connection, err := s.connections.FindByID(ctx, storeID, connectionID)
	if err != nil {
		return nil, err
	}

	if err := connection.Revoke(); err != nil {
		return nil, err
	}

	if err := s.connections.Save(ctx, connection); err != nil {
		return nil, err
	}

	s.logger.Info("shopify shop revoked",
		zap.String("store_id", storeID.String()),
		zap.String("shop_domain", connection.ShopDomain),
	)

	return ToConnectionResponse(connection), nil
}

// Get retrieves a single connection
func (s *ConnectionService) Get(ctx context.Context, storeID, connectionID uuid.UUID) (*ConnectionResponse, error) {
	connection, err := s.connections.FindByID(ctx, storeID, connectionID)
	if err != nil {
		return nil, err
	}
	return ToConnectionResponse(connection), nil
}

// List returns connections for the store; connectedOnly narrows the
// result to shops with a live token
func (s *ConnectionService) List(ctx context.Context, storeID uuid.UUID, connectedOnly bool) ([]ConnectionResponse, error) {
	var (
		connections []integration.ShopifyConnection
		err         error
	)
	if connectedOnly {
		connections, err = s.connections.FindConnected(ctx, storeID)
	} else {
		connections, err = s.connections.FindAll(ctx, storeID)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]ConnectionResponse, 0, len(connections))
	for i := range connections {
		responses = append(responses, *ToConnectionResponse(&connections[i]))
	}
	return responses, nil
}

// Delete removes a revoked connection record. Live connections must be
// revoked first so a shop is never silently disconnected.
func (s *ConnectionService) Delete(ctx context.Context, storeID, connectionID uuid.UUID) error {
	connection, err := s.connections.FindByID(ctx, storeID, connectionID)
	if err != nil {
		return err
	}
	if connection.Status != integration.ConnectionStatusRevoked {
		return shared.NewInvalidStateError("delete", string(integration.ConnectionStatusRevoked), string(connection.Status))
	}
	return s.connections.Delete(ctx, storeID, connectionID)
}
