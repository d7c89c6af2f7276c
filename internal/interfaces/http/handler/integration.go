package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appintegration "github.com/storefront/backend/internal/application/integration"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// IntegrationHandler manages the store's Shopify connection lifecycle.
type IntegrationHandler struct {
	BaseHandler
	connections *appintegration.ConnectionService
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(connections *appintegration.ConnectionService) *IntegrationHandler {
	return &IntegrationHandler{connections: connections}
}

// Connect starts the OAuth flow for a shop domain
func (h *IntegrationHandler) Connect(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var req appintegration.ConnectShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	connection, err := h.connections.Connect(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, connection)
}

// Complete finishes the OAuth flow with the granted token and scopes
func (h *IntegrationHandler) Complete(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid connection ID")
		return
	}

	var req appintegration.CompleteConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	connection, err := h.connections.Complete(c.Request.Context(), storeID, uuid.MustParse(uri.ID), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, connection)
}

// RotateToken replaces the stored access token for an active connection
func (h *IntegrationHandler) RotateToken(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid connection ID")
		return
	}

	var req appintegration.RotateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	connection, err := h.connections.RotateToken(c.Request.Context(), storeID, uuid.MustParse(uri.ID), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, connection)
}

// Revoke disconnects the shop and discards its token
func (h *IntegrationHandler) Revoke(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid connection ID")
		return
	}

	connection, err := h.connections.Revoke(c.Request.Context(), storeID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, connection)
}

// Get returns a single connection
func (h *IntegrationHandler) Get(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid connection ID")
		return
	}

	connection, err := h.connections.Get(c.Request.Context(), storeID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, connection)
}

// List returns connections for the store; pass `connected_only=true`
// to narrow to live shops
func (h *IntegrationHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	connectedOnly := c.Query("connected_only") == "true"
	connections, err := h.connections.List(c.Request.Context(), storeID, connectedOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, connections)
}

// Delete removes a revoked connection record
func (h *IntegrationHandler) Delete(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid connection ID")
		return
	}

	if err := h.connections.Delete(c.Request.Context(), storeID, uuid.MustParse(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
