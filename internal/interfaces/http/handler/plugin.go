package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appplugin "github.com/storefront/backend/internal/application/plugin"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// PluginHandler manages plugin installations for a store.
type PluginHandler struct {
	BaseHandler
	installations *appplugin.InstallationService
}

// NewPluginHandler creates a new PluginHandler
func NewPluginHandler(installations *appplugin.InstallationService) *PluginHandler {
	return &PluginHandler{installations: installations}
}

// ListInstallationsHTTPRequest filters the installation listing
type ListInstallationsHTTPRequest struct {
	EnabledOnly bool `form:"enabled_only"`
}

// Install records a new plugin installation for the store
func (h *PluginHandler) Install(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User context required")
		return
	}

	var req appplugin.InstallPluginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	installation, err := h.installations.Install(c.Request.Context(), storeID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, installation)
}

// Enable turns an installed plugin on
func (h *PluginHandler) Enable(c *gin.Context) {
	h.transition(c, h.installations.Enable)
}

// Disable turns an installed plugin off without uninstalling it
func (h *PluginHandler) Disable(c *gin.Context) {
	h.transition(c, h.installations.Disable)
}

// Uninstall removes a plugin installation
func (h *PluginHandler) Uninstall(c *gin.Context) {
	h.transition(c, h.installations.Uninstall)
}

func (h *PluginHandler) transition(c *gin.Context, op func(ctx context.Context, storeID, installationID uuid.UUID) (*appplugin.InstallationResponse, error)) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid installation ID")
		return
	}

	installation, err := op(c.Request.Context(), storeID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, installation)
}

// Upgrade moves an installation to a newer plugin version
func (h *PluginHandler) Upgrade(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid installation ID")
		return
	}

	var req appplugin.UpgradePluginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	installation, err := h.installations.Upgrade(c.Request.Context(), storeID, uuid.MustParse(uri.ID), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, installation)
}

// Get returns a single installation
func (h *PluginHandler) Get(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid installation ID")
		return
	}

	installation, err := h.installations.Get(c.Request.Context(), storeID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, installation)
}

// List returns the store's installations, optionally only enabled ones
func (h *PluginHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var req ListInstallationsHTTPRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	installations, err := h.installations.List(c.Request.Context(), storeID, req.EnabledOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, installations)
}
