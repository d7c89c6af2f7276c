package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appstorefront "github.com/storefront/backend/internal/application/storefront"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// PageVersionHandler handles the page version lifecycle endpoints used by
// the builder: draft upserts, the two-stage publish flow, reverts and the
// version history listing.
type PageVersionHandler struct {
	BaseHandler
	versions *appstorefront.VersionService
}

// NewPageVersionHandler creates a new PageVersionHandler
func NewPageVersionHandler(versions *appstorefront.VersionService) *PageVersionHandler {
	return &PageVersionHandler{versions: versions}
}

// UpsertDraftHTTPRequest is the request body for saving a draft
type UpsertDraftHTTPRequest struct {
	PageType      string          `json:"page_type" binding:"required,min=1,max=50"`
	Configuration json.RawMessage `json:"configuration"`
}

// PublishHTTPRequest identifies the version a publish operation acts on
type PublishHTTPRequest struct {
	VersionID string `json:"version_id" binding:"required,uuid"`
}

// RevertHTTPRequest identifies the version to revert to
type RevertHTTPRequest struct {
	VersionID string `json:"version_id" binding:"required,uuid"`
}

// SetCurrentEditHTTPRequest marks the version now open in the editor
type SetCurrentEditHTTPRequest struct {
	PageType  string `json:"page_type" binding:"required,min=1,max=50"`
	VersionID string `json:"version_id" binding:"required,uuid"`
}

// UpsertDraft godoc
// @Summary      Create or update the caller's draft for a page scope
// @Tags         pages
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /pages/draft [put]
func (h *PageVersionHandler) UpsertDraft(c *gin.Context) {
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

	var req UpsertDraftHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	version, err := h.versions.UpsertDraft(c.Request.Context(), appstorefront.UpsertDraftRequest{
		UserID:        userID,
		StoreID:       storeID,
		PageType:      req.PageType,
		Configuration: req.Configuration,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, version)
}

// publishOp is the shape shared by the three publish transitions.
type publishOp func(ctx context.Context, storeID, versionID, publishedBy uuid.UUID) (*appstorefront.PageVersionResponse, error)

// PublishToAcceptance promotes a draft to the acceptance stage
func (h *PageVersionHandler) PublishToAcceptance(c *gin.Context) {
	h.publish(c, h.versions.PublishToAcceptance)
}

// PublishToProduction promotes an acceptance version to production
func (h *PageVersionHandler) PublishToProduction(c *gin.Context) {
	h.publish(c, h.versions.PublishToProduction)
}

// PublishDraft publishes a draft directly to production, skipping
// acceptance. Kept for stores that do not use a staging storefront.
func (h *PageVersionHandler) PublishDraft(c *gin.Context) {
	h.publish(c, h.versions.PublishDraft)
}

func (h *PageVersionHandler) publish(c *gin.Context, op publishOp) {
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

	var req PublishHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	versionID, err := uuid.Parse(req.VersionID)
	if err != nil {
		h.BadRequest(c, "Invalid version_id")
		return
	}

	version, err := op(c.Request.Context(), storeID, versionID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, version)
}

// Revert godoc
// @Summary      Revert a page scope to an older published version
// @Tags         pages
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /pages/revert [post]
func (h *PageVersionHandler) Revert(c *gin.Context) {
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

	var req RevertHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	versionID, err := uuid.Parse(req.VersionID)
	if err != nil {
		h.BadRequest(c, "Invalid version_id")
		return
	}

	version, err := h.versions.RevertToVersion(c.Request.Context(), appstorefront.RevertRequest{
		UserID:    userID,
		StoreID:   storeID,
		VersionID: versionID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, version)
}

// ActiveVersion returns the caller's active version so the editor can
// resume the last session
func (h *PageVersionHandler) ActiveVersion(c *gin.Context) {
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

	version, err := h.versions.GetActiveVersion(c.Request.Context(), userID, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, version)
}

// GetVersion returns a single version including its configuration
func (h *PageVersionHandler) GetVersion(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid version ID")
		return
	}
	id := uuid.MustParse(uri.ID)

	version, err := h.versions.GetVersion(c.Request.Context(), storeID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, version)
}

// History godoc
// @Summary      List version history for a page scope, newest first
// @Tags         pages
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /pages/versions [get]
func (h *PageVersionHandler) History(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var filter appstorefront.VersionHistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	entries, err := h.versions.GetVersionHistory(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// SetCurrentEdit records which version the editor currently has open
func (h *PageVersionHandler) SetCurrentEdit(c *gin.Context) {
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

	var req SetCurrentEditHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	versionID, err := uuid.Parse(req.VersionID)
	if err != nil {
		h.BadRequest(c, "Invalid version_id")
		return
	}

	if err := h.versions.SetCurrentEdit(c.Request.Context(), appstorefront.SetCurrentEditRequest{
		UserID:    userID,
		StoreID:   storeID,
		PageType:  req.PageType,
		VersionID: versionID,
	}); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// PublishedConfiguration serves the live configuration for a storefront
// page. This endpoint is public: shoppers' browsers call it on render.
func (h *PageVersionHandler) PublishedConfiguration(c *gin.Context) {
	storeIDStr := c.Param("store_id")
	storeID, err := uuid.Parse(storeIDStr)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	pageType := c.Param("page_type")
	if pageType == "" {
		h.BadRequest(c, "Page type is required")
		return
	}

	configuration, err := h.versions.GetPublishedConfiguration(c.Request.Context(), storeID, pageType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(json.RawMessage(configuration)))
}
