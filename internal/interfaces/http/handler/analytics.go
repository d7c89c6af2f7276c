package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appanalytics "github.com/storefront/backend/internal/application/analytics"
)

// AnalyticsHandler ingests heatmap interaction batches from storefront
// pages and serves recent interactions back to the builder's overlay.
type AnalyticsHandler struct {
	BaseHandler
	tracking *appanalytics.TrackingService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(tracking *appanalytics.TrackingService) *AnalyticsHandler {
	return &AnalyticsHandler{tracking: tracking}
}

// RecentInteractionsHTTPRequest filters the recent interactions listing
type RecentInteractionsHTTPRequest struct {
	PageType      string `form:"page_type" binding:"required"`
	LookbackHours int    `form:"lookback_hours,default=24" binding:"min=1,max=720"`
	Limit         int    `form:"limit,default=500" binding:"min=1,max=5000"`
}

// TrackBatch godoc
// @Summary      Ingest a batch of captured interactions
// @Tags         analytics
// @Accept       json
// @Produce      json
// @Success      202 {object} dto.Response
// @Router       /storefront/{store_id}/track [post]
func (h *AnalyticsHandler) TrackBatch(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("store_id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var req appanalytics.TrackBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.tracking.TrackBatch(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Recent returns the freshest interactions for a page scope
func (h *AnalyticsHandler) Recent(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var req RecentInteractionsHTTPRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	lookback := time.Duration(req.LookbackHours) * time.Hour
	interactions, err := h.tracking.Recent(c.Request.Context(), storeID, req.PageType, lookback, req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, interactions)
}
