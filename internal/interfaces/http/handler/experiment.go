package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appexperiment "github.com/storefront/backend/internal/application/experiment"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// ExperimentHandler manages A/B experiments over page versions and the
// public visitor assignment endpoint.
type ExperimentHandler struct {
	BaseHandler
	experiments *appexperiment.ExperimentService
}

// NewExperimentHandler creates a new ExperimentHandler
func NewExperimentHandler(experiments *appexperiment.ExperimentService) *ExperimentHandler {
	return &ExperimentHandler{experiments: experiments}
}

// AssignHTTPRequest identifies a visitor for deterministic bucketing
type AssignHTTPRequest struct {
	PageType  string `form:"page_type" binding:"required"`
	VisitorID string `form:"visitor_id" binding:"required"`
}

// Create godoc
// @Summary      Create a draft experiment for a page scope
// @Tags         experiments
// @Accept       json
// @Produce      json
// @Success      201 {object} dto.Response
// @Router       /experiments [post]
func (h *ExperimentHandler) Create(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var req appexperiment.CreateExperimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	experiment, err := h.experiments.Create(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, experiment)
}

// AddVariant attaches a weighted variant to a draft experiment
func (h *ExperimentHandler) AddVariant(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid experiment ID")
		return
	}

	var req appexperiment.AddVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	experiment, err := h.experiments.AddVariant(c.Request.Context(), storeID, uuid.MustParse(uri.ID), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, experiment)
}

// RemoveVariant detaches a variant from a draft experiment by name
func (h *ExperimentHandler) RemoveVariant(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid experiment ID")
		return
	}

	name := c.Param("name")
	if name == "" {
		h.BadRequest(c, "Variant name is required")
		return
	}

	experiment, err := h.experiments.RemoveVariant(c.Request.Context(), storeID, uuid.MustParse(uri.ID), name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, experiment)
}

// Start activates an experiment
func (h *ExperimentHandler) Start(c *gin.Context) {
	h.transition(c, h.experiments.Start)
}

// Pause suspends a running experiment
func (h *ExperimentHandler) Pause(c *gin.Context) {
	h.transition(c, h.experiments.Pause)
}

// Complete finishes an experiment permanently
func (h *ExperimentHandler) Complete(c *gin.Context) {
	h.transition(c, h.experiments.Complete)
}

func (h *ExperimentHandler) transition(c *gin.Context, op func(ctx context.Context, storeID, experimentID uuid.UUID) (*appexperiment.ExperimentResponse, error)) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid experiment ID")
		return
	}

	experiment, err := op(c.Request.Context(), storeID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, experiment)
}

// Get returns a single experiment with its variants
func (h *ExperimentHandler) Get(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid experiment ID")
		return
	}

	experiment, err := h.experiments.Get(c.Request.Context(), storeID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, experiment)
}

// List returns all experiments for the store
// List returns the store's experiments, newest first. A `key` query
// resolves a single experiment instead.
func (h *ExperimentHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	if key := c.Query("key"); key != "" {
		exp, err := h.experiments.GetByKey(c.Request.Context(), storeID, key)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, exp)
		return
	}

	experiments, err := h.experiments.List(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, experiments)
}

// Delete removes a draft experiment
func (h *ExperimentHandler) Delete(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid experiment ID")
		return
	}

	if err := h.experiments.Delete(c.Request.Context(), storeID, uuid.MustParse(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Assign buckets a visitor into a variant of the running experiment for a
// page scope. Public: the storefront renderer calls it without auth.
func (h *ExperimentHandler) Assign(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("store_id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var req AssignHTTPRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	assignment, err := h.experiments.Assign(c.Request.Context(), storeID, req.PageType, req.VisitorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, assignment)
}
