package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// CatalogHandler serves the category tree and attribute definitions the
// builder's product widgets are configured against.
type CatalogHandler struct {
	BaseHandler
	categories *appcatalog.CategoryService
	attributes *appcatalog.AttributeService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(categories *appcatalog.CategoryService, attributes *appcatalog.AttributeService) *CatalogHandler {
	return &CatalogHandler{categories: categories, attributes: attributes}
}

// SetCategoryStatusHTTPRequest toggles a category's visibility
type SetCategoryStatusHTTPRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// CreateCategory godoc
// @Summary      Create a category
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Success      201 {object} dto.Response
// @Router       /catalog/categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var req appcatalog.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	category, err := h.categories.Create(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, category)
}

// GetCategory returns a single category
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}

	category, err := h.categories.Get(c.Request.Context(), storeID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// UpdateCategory updates a category's name and sort order
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}

	var req appcatalog.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	category, err := h.categories.Update(c.Request.Context(), storeID, uuid.MustParse(uri.ID), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// SetCategoryStatus activates or deactivates a category
func (h *CatalogHandler) SetCategoryStatus(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}

	var req SetCategoryStatusHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	category, err := h.categories.SetStatus(c.Request.Context(), storeID, uuid.MustParse(uri.ID), *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// CategoryTree returns all categories for the store ordered for display
func (h *CatalogHandler) CategoryTree(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	tree, err := h.categories.Tree(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tree)
}

// CategoryChildren returns the children of a category; pass
// `recursive=true` for the full subtree
func (h *CatalogHandler) CategoryChildren(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}

	recursive := c.Query("recursive") == "true"
	children, err := h.categories.Children(c.Request.Context(), storeID, uuid.MustParse(uri.ID), recursive)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, children)
}

// DeleteCategory removes a childless category
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}

	if err := h.categories.Delete(c.Request.Context(), storeID, uuid.MustParse(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CreateAttribute defines a new product attribute
func (h *CatalogHandler) CreateAttribute(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var req appcatalog.CreateAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	attribute, err := h.attributes.Create(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, attribute)
}

// GetAttribute returns a single attribute definition
func (h *CatalogHandler) GetAttribute(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid attribute ID")
		return
	}

	attribute, err := h.attributes.Get(c.Request.Context(), storeID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, attribute)
}

// UpdateAttribute updates an attribute's label, options and filterability
func (h *CatalogHandler) UpdateAttribute(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid attribute ID")
		return
	}

	var req appcatalog.UpdateAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	attribute, err := h.attributes.Update(c.Request.Context(), storeID, uuid.MustParse(uri.ID), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, attribute)
}

// ListAttributes returns attribute definitions for the store. A `code`
// query resolves a single attribute; `filterable_only=true` narrows the
// list to facet-building attributes.
func (h *CatalogHandler) ListAttributes(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	if code := c.Query("code"); code != "" {
		attribute, err := h.attributes.GetByCode(c.Request.Context(), storeID, code)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, attribute)
		return
	}

	filterableOnly := c.Query("filterable_only") == "true"
	attributes, err := h.attributes.List(c.Request.Context(), storeID, filterableOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, attributes)
}

// DeleteAttribute removes an attribute definition
func (h *CatalogHandler) DeleteAttribute(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.Unauthorized(c, "Store context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid attribute ID")
		return
	}

	if err := h.attributes.Delete(c.Request.Context(), storeID, uuid.MustParse(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
