package handler

import (
	"github.com/assetdesk/backend/internal/application/taxonomy"
	"github.com/gin-gonic/gin"
)

// CategoryHandler handles category endpoints. Deleting a category moves
// it to the trash; ?trashed=true lists the trash.
type CategoryHandler struct {
	BaseHandler
	categoryService *taxonomy.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *taxonomy.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List lists active or trashed categories
func (h *CategoryHandler) List(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	var filter taxonomy.CategoryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	categories, total, err := h.categoryService.List(c.Request.Context(), teamID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, categories, total, filter.Page, filter.PerPage)
}

// GetByID returns a category
func (h *CategoryHandler) GetByID(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), teamID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Create creates a category
func (h *CategoryHandler) Create(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	var req taxonomy.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), teamID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// Update updates a category
func (h *CategoryHandler) Update(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req taxonomy.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), teamID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Delete moves a category to the trash
func (h *CategoryHandler) Delete(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), teamID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Restore brings a trashed category back
func (h *CategoryHandler) Restore(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.Restore(c.Request.Context(), teamID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}
