package handler

import (
	appinv "github.com/assetdesk/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// CustomFieldHandler handles custom field definitions and their options.
// Definitions are shared; category links are checked against the acting team.
type CustomFieldHandler struct {
	BaseHandler
	fieldService *appinv.CustomFieldService
}

// NewCustomFieldHandler creates a new CustomFieldHandler
func NewCustomFieldHandler(fieldService *appinv.CustomFieldService) *CustomFieldHandler {
	return &CustomFieldHandler{fieldService: fieldService}
}

// List lists custom field definitions
func (h *CustomFieldHandler) List(c *gin.Context) {
	var filter appinv.CustomFieldListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	fields, total, err := h.fieldService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, fields, total, filter.Page, filter.PerPage)
}

// GetByID returns a definition with its options and categories
func (h *CustomFieldHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	field, err := h.fieldService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, field)
}

// Create creates a definition
func (h *CustomFieldHandler) Create(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	var req appinv.CustomFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	field, err := h.fieldService.Create(c.Request.Context(), teamID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, field)
}

// Update replaces a definition, its options and its category links
func (h *CustomFieldHandler) Update(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req appinv.CustomFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	field, err := h.fieldService.Update(c.Request.Context(), teamID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, field)
}

// Delete deletes a definition together with its stored values
func (h *CustomFieldHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.fieldService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
