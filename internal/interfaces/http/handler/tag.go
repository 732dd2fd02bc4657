package handler

import (
	"github.com/assetdesk/backend/internal/application/taxonomy"
	"github.com/gin-gonic/gin"
)

// TagHandler handles tag endpoints
type TagHandler struct {
	BaseHandler
	tagService *taxonomy.TagService
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService *taxonomy.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// List lists the team's tags
func (h *TagHandler) List(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	var filter taxonomy.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	tags, total, err := h.tagService.List(c.Request.Context(), teamID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, tags, total, filter.Page, filter.PerPage)
}

// GetByID returns a tag
func (h *TagHandler) GetByID(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	tag, err := h.tagService.GetByID(c.Request.Context(), teamID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tag)
}

// Create creates a tag
func (h *TagHandler) Create(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	var req taxonomy.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tag, err := h.tagService.Create(c.Request.Context(), teamID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tag)
}

// Update updates a tag
func (h *TagHandler) Update(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req taxonomy.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tag, err := h.tagService.Update(c.Request.Context(), teamID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tag)
}

// Delete removes a tag permanently
func (h *TagHandler) Delete(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.tagService.Delete(c.Request.Context(), teamID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
