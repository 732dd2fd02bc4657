package handler

import (
	"github.com/assetdesk/backend/internal/application/attachment"
	"github.com/gin-gonic/gin"
)

// AdditionalFileHandler handles the team's standalone file pool
type AdditionalFileHandler struct {
	BaseHandler
	fileService *attachment.Service
}

// NewAdditionalFileHandler creates a new AdditionalFileHandler
func NewAdditionalFileHandler(fileService *attachment.Service) *AdditionalFileHandler {
	return &AdditionalFileHandler{fileService: fileService}
}

// List lists the team's files with download URLs
func (h *AdditionalFileHandler) List(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	var filter attachment.FileListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	files, total, err := h.fileService.List(c.Request.Context(), teamID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, files, total, filter.Page, filter.PerPage)
}

// GetByID returns one file
func (h *AdditionalFileHandler) GetByID(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	file, err := h.fileService.Get(c.Request.Context(), teamID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, file)
}

// Upload adds one file, sent as "file" with an optional "description",
// to the pool unlinked
func (h *AdditionalFileHandler) Upload(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	var files uploads
	defer files.Close()

	up, err := files.image(c, "file")
	if err != nil {
		h.BindError(c, err)
		return
	}
	if up == nil {
		h.BadRequest(c, "file is required")
		return
	}
	up.Description = c.PostForm("description")

	file, err := h.fileService.Upload(c.Request.Context(), teamID, *up)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, file)
}

// Delete removes a file from the pool and from every owner it was linked to
func (h *AdditionalFileHandler) Delete(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.fileService.Delete(c.Request.Context(), teamID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
