package handler

import (
	"github.com/assetdesk/backend/internal/application/audit"
	"github.com/gin-gonic/gin"
)

// AuditHandler exposes the team's audit log
type AuditHandler struct {
	BaseHandler
	auditService *audit.Service
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *audit.Service) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List lists the newest entries first
func (h *AuditHandler) List(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	var filter audit.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	entries, err := h.auditService.List(c.Request.Context(), teamID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// History lists the entries of one aggregate, e.g. /audit/Asset/:id
func (h *AuditHandler) History(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	entries, err := h.auditService.History(c.Request.Context(), teamID, c.Param("type"), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}
