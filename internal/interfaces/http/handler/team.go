package handler

import (
	"github.com/assetdesk/backend/internal/application/team"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TeamHandler handles team logos
type TeamHandler struct {
	BaseHandler
	teamService *team.Service
}

// NewTeamHandler creates a new TeamHandler
func NewTeamHandler(teamService *team.Service) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// actingTeam resolves :id and requires it to be the acting team
func (h *TeamHandler) actingTeam(c *gin.Context) (uuid.UUID, bool) {
	teamID, ok := getTeamID(c)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return uuid.Nil, false
	}
	if id != teamID {
		h.Forbidden(c, "team belongs to another team")
		return uuid.Nil, false
	}
	return teamID, true
}

// Get returns the acting team with its logo URLs
func (h *TeamHandler) Get(c *gin.Context) {
	teamID, ok := h.actingTeam(c)
	if !ok {
		return
	}

	t, err := h.teamService.Get(c.Request.Context(), teamID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// UploadLogo stores the "logo" file as the colored or bw variant
func (h *TeamHandler) UploadLogo(c *gin.Context) {
	teamID, ok := h.actingTeam(c)
	if !ok {
		return
	}
	var files uploads
	defer files.Close()

	var req team.LogoRequest
	if err := c.ShouldBind(&req); err != nil {
		h.BindError(c, err)
		return
	}
	logo, err := files.image(c, "logo")
	if err != nil {
		h.BindError(c, err)
		return
	}
	if logo == nil {
		h.BadRequest(c, "logo is required")
		return
	}
	req.Image = *logo

	t, err := h.teamService.UploadLogo(c.Request.Context(), teamID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}
