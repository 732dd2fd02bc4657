package handler

import (
	"github.com/assetdesk/backend/internal/application/taxonomy"
	"github.com/gin-gonic/gin"
)

// LocationHandler handles location endpoints. Writes are forms so a
// location image can ride along.
type LocationHandler struct {
	BaseHandler
	locationService *taxonomy.LocationService
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(locationService *taxonomy.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// List lists the team's locations
func (h *LocationHandler) List(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	var filter taxonomy.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	locations, total, err := h.locationService.List(c.Request.Context(), teamID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, locations, total, filter.Page, filter.PerPage)
}

// GetByID returns a location
func (h *LocationHandler) GetByID(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	location, err := h.locationService.GetByID(c.Request.Context(), teamID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

// Create creates a location
func (h *LocationHandler) Create(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	var files uploads
	defer files.Close()

	req, err := readLocation(c, &files)
	if err != nil {
		h.BindError(c, err)
		return
	}

	location, err := h.locationService.Create(c.Request.Context(), teamID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, location)
}

// Update updates a location, replacing its image when one is sent
func (h *LocationHandler) Update(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var files uploads
	defer files.Close()

	req, err := readLocation(c, &files)
	if err != nil {
		h.BindError(c, err)
		return
	}

	location, err := h.locationService.Update(c.Request.Context(), teamID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

// Delete deletes a location; assets placed there lose their location
func (h *LocationHandler) Delete(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.locationService.Delete(c.Request.Context(), teamID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func readLocation(c *gin.Context, files *uploads) (taxonomy.LocationRequest, error) {
	var req taxonomy.LocationRequest
	if err := c.ShouldBind(&req); err != nil {
		return req, err
	}
	image, err := files.image(c, formImage)
	if err != nil {
		return req, err
	}
	req.Image = image
	return req, nil
}
