package handler

import (
	appinv "github.com/assetdesk/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// KitHandler handles kit endpoints and kit membership. Kit writes take
// the same multipart fields as assets, without tags and references.
type KitHandler struct {
	BaseHandler
	kitService *appinv.KitService
}

// NewKitHandler creates a new KitHandler
func NewKitHandler(kitService *appinv.KitService) *KitHandler {
	return &KitHandler{kitService: kitService}
}

// List lists the team's kits
func (h *KitHandler) List(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	var filter appinv.KitListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	kits, total, err := h.kitService.List(c.Request.Context(), teamID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, kits, total, filter.Page, filter.PerPage)
}

// GetByID returns a kit with its assets, files and the team's unavailable assets
func (h *KitHandler) GetByID(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	kit, err := h.kitService.GetByID(c.Request.Context(), teamID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, kit)
}

// Create creates an empty kit
func (h *KitHandler) Create(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	var files uploads
	defer files.Close()

	req, err := readCreateKit(c, &files)
	if err != nil {
		h.BindError(c, err)
		return
	}

	kit, err := h.kitService.Create(c.Request.Context(), teamID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, kit)
}

// Update updates a kit
func (h *KitHandler) Update(c *gin.Context) {
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

	req, err := readUpdateKit(c, &files)
	if err != nil {
		h.BindError(c, err)
		return
	}

	kit, err := h.kitService.Update(c.Request.Context(), teamID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, kit)
}

// Destroy deletes a kit
func (h *KitHandler) Destroy(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.kitService.Destroy(c.Request.Context(), teamID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddAsset puts an asset of the same team into the kit
func (h *KitHandler) AddAsset(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	kitID, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req appinv.KitAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.kitService.AddAssetToKit(c.Request.Context(), teamID, kitID, req.AssetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RemoveAsset takes an asset out of the kit
func (h *KitHandler) RemoveAsset(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	kitID, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	assetID, ok := h.parseID(c, "assetId")
	if !ok {
		return
	}

	result, err := h.kitService.RemoveAssetFromKit(c.Request.Context(), teamID, kitID, assetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func readKitInput(c *gin.Context) (appinv.KitInput, error) {
	in := appinv.KitInput{
		CustomID:    c.PostForm("custom_id"),
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Status:      c.PostForm("status"),
	}
	return in, binding.Validator.ValidateStruct(&in)
}

func readCreateKit(c *gin.Context, files *uploads) (appinv.CreateKitRequest, error) {
	var req appinv.CreateKitRequest
	var err error
	if req.KitInput, err = readKitInput(c); err != nil {
		return req, err
	}
	if existing, err := formUUIDs(c, formExistingFiles); err != nil {
		return req, err
	} else if existing != nil {
		req.ExistingFileIDs = *existing
	}
	if req.CustomFields, err = formCustomFields(c); err != nil {
		return req, err
	}
	if req.Image, err = files.image(c, formImage); err != nil {
		return req, err
	}
	req.NewFiles, err = files.files(c)
	return req, err
}

func readUpdateKit(c *gin.Context, files *uploads) (appinv.UpdateKitRequest, error) {
	var req appinv.UpdateKitRequest
	var err error
	if req.KitInput, err = readKitInput(c); err != nil {
		return req, err
	}
	if req.SelectedFileIDs, err = selectedFiles(c); err != nil {
		return req, err
	}
	if req.RemoveFileIDs, err = removeFiles(c); err != nil {
		return req, err
	}
	if req.CustomFields, err = formCustomFields(c); err != nil {
		return req, err
	}
	if req.Image, err = files.image(c, formImage); err != nil {
		return req, err
	}
	req.NewFiles, err = files.files(c)
	return req, err
}
