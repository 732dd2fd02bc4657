package handler

import (
	appinv "github.com/assetdesk/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

// AssetHandler handles asset endpoints. Writes are multipart forms:
// scalar fields, image, files[] with file_descriptions[], tags[],
// existing_files[], remove_files[] and custom_fields[<id>].
type AssetHandler struct {
	BaseHandler
	assetService *appinv.AssetService
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(assetService *appinv.AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// List lists the team's assets
func (h *AssetHandler) List(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	var filter appinv.AssetListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	assets, total, err := h.assetService.List(c.Request.Context(), teamID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, assets, total, filter.Page, filter.PerPage)
}

// GetByID returns an asset with its references, files and custom values
func (h *AssetHandler) GetByID(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	asset, err := h.assetService.GetByID(c.Request.Context(), teamID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, asset)
}

// Create creates an asset
func (h *AssetHandler) Create(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	var files uploads
	defer files.Close()

	req, err := readCreateAsset(c, &files)
	if err != nil {
		h.BindError(c, err)
		return
	}

	asset, err := h.assetService.Create(c.Request.Context(), teamID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, asset)
}

// Update updates an asset. existing_files[] is the selected set: linked
// files left out of it are detached.
func (h *AssetHandler) Update(c *gin.Context) {
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

	req, err := readUpdateAsset(c, &files)
	if err != nil {
		h.BindError(c, err)
		return
	}

	asset, err := h.assetService.Update(c.Request.Context(), teamID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, asset)
}

// Destroy deletes an asset
func (h *AssetHandler) Destroy(c *gin.Context) {
	teamID, ok := getTeamID(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.assetService.Destroy(c.Request.Context(), teamID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func readAssetInput(c *gin.Context) (appinv.AssetInput, error) {
	in := appinv.AssetInput{
		CustomID:    c.PostForm("custom_id"),
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Status:      c.PostForm("status"),
	}
	var err error
	if in.Value, err = formDecimal(c, "value"); err != nil {
		return in, err
	}
	if in.CategoryID, err = formUUID(c, "category_id"); err != nil {
		return in, err
	}
	if in.LocationID, err = formUUID(c, "location_id"); err != nil {
		return in, err
	}
	return in, binding.Validator.ValidateStruct(&in)
}

func readCreateAsset(c *gin.Context, files *uploads) (appinv.CreateAssetRequest, error) {
	var req appinv.CreateAssetRequest
	var err error
	if req.AssetInput, err = readAssetInput(c); err != nil {
		return req, err
	}
	if tags, err := formUUIDs(c, formTags); err != nil {
		return req, err
	} else if tags != nil {
		req.TagIDs = *tags
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

func readUpdateAsset(c *gin.Context, files *uploads) (appinv.UpdateAssetRequest, error) {
	var req appinv.UpdateAssetRequest
	var err error
	if req.AssetInput, err = readAssetInput(c); err != nil {
		return req, err
	}
	if req.TagIDs, err = formUUIDs(c, formTags); err != nil {
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

// selectedFiles reads the selected file set of an update, sent as
// existing_files[] or selected_files[]
func selectedFiles(c *gin.Context) (*[]uuid.UUID, error) {
	selected, err := formUUIDs(c, formExistingFiles)
	if err != nil || selected != nil {
		return selected, err
	}
	return formUUIDs(c, formSelectedFiles)
}

func removeFiles(c *gin.Context) ([]uuid.UUID, error) {
	remove, err := formUUIDs(c, formRemoveFiles)
	if err != nil || remove == nil {
		return nil, err
	}
	return *remove, nil
}
