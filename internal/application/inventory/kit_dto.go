package inventory

import (
	"time"

	"github.com/assetdesk/backend/internal/application/attachment"
	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/google/uuid"
)

// KitInput holds the scalar fields of a kit write
type KitInput struct {
	CustomID    string `json:"custom_id" form:"custom_id" binding:"max=255"`
	Name        string `json:"name" form:"name" binding:"required,max=255"`
	Description string `json:"description" form:"description"`
	Status      string `json:"status" form:"status" binding:"max=255"`
}

func (in KitInput) fields() inventory.KitFields {
	return inventory.KitFields{
		CustomID:    in.CustomID,
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
	}
}

// CreateKitRequest represents a request to create a kit
type CreateKitRequest struct {
	KitInput
	Image           *attachment.Upload
	NewFiles        []attachment.Upload
	ExistingFileIDs []uuid.UUID
	CustomFields    map[uuid.UUID]string
}

// UpdateKitRequest represents a request to update a kit. Nil collections
// leave the current state alone.
type UpdateKitRequest struct {
	KitInput
	Image           *attachment.Upload
	SelectedFileIDs *[]uuid.UUID
	NewFiles        []attachment.Upload
	RemoveFileIDs   []uuid.UUID
	CustomFields    map[uuid.UUID]string
}

// KitAssetRequest names the asset to add to a kit
type KitAssetRequest struct {
	AssetID uuid.UUID `json:"asset_id" binding:"required"`
}

// KitListFilter holds the kit listing query
type KitListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PerPage  int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// KitMembershipResponse is one kit-contains-asset pair
type KitMembershipResponse struct {
	KitID   uuid.UUID `json:"kit_id"`
	AssetID uuid.UUID `json:"asset_id"`
}

// KitMembershipResult reports the outcome of a membership change
type KitMembershipResult struct {
	KitID      uuid.UUID `json:"kit_id"`
	AssetID    uuid.UUID `json:"asset_id"`
	Changed    bool      `json:"changed"`
	AssetCount int       `json:"asset_count"`
}

// KitResponse represents a kit with its assets and files. Unavailable
// lists every membership of the team's kits, so clients can tell which
// assets are already placed in a kit.
type KitResponse struct {
	ID           uuid.UUID                  `json:"id"`
	TeamID       uuid.UUID                  `json:"team_id"`
	CustomID     string                     `json:"custom_id"`
	Name         string                     `json:"name"`
	Description  string                     `json:"description"`
	Status       string                     `json:"status"`
	Image        string                     `json:"image"`
	ImageURL     string                     `json:"image_url,omitempty"`
	AssetCount   int                        `json:"asset_count"`
	Assets       []AssetListResponse        `json:"assets"`
	Files        []attachment.FileResponse  `json:"additional_files"`
	CustomFields []CustomFieldValueResponse `json:"custom_fields"`
	Unavailable  []KitMembershipResponse    `json:"unavailable_assets"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
	Version      int                        `json:"version"`
}

// KitListResponse represents a kit in listings
type KitListResponse struct {
	ID         uuid.UUID `json:"id"`
	CustomID   string    `json:"custom_id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Image      string    `json:"image"`
	AssetCount int       `json:"asset_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToKitResponse converts the kit's own fields; relations are filled by the service
func ToKitResponse(k *inventory.Kit) KitResponse {
	return KitResponse{
		ID:           k.ID,
		TeamID:       k.TeamID,
		CustomID:     k.CustomID,
		Name:         k.Name,
		Description:  k.Description,
		Status:       string(k.Status),
		Image:        k.Image,
		AssetCount:   k.AssetCount,
		Assets:       []AssetListResponse{},
		Files:        []attachment.FileResponse{},
		CustomFields: []CustomFieldValueResponse{},
		Unavailable:  []KitMembershipResponse{},
		CreatedAt:    k.CreatedAt,
		UpdatedAt:    k.UpdatedAt,
		Version:      k.Version,
	}
}

// ToKitListResponse converts a kit for listings
func ToKitListResponse(k *inventory.Kit) KitListResponse {
	return KitListResponse{
		ID:         k.ID,
		CustomID:   k.CustomID,
		Name:       k.Name,
		Status:     string(k.Status),
		Image:      k.Image,
		AssetCount: k.AssetCount,
		CreatedAt:  k.CreatedAt,
	}
}
