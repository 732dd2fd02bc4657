package inventory

import (
	"time"

	"github.com/assetdesk/backend/internal/application/attachment"
	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetInput holds the scalar fields of an asset write
type AssetInput struct {
	CustomID    string           `json:"custom_id" form:"custom_id" binding:"max=255"`
	Name        string           `json:"name" form:"name" binding:"required,max=255"`
	Description string           `json:"description" form:"description"`
	Status      string           `json:"status" form:"status" binding:"max=255"`
	Value       *decimal.Decimal `json:"value"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	LocationID  *uuid.UUID       `json:"location_id"`
}

func (in AssetInput) fields() inventory.AssetFields {
	return inventory.AssetFields{
		CustomID:    in.CustomID,
		Name:        in.Name,
		Description: in.Description,
		Value:       in.Value,
		CategoryID:  in.CategoryID,
		LocationID:  in.LocationID,
		Status:      in.Status,
	}
}

// CreateAssetRequest represents a request to create an asset
type CreateAssetRequest struct {
	AssetInput
	TagIDs          []uuid.UUID
	Image           *attachment.Upload
	NewFiles        []attachment.Upload
	ExistingFileIDs []uuid.UUID
	CustomFields    map[uuid.UUID]string
}

// UpdateAssetRequest represents a request to update an asset. Nil
// collections leave the current state alone.
type UpdateAssetRequest struct {
	AssetInput
	TagIDs          *[]uuid.UUID
	Image           *attachment.Upload
	SelectedFileIDs *[]uuid.UUID
	NewFiles        []attachment.Upload
	RemoveFileIDs   []uuid.UUID
	CustomFields    map[uuid.UUID]string
}

// AssetListFilter holds the asset listing query
type AssetListFilter struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	LocationID string `form:"location_id" binding:"omitempty,uuid"`
	TagID      string `form:"tag_id" binding:"omitempty,uuid"`
	Status     string `form:"status"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PerPage    int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// NamedRef is a small reference to a category, location or tag
type NamedRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color,omitempty"`
}

// CustomFieldValueResponse is one field value of an asset or kit
type CustomFieldValueResponse struct {
	CustomFieldID uuid.UUID `json:"custom_field_id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Value         string    `json:"value"`
}

// AssetResponse represents an asset with its relations
type AssetResponse struct {
	ID           uuid.UUID                  `json:"id"`
	TeamID       uuid.UUID                  `json:"team_id"`
	CustomID     string                     `json:"custom_id"`
	Name         string                     `json:"name"`
	Description  string                     `json:"description"`
	Status       string                     `json:"status"`
	Value        *decimal.Decimal           `json:"value"`
	Image        string                     `json:"image"`
	ImageURL     string                     `json:"image_url,omitempty"`
	CategoryID   *uuid.UUID                 `json:"category_id"`
	LocationID   *uuid.UUID                 `json:"location_id"`
	Category     *NamedRef                  `json:"category,omitempty"`
	Location     *NamedRef                  `json:"location,omitempty"`
	Tags         []NamedRef                 `json:"tags"`
	Files        []attachment.FileResponse  `json:"additional_files"`
	CustomFields []CustomFieldValueResponse `json:"custom_fields"`
	KitIDs       []uuid.UUID                `json:"kit_ids"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
	Version      int                        `json:"version"`
}

// AssetListResponse represents an asset in listings
type AssetListResponse struct {
	ID         uuid.UUID        `json:"id"`
	CustomID   string           `json:"custom_id"`
	Name       string           `json:"name"`
	Status     string           `json:"status"`
	Value      *decimal.Decimal `json:"value"`
	Image      string           `json:"image"`
	CategoryID *uuid.UUID       `json:"category_id"`
	LocationID *uuid.UUID       `json:"location_id"`
	TagIDs     []uuid.UUID      `json:"tag_ids"`
	CreatedAt  time.Time        `json:"created_at"`
}

// ToAssetResponse converts the asset's own fields; relations are filled by the service
func ToAssetResponse(a *inventory.Asset) AssetResponse {
	return AssetResponse{
		ID:           a.ID,
		TeamID:       a.TeamID,
		CustomID:     a.CustomID,
		Name:         a.Name,
		Description:  a.Description,
		Status:       string(a.Status),
		Value:        a.Value,
		Image:        a.Image,
		CategoryID:   a.CategoryID,
		LocationID:   a.LocationID,
		Tags:         []NamedRef{},
		Files:        []attachment.FileResponse{},
		CustomFields: []CustomFieldValueResponse{},
		KitIDs:       []uuid.UUID{},
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
		Version:      a.Version,
	}
}

// ToAssetListResponse converts an asset for listings
func ToAssetListResponse(a *inventory.Asset) AssetListResponse {
	tagIDs := a.TagIDs
	if tagIDs == nil {
		tagIDs = []uuid.UUID{}
	}
	return AssetListResponse{
		ID:         a.ID,
		CustomID:   a.CustomID,
		Name:       a.Name,
		Status:     string(a.Status),
		Value:      a.Value,
		Image:      a.Image,
		CategoryID: a.CategoryID,
		LocationID: a.LocationID,
		TagIDs:     tagIDs,
		CreatedAt:  a.CreatedAt,
	}
}
