package inventory

import (
	"time"

	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/google/uuid"
)

// CustomFieldRequest represents a request to create or replace a custom field definition
type CustomFieldRequest struct {
	Name             string      `json:"name" binding:"required,max=255"`
	Description      string      `json:"description"`
	Type             string      `json:"type" binding:"required,oneof=text textarea number date select checkbox"`
	Required         bool        `json:"required"`
	Active           *bool       `json:"active"`
	CategorySpecific bool        `json:"category_specific"`
	Options          []string    `json:"options" binding:"omitempty,dive,max=255"`
	CategoryIDs      []uuid.UUID `json:"category_ids"`
}

func (r CustomFieldRequest) spec() inventory.CustomFieldSpec {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return inventory.CustomFieldSpec{
		Name:             r.Name,
		Description:      r.Description,
		Type:             r.Type,
		Required:         r.Required,
		Active:           active,
		CategorySpecific: r.CategorySpecific,
		Options:          r.Options,
		CategoryIDs:      r.CategoryIDs,
	}
}

// CustomFieldListFilter holds the custom field listing query
type CustomFieldListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PerPage  int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CustomFieldOptionResponse is one option of a select field
type CustomFieldOptionResponse struct {
	ID        uuid.UUID `json:"id"`
	Value     string    `json:"value"`
	SortOrder int       `json:"sort_order"`
}

// CustomFieldResponse represents a custom field definition
type CustomFieldResponse struct {
	ID               uuid.UUID                   `json:"id"`
	Name             string                      `json:"name"`
	Description      string                      `json:"description"`
	Type             string                      `json:"type"`
	Required         bool                        `json:"required"`
	Active           bool                        `json:"active"`
	CategorySpecific bool                        `json:"category_specific"`
	Options          []CustomFieldOptionResponse `json:"options"`
	CategoryIDs      []uuid.UUID                 `json:"category_ids"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

// ToCustomFieldResponse converts a field definition to a response DTO
func ToCustomFieldResponse(f *inventory.CustomField) CustomFieldResponse {
	resp := CustomFieldResponse{
		ID:               f.ID,
		Name:             f.Name,
		Description:      f.Description,
		Type:             string(f.Type),
		Required:         f.Required,
		Active:           f.Active,
		CategorySpecific: f.CategorySpecific,
		Options:          make([]CustomFieldOptionResponse, len(f.Options)),
		CategoryIDs:      f.CategoryIDs,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
	for i, o := range f.Options {
		resp.Options[i] = CustomFieldOptionResponse{ID: o.ID, Value: o.Value, SortOrder: o.SortOrder}
	}
	if resp.CategoryIDs == nil {
		resp.CategoryIDs = []uuid.UUID{}
	}
	return resp
}
