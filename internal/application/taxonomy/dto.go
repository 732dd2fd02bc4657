package taxonomy

import (
	"time"

	"github.com/assetdesk/backend/internal/application/attachment"
	"github.com/assetdesk/backend/internal/domain/taxonomy"
	"github.com/google/uuid"
)

// CategoryRequest represents a request to create or update a category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Color       string `json:"color" binding:"omitempty,max=7"`
	Description string `json:"description"`
}

// CategoryListFilter holds the category listing query
type CategoryListFilter struct {
	Search   string `form:"search"`
	Trashed  bool   `form:"trashed"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PerPage  int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	TeamID      uuid.UUID  `json:"team_id"`
	Name        string     `json:"name"`
	Color       string     `json:"color"`
	Description string     `json:"description"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToCategoryResponse converts a domain category to a response DTO
func ToCategoryResponse(c *taxonomy.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		TeamID:      c.TeamID,
		Name:        c.Name,
		Color:       c.Color,
		Description: c.Description,
		DeletedAt:   c.DeletedAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// TagRequest represents a request to create or update a tag
type TagRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

// ListFilter holds the tag and location listing query
type ListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PerPage  int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TagResponse represents a tag in API responses
type TagResponse struct {
	ID          uuid.UUID `json:"id"`
	TeamID      uuid.UUID `json:"team_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToTagResponse converts a domain tag to a response DTO
func ToTagResponse(t *taxonomy.Tag) TagResponse {
	return TagResponse{
		ID:          t.ID,
		TeamID:      t.TeamID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// LocationRequest represents a request to create or update a location
type LocationRequest struct {
	Name        string             `json:"name" form:"name" binding:"required,max=255"`
	Description string             `json:"description" form:"description"`
	Address     string             `json:"address" form:"address" binding:"max=500"`
	Image       *attachment.Upload `json:"-" form:"-"`
}

// LocationResponse represents a location in API responses
type LocationResponse struct {
	ID          uuid.UUID `json:"id"`
	TeamID      uuid.UUID `json:"team_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Image       string    `json:"image"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToLocationResponse converts a domain location to a response DTO
func ToLocationResponse(l *taxonomy.Location) LocationResponse {
	return LocationResponse{
		ID:          l.ID,
		TeamID:      l.TeamID,
		Name:        l.Name,
		Description: l.Description,
		Address:     l.Address,
		Image:       l.Image,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
