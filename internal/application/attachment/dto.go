package attachment

import (
	"context"
	"time"

	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/google/uuid"
)

// FileResponse represents an additional file in API responses
type FileResponse struct {
	ID          uuid.UUID `json:"id"`
	TeamID      uuid.UUID `json:"team_id"`
	Name        string    `json:"name"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	Description string    `json:"description"`
	FilePath    string    `json:"file_path"`
	URL         string    `json:"url,omitempty"`
	LinkedCount int       `json:"linked_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FileListFilter holds the standalone file listing query
type FileListFilter struct {
	Search     string `form:"search"`
	MimePrefix string `form:"mime_prefix"`
	Orphaned   bool   `form:"orphaned"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PerPage    int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// DeleteFileResponse lists the owners a deleted file was detached from
type DeleteFileResponse struct {
	FileID   uuid.UUID       `json:"file_id"`
	Detached []OwnerResponse `json:"detached"`
}

// OwnerResponse identifies an asset or kit
type OwnerResponse struct {
	Type inventory.OwnerType `json:"type"`
	ID   uuid.UUID           `json:"id"`
}

// ToFileResponse converts a domain file to a response DTO
func ToFileResponse(f *inventory.AdditionalFile) FileResponse {
	return FileResponse{
		ID:          f.ID,
		TeamID:      f.TeamID,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		Description: f.Description,
		FilePath:    f.FilePath,
		LinkedCount: f.LinkedCount,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// ToFileResponses converts files and fills in their download URLs.
// A file whose URL cannot be built is returned without one.
func (m *Manager) ToFileResponses(ctx context.Context, files []inventory.AdditionalFile) []FileResponse {
	responses := make([]FileResponse, len(files))
	for i := range files {
		responses[i] = ToFileResponse(&files[i])
		if url, err := m.URL(ctx, files[i].FilePath); err == nil {
			responses[i].URL = url
		}
	}
	return responses
}
