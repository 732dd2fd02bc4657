package attachment

import (
	"context"

	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxFilePageSize = 100

// Service serves the team's standalone file pool: files that are uploaded
// on their own and linked to assets and kits later.
type Service struct {
	manager  *Manager
	scope    TransactionScope
	fileRepo inventory.AdditionalFileRepository
	logger   *zap.Logger
}

// NewService creates a new Service
func NewService(manager *Manager, scope TransactionScope, fileRepo inventory.AdditionalFileRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		manager:  manager,
		scope:    scope,
		fileRepo: fileRepo,
		logger:   logger,
	}
}

// List lists the team's files
func (s *Service) List(ctx context.Context, teamID uuid.UUID, filter FileListFilter) ([]FileResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PerPage,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}
	if filter.MimePrefix != "" {
		domainFilter = domainFilter.Where("mime_prefix", filter.MimePrefix)
	}
	if filter.Orphaned {
		domainFilter = domainFilter.Where("orphaned", true)
	}
	domainFilter = domainFilter.Normalize(maxFilePageSize)

	files, err := s.fileRepo.FindAllForTeam(ctx, teamID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.fileRepo.CountForTeam(ctx, teamID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return s.manager.ToFileResponses(ctx, files), total, nil
}

// Get retrieves one of the team's files
func (s *Service) Get(ctx context.Context, teamID, id uuid.UUID) (*FileResponse, error) {
	file, err := s.fileRepo.FindByIDForTeam(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	response := ToFileResponse(file)
	response.URL, err = s.manager.URL(ctx, file.FilePath)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Upload adds a file to the pool with linked_count 0
func (s *Service) Upload(ctx context.Context, teamID uuid.UUID, up Upload) (*FileResponse, error) {
	var file *inventory.AdditionalFile
	err := s.manager.Run(ctx, s.scope, func(repos Repositories, batch *Batch) error {
		var err error
		file, err = s.manager.Create(ctx, repos, batch, teamID, up, 0)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToFileResponse(file)
	if url, err := s.manager.URL(ctx, file.FilePath); err == nil {
		response.URL = url
	}
	return &response, nil
}

// Delete removes a file from the pool, detaching it from every owner
func (s *Service) Delete(ctx context.Context, teamID, id uuid.UUID) (*DeleteFileResponse, error) {
	var owners []inventory.OwnerRef
	err := s.manager.Run(ctx, s.scope, func(repos Repositories, batch *Batch) error {
		var err error
		owners, err = s.manager.DeleteUnconditional(ctx, repos, batch, teamID, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := &DeleteFileResponse{FileID: id, Detached: make([]OwnerResponse, len(owners))}
	for i, owner := range owners {
		response.Detached[i] = OwnerResponse{Type: owner.Type, ID: owner.ID}
	}
	return response, nil
}
