package taxonomy

import (
	"context"

	"github.com/assetdesk/backend/internal/domain/taxonomy"
	"github.com/assetdesk/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TagService handles tag operations
type TagService struct {
	publisher
	repo   taxonomy.TagRepository
	logger *zap.Logger
}

// NewTagService creates a new TagService
func NewTagService(repo taxonomy.TagRepository, logger *zap.Logger) *TagService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TagService{repo: repo, logger: logger.Named("tag_service")}
}

// Create creates a new tag
func (s *TagService) Create(ctx context.Context, teamID uuid.UUID, req TagRequest) (*TagResponse, error) {
	tag, err := taxonomy.NewTag(teamID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, tag); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, tag)

	resp := ToTagResponse(tag)
	return &resp, nil
}

// GetByID retrieves a tag
func (s *TagService) GetByID(ctx context.Context, teamID, id uuid.UUID) (*TagResponse, error) {
	tag, err := s.repo.FindByIDForTeam(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	resp := ToTagResponse(tag)
	return &resp, nil
}

// List lists the team's tags
func (s *TagService) List(ctx context.Context, teamID uuid.UUID, filter ListFilter) ([]TagResponse, int64, error) {
	domainFilter := pageFilter(filter.Search, filter.Page, filter.PerPage, filter.OrderBy, filter.OrderDir)

	tags, err := s.repo.FindAllForTeam(ctx, teamID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTeam(ctx, teamID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TagResponse, len(tags))
	for i := range tags {
		responses[i] = ToTagResponse(&tags[i])
	}
	return responses, total, nil
}

// Update updates a tag
func (s *TagService) Update(ctx context.Context, teamID, id uuid.UUID, req TagRequest) (*TagResponse, error) {
	tag, err := s.repo.FindByIDForTeam(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	if err := tag.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, tag); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, tag)

	resp := ToTagResponse(tag)
	return &resp, nil
}

// Delete permanently deletes a tag and removes it from every asset
func (s *TagService) Delete(ctx context.Context, teamID, id uuid.UUID) error {
	tag, err := s.repo.FindByIDForTeam(ctx, teamID, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteForTeam(ctx, teamID, id); err != nil {
		return err
	}
	tag.MarkDeleted()
	s.publishDomainEvents(ctx, tag)

	logger.Enrich(ctx, s.logger).Info("tag deleted", zap.String("tag_id", id.String()))
	return nil
}
