package taxonomy

import (
	"context"

	"github.com/assetdesk/backend/internal/domain/taxonomy"
	"github.com/assetdesk/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryService handles category operations. Deleting a category moves
// it to the trash, from where it can be restored.
type CategoryService struct {
	publisher
	repo   taxonomy.CategoryRepository
	logger *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(repo taxonomy.CategoryRepository, logger *zap.Logger) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{repo: repo, logger: logger.Named("category_service")}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, teamID uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	category, err := taxonomy.NewCategory(teamID, req.Name, req.Color, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, category); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, category)

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// GetByID retrieves a live category
func (s *CategoryService) GetByID(ctx context.Context, teamID, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.repo.FindByIDForTeam(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// List lists live categories, or trashed ones when filter.Trashed is set
func (s *CategoryService) List(ctx context.Context, teamID uuid.UUID, filter CategoryListFilter) ([]CategoryResponse, int64, error) {
	domainFilter := pageFilter(filter.Search, filter.Page, filter.PerPage, filter.OrderBy, filter.OrderDir)

	categories, err := s.repo.FindAllForTeam(ctx, teamID, domainFilter, filter.Trashed)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTeam(ctx, teamID, domainFilter, filter.Trashed)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses, total, nil
}

// Update updates a live category
func (s *CategoryService) Update(ctx context.Context, teamID, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	category, err := s.repo.FindByIDForTeam(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	if err := category.Update(req.Name, req.Color, req.Description); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, category); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, category)

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete moves a category to the trash. Assets keep their category_id.
func (s *CategoryService) Delete(ctx context.Context, teamID, id uuid.UUID) error {
	category, err := s.repo.FindByIDForTeam(ctx, teamID, id)
	if err != nil {
		return err
	}
	if err := category.Trash(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, category); err != nil {
		return err
	}
	s.publishDomainEvents(ctx, category)

	logger.Enrich(ctx, s.logger).Info("category trashed", zap.String("category_id", id.String()))
	return nil
}

// Restore takes a category out of the trash
func (s *CategoryService) Restore(ctx context.Context, teamID, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.repo.FindByIDWithTrashed(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	if err := category.Restore(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, category); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, category)

	logger.Enrich(ctx, s.logger).Info("category restored", zap.String("category_id", id.String()))
	resp := ToCategoryResponse(category)
	return &resp, nil
}
