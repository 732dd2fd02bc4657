package inventory

import (
	"context"

	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/assetdesk/backend/internal/domain/taxonomy"
	"github.com/assetdesk/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomFieldService manages custom field definitions. Definitions are
// shared by all teams; the categories a field is limited to must belong to
// the acting team.
type CustomFieldService struct {
	fields     inventory.CustomFieldRepository
	categories taxonomy.CategoryRepository
	logger     *zap.Logger
}

// NewCustomFieldService creates a new CustomFieldService
func NewCustomFieldService(fields inventory.CustomFieldRepository, categories taxonomy.CategoryRepository, logger *zap.Logger) *CustomFieldService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomFieldService{fields: fields, categories: categories, logger: logger.Named("custom_field_service")}
}

// Create creates a field definition with its options
func (s *CustomFieldService) Create(ctx context.Context, teamID uuid.UUID, req CustomFieldRequest) (*CustomFieldResponse, error) {
	field, err := inventory.NewCustomField(req.spec())
	if err != nil {
		return nil, err
	}
	if err := s.checkCategories(ctx, teamID, field.CategoryIDs); err != nil {
		return nil, err
	}
	if err := s.fields.Save(ctx, field); err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("custom field created",
		zap.String("custom_field_id", field.ID.String()),
		zap.String("type", string(field.Type)),
	)
	resp := ToCustomFieldResponse(field)
	return &resp, nil
}

// GetByID retrieves a field definition
func (s *CustomFieldService) GetByID(ctx context.Context, id uuid.UUID) (*CustomFieldResponse, error) {
	field, err := s.fields.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomFieldResponse(field)
	return &resp, nil
}

// List lists field definitions
func (s *CustomFieldService) List(ctx context.Context, filter CustomFieldListFilter) ([]CustomFieldResponse, int64, error) {
	domainFilter := pageFilter(filter.Search, filter.Page, filter.PerPage, filter.OrderBy, filter.OrderDir)
	if filter.Type != "" {
		domainFilter = domainFilter.Where("type", filter.Type)
	}
	if filter.Active != nil {
		domainFilter = domainFilter.Where("active", *filter.Active)
	}

	fields, err := s.fields.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.fields.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomFieldResponse, len(fields))
	for i := range fields {
		responses[i] = ToCustomFieldResponse(&fields[i])
	}
	return responses, total, nil
}

// Update replaces a field definition. Stored values are kept; values that
// no longer match the type are rejected on the owner's next write.
func (s *CustomFieldService) Update(ctx context.Context, teamID, id uuid.UUID, req CustomFieldRequest) (*CustomFieldResponse, error) {
	field, err := s.fields.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := field.Update(req.spec()); err != nil {
		return nil, err
	}
	if err := s.checkCategories(ctx, teamID, field.CategoryIDs); err != nil {
		return nil, err
	}
	if err := s.fields.Save(ctx, field); err != nil {
		return nil, err
	}
	resp := ToCustomFieldResponse(field)
	return &resp, nil
}

// Delete deletes a field definition, its options and every stored value
func (s *CustomFieldService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.fields.Delete(ctx, id); err != nil {
		return err
	}
	logger.Enrich(ctx, s.logger).Info("custom field deleted", zap.String("custom_field_id", id.String()))
	return nil
}

func (s *CustomFieldService) checkCategories(ctx context.Context, teamID uuid.UUID, ids []uuid.UUID) error {
	for _, id := range ids {
		category, err := s.categories.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if category.TeamID != teamID {
			return shared.NewCrossTeamError("Category")
		}
	}
	return nil
}
