package taxonomy

import (
	"context"

	"github.com/assetdesk/backend/internal/application/attachment"
	"github.com/assetdesk/backend/internal/domain/taxonomy"
	"github.com/assetdesk/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocationService handles location operations. Location images are
// stored through the attachment manager under the locations namespace.
type LocationService struct {
	repo   taxonomy.LocationRepository
	files  *attachment.Manager
	logger *zap.Logger
}

// NewLocationService creates a new LocationService. Events are published
// through the attachment manager's publisher.
func NewLocationService(repo taxonomy.LocationRepository, files *attachment.Manager, logger *zap.Logger) *LocationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocationService{repo: repo, files: files, logger: logger.Named("location_service")}
}

// Create creates a new location with an optional image
func (s *LocationService) Create(ctx context.Context, teamID uuid.UUID, req LocationRequest) (*LocationResponse, error) {
	location, err := taxonomy.NewLocation(teamID, req.Name, req.Description, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, location, req.Image); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, location), nil
}

// GetByID retrieves a location
func (s *LocationService) GetByID(ctx context.Context, teamID, id uuid.UUID) (*LocationResponse, error) {
	location, err := s.repo.FindByIDForTeam(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, location), nil
}

// List lists the team's locations
func (s *LocationService) List(ctx context.Context, teamID uuid.UUID, filter ListFilter) ([]LocationResponse, int64, error) {
	domainFilter := pageFilter(filter.Search, filter.Page, filter.PerPage, filter.OrderBy, filter.OrderDir)

	locations, err := s.repo.FindAllForTeam(ctx, teamID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTeam(ctx, teamID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]LocationResponse, len(locations))
	for i := range locations {
		responses[i] = *s.toResponse(ctx, &locations[i])
	}
	return responses, total, nil
}

// Update updates a location. A new image replaces the old one, whose blob
// is deleted once the location is saved.
func (s *LocationService) Update(ctx context.Context, teamID, id uuid.UUID, req LocationRequest) (*LocationResponse, error) {
	location, err := s.repo.FindByIDForTeam(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	if err := location.Update(req.Name, req.Description, req.Address); err != nil {
		return nil, err
	}
	if err := s.save(ctx, location, req.Image); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, location), nil
}

// Delete permanently deletes a location and its image. Assets at the
// location keep existing without one.
func (s *LocationService) Delete(ctx context.Context, teamID, id uuid.UUID) error {
	location, err := s.repo.FindByIDForTeam(ctx, teamID, id)
	if err != nil {
		return err
	}

	batch := attachment.NewBatch()
	err = s.repo.DeleteForTeam(ctx, teamID, id)
	if err == nil {
		batch.Release(location.Image)
		location.MarkDeleted()
		batch.Collect(location)
	}
	s.files.Settle(ctx, batch, err)
	if err != nil {
		return err
	}

	logger.Enrich(ctx, s.logger).Info("location deleted", zap.String("location_id", id.String()))
	return nil
}

// save stores the optional new image first, then the row. A failed save
// removes the new blob; a successful one releases the previous image.
func (s *LocationService) save(ctx context.Context, location *taxonomy.Location, image *attachment.Upload) error {
	batch := attachment.NewBatch()
	err := func() error {
		if image != nil {
			key, err := s.files.ReplaceImage(ctx, batch, attachment.NamespaceLocations, location.TeamID, location.Image, *image)
			if err != nil {
				return err
			}
			location.SetImage(key)
		}
		if err := s.repo.Save(ctx, location); err != nil {
			return err
		}
		batch.Collect(location)
		return nil
	}()
	s.files.Settle(ctx, batch, err)
	return err
}

func (s *LocationService) toResponse(ctx context.Context, location *taxonomy.Location) *LocationResponse {
	resp := ToLocationResponse(location)
	resp.ImageURL, _ = s.files.URL(ctx, location.Image)
	return &resp
}
