// Package team holds team logo handling. Teams are created by the identity
// provider; a row appears here the first time a logo is uploaded.
package team

import (
	"context"
	"errors"
	"time"

	"github.com/assetdesk/backend/internal/application/attachment"
	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/assetdesk/backend/internal/domain/team"
	"github.com/assetdesk/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LogoRequest is a logo upload
type LogoRequest struct {
	Variant string            `form:"variant" binding:"omitempty,oneof=colored bw"`
	Image   attachment.Upload `form:"-"`
}

// TeamResponse is a team with logo URLs
type TeamResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	ColoredLogo    string    `json:"colored_logo,omitempty"`
	ColoredLogoURL string    `json:"colored_logo_url,omitempty"`
	BWLogo         string    `json:"bw_logo,omitempty"`
	BWLogoURL      string    `json:"bw_logo_url,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Service handles team logos
type Service struct {
	repo   team.Repository
	files  *attachment.Manager
	logger *zap.Logger
}

// NewService creates a new team Service
func NewService(repo team.Repository, files *attachment.Manager, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, files: files, logger: logger.Named("team_service")}
}

// Get returns the team. A team without any logo yet is returned empty.
func (s *Service) Get(ctx context.Context, teamID uuid.UUID) (*TeamResponse, error) {
	t, err := s.load(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, t), nil
}

// UploadLogo stores a logo variant, colored by default. The previous blob
// of that variant is deleted once the team row is saved.
func (s *Service) UploadLogo(ctx context.Context, teamID uuid.UUID, req LogoRequest) (*TeamResponse, error) {
	variant := team.LogoVariant(req.Variant)
	if variant == "" {
		variant = team.LogoColored
	}
	if !variant.IsValid() {
		return nil, shared.NewValidationError("INVALID_LOGO_VARIANT", "Logo variant must be colored or bw")
	}

	t, err := s.load(ctx, teamID)
	if err != nil {
		return nil, err
	}

	batch := attachment.NewBatch()
	err = func() error {
		key, err := s.files.ReplaceImage(ctx, batch, attachment.NamespaceTeamLogos, teamID, t.Logo(variant), req.Image)
		if err != nil {
			return err
		}
		if _, err := t.SetLogo(variant, key); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, t); err != nil {
			return err
		}
		batch.Collect(t)
		return nil
	}()
	s.files.Settle(ctx, batch, err)
	if err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("team logo updated",
		zap.String("variant", string(variant)),
		zap.String("path", t.Logo(variant)),
	)
	return s.toResponse(ctx, t), nil
}

func (s *Service) load(ctx context.Context, teamID uuid.UUID) (*team.Team, error) {
	t, err := s.repo.FindByID(ctx, teamID)
	if errors.Is(err, shared.ErrNotFound) {
		return team.NewTeam(teamID, "")
	}
	return t, err
}

func (s *Service) toResponse(ctx context.Context, t *team.Team) *TeamResponse {
	resp := &TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		ColoredLogo: t.ColoredLogo,
		BWLogo:      t.BWLogo,
		UpdatedAt:   t.UpdatedAt,
	}
	resp.ColoredLogoURL, _ = s.files.URL(ctx, t.ColoredLogo)
	resp.BWLogoURL, _ = s.files.URL(ctx, t.BWLogo)
	return resp
}
