package taxonomy

import (
	"context"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryRepository defines the interface for category persistence.
// Trashed categories are invisible to every method except the ones
// taking an explicit trashed flag.
type CategoryRepository interface {
	// FindByID finds a live category regardless of team, for cross-team checks
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindByIDForTeam finds a live category within a team
	FindByIDForTeam(ctx context.Context, teamID, id uuid.UUID) (*Category, error)

	// FindByIDWithTrashed finds a category within a team, trashed or not
	FindByIDWithTrashed(ctx context.Context, teamID, id uuid.UUID) (*Category, error)

	// FindAllForTeam lists categories; trashed selects the soft deleted ones instead
	FindAllForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter, trashed bool) ([]Category, error)

	// CountForTeam counts categories; trashed as in FindAllForTeam
	CountForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter, trashed bool) (int64, error)

	// Save creates or updates a category, including DeletedAt
	Save(ctx context.Context, category *Category) error
}

// TagRepository defines the interface for tag persistence
type TagRepository interface {
	FindByIDForTeam(ctx context.Context, teamID, id uuid.UUID) (*Tag, error)

	// FindByIDs finds tags by id regardless of team, for cross-team checks
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Tag, error)

	FindAllForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) ([]Tag, error)
	CountForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, tag *Tag) error

	// DeleteForTeam permanently deletes a tag and its asset links
	DeleteForTeam(ctx context.Context, teamID, id uuid.UUID) error
}

// LocationRepository defines the interface for location persistence
type LocationRepository interface {
	// FindByID finds a location regardless of team, for cross-team checks
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)

	FindByIDForTeam(ctx context.Context, teamID, id uuid.UUID) (*Location, error)
	FindAllForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) ([]Location, error)
	CountForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, location *Location) error

	// DeleteForTeam permanently deletes a location. Assets keep existing
	// with their location cleared.
	DeleteForTeam(ctx context.Context, teamID, id uuid.UUID) error
}
