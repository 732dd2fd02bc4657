package inventory

import (
	"context"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AssetReader defines the interface for reading individual assets
type AssetReader interface {
	// FindByID finds an asset regardless of team. Used for cross-team checks.
	FindByID(ctx context.Context, id uuid.UUID) (*Asset, error)

	// FindByIDForTeam finds an asset within a team
	FindByIDForTeam(ctx context.Context, teamID, id uuid.UUID) (*Asset, error)

	// FindByIDs finds the team's assets with the given ids
	FindByIDs(ctx context.Context, teamID uuid.UUID, ids []uuid.UUID) ([]Asset, error)
}

// AssetFinder defines the interface for searching assets
type AssetFinder interface {
	// FindAllForTeam lists a team's assets. Filters: category_id, location_id, status.
	FindAllForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) ([]Asset, error)

	// CountForTeam counts a team's assets matching the filter
	CountForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) (int64, error)
}

// AssetWriter defines the interface for asset persistence
type AssetWriter interface {
	// Save creates or updates an asset and replaces its tag set with TagIDs
	Save(ctx context.Context, asset *Asset) error

	// Delete detaches the asset's tags and deletes the row. Membership,
	// attachment and custom value rows cascade in storage.
	Delete(ctx context.Context, teamID, id uuid.UUID) error
}

// AssetRepository defines the full interface for asset persistence
type AssetRepository interface {
	AssetReader
	AssetFinder
	AssetWriter
}
