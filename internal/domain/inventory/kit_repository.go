package inventory

import (
	"context"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// KitMembership is one kit-contains-asset row
type KitMembership struct {
	KitID   uuid.UUID
	AssetID uuid.UUID
}

// KitReader defines the interface for reading individual kits
type KitReader interface {
	// FindByIDForTeam finds a kit within a team
	FindByIDForTeam(ctx context.Context, teamID, id uuid.UUID) (*Kit, error)

	// FindByIDForUpdate finds a kit within a team and locks its row
	// until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, teamID, id uuid.UUID) (*Kit, error)
}

// KitFinder defines the interface for searching kits
type KitFinder interface {
	FindAllForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) ([]Kit, error)
	CountForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) (int64, error)
}

// KitWriter defines the interface for kit persistence
type KitWriter interface {
	// Save creates or updates a kit, including AssetCount
	Save(ctx context.Context, kit *Kit) error

	// Delete deletes a kit. Membership, attachment and custom value rows cascade.
	Delete(ctx context.Context, teamID, id uuid.UUID) error
}

// KitMembershipRepository manages the kit-contains-asset relation.
// Callers change membership rows and AssetCount in the same transaction.
type KitMembershipRepository interface {
	// HasAsset reports whether the asset is a member of the kit
	HasAsset(ctx context.Context, kitID, assetID uuid.UUID) (bool, error)

	// AddAsset inserts a membership row. Inserting an existing row is a no-op
	// and reports false.
	AddAsset(ctx context.Context, kitID, assetID uuid.UUID) (bool, error)

	// RemoveAsset deletes a membership row and reports whether one existed
	RemoveAsset(ctx context.Context, kitID, assetID uuid.UUID) (bool, error)

	// ListAssetIDs returns the members of a kit
	ListAssetIDs(ctx context.Context, kitID uuid.UUID) ([]uuid.UUID, error)

	// FindKitIDsByAsset returns the kits containing an asset
	FindKitIDsByAsset(ctx context.Context, assetID uuid.UUID) ([]uuid.UUID, error)

	// ListForTeam returns every membership row of the team's kits
	ListForTeam(ctx context.Context, teamID uuid.UUID) ([]KitMembership, error)

	// AdjustAssetCount atomically adds delta to the kit's asset_count, floored at zero
	AdjustAssetCount(ctx context.Context, kitID uuid.UUID, delta int) error

	// CountMembers counts membership rows of a kit
	CountMembers(ctx context.Context, kitID uuid.UUID) (int64, error)
}

// KitRepository defines the full interface for kit persistence
type KitRepository interface {
	KitReader
	KitFinder
	KitWriter
	KitMembershipRepository
}
