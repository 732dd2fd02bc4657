package inventory

import (
	"time"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Kit is a named bundle of assets. AssetCount mirrors the number of
// membership rows and is only changed together with them.
type Kit struct {
	shared.TeamAggregateRoot
	CustomID    string
	Name        string
	Description string
	Image       string
	Status      Status
	AssetCount  int
}

// KitFields holds the editable scalar fields of a kit
type KitFields struct {
	CustomID    string
	Name        string
	Description string
	Status      string
}

// NewKit creates a new empty kit for a team
func NewKit(teamID uuid.UUID, fields KitFields) (*Kit, error) {
	if teamID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_TEAM_ID", "Team ID cannot be empty")
	}
	kit := &Kit{
		TeamAggregateRoot: shared.NewTeamAggregateRoot(teamID),
	}
	if err := kit.apply(fields); err != nil {
		return nil, err
	}

	kit.AddDomainEvent(NewKitCreatedEvent(kit))

	return kit, nil
}

// Update replaces the kit's scalar fields
func (k *Kit) Update(fields KitFields) error {
	if err := k.apply(fields); err != nil {
		return err
	}
	k.MarkChanged(NewKitUpdatedEvent(k))

	return nil
}

// SetImage sets the image path and returns the previous one
func (k *Kit) SetImage(path string) string {
	old := k.Image
	k.Image = path
	k.UpdatedAt = time.Now()
	return old
}

// CanContain checks that an asset may be placed in this kit
func (k *Kit) CanContain(asset *Asset) error {
	if asset == nil {
		return shared.NewNotFoundError("Asset")
	}
	if asset.TeamID != k.TeamID {
		return shared.NewCrossTeamError("Asset")
	}
	return nil
}

// AssetAdded records a new membership row
func (k *Kit) AssetAdded(assetID uuid.UUID) {
	k.AssetCount++
	k.UpdatedAt = time.Now()
	k.AddDomainEvent(NewKitAssetAddedEvent(k, assetID))
}

// AssetRemoved records a deleted membership row
func (k *Kit) AssetRemoved(assetID uuid.UUID) {
	if k.AssetCount > 0 {
		k.AssetCount--
	}
	k.UpdatedAt = time.Now()
	k.AddDomainEvent(NewKitAssetRemovedEvent(k, assetID))
}

// MarkDeleted records the deletion event
func (k *Kit) MarkDeleted() {
	k.AddDomainEvent(NewKitDeletedEvent(k))
}

func (k *Kit) apply(fields KitFields) error {
	name, err := validateName(fields.Name)
	if err != nil {
		return err
	}
	customID, err := validateCustomID(fields.CustomID)
	if err != nil {
		return err
	}
	status, err := ParseStatus(fields.Status)
	if err != nil {
		return err
	}
	k.Name = name
	k.CustomID = customID
	k.Description = fields.Description
	k.Status = status
	return nil
}

// OwnerID implements AttachmentOwner
func (k *Kit) OwnerID() uuid.UUID { return k.ID }

// OwnerTeamID implements AttachmentOwner
func (k *Kit) OwnerTeamID() uuid.UUID { return k.TeamID }

// OwnerType implements AttachmentOwner
func (k *Kit) OwnerType() OwnerType { return OwnerTypeKit }
