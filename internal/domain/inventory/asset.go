package inventory

import (
	"strings"
	"time"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Asset is a tracked item owned by a team
type Asset struct {
	shared.TeamAggregateRoot
	CustomID    string
	Name        string
	Description string
	Image       string
	Value       *decimal.Decimal
	CategoryID  *uuid.UUID
	LocationID  *uuid.UUID
	Status      Status
	TagIDs      []uuid.UUID
}

// AssetFields holds the editable scalar fields of an asset
type AssetFields struct {
	CustomID    string
	Name        string
	Description string
	Value       *decimal.Decimal
	CategoryID  *uuid.UUID
	LocationID  *uuid.UUID
	Status      string
}

// NewAsset creates a new asset for a team
func NewAsset(teamID uuid.UUID, fields AssetFields) (*Asset, error) {
	if teamID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_TEAM_ID", "Team ID cannot be empty")
	}
	asset := &Asset{
		TeamAggregateRoot: shared.NewTeamAggregateRoot(teamID),
	}
	if err := asset.apply(fields); err != nil {
		return nil, err
	}

	asset.AddDomainEvent(NewAssetCreatedEvent(asset))

	return asset, nil
}

// Update replaces the asset's scalar fields
func (a *Asset) Update(fields AssetFields) error {
	if err := a.apply(fields); err != nil {
		return err
	}
	a.MarkChanged(NewAssetUpdatedEvent(a))

	return nil
}

// SetImage sets the image path and returns the previous one
func (a *Asset) SetImage(path string) string {
	old := a.Image
	a.Image = path
	a.UpdatedAt = time.Now()
	return old
}

// SetTags replaces the tag membership
func (a *Asset) SetTags(tagIDs []uuid.UUID) {
	a.TagIDs = UniqueIDs(tagIDs)
}

// MarkDeleted records the deletion event
func (a *Asset) MarkDeleted() {
	a.AddDomainEvent(NewAssetDeletedEvent(a))
}

func (a *Asset) apply(fields AssetFields) error {
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
	value, err := validateValue(fields.Value)
	if err != nil {
		return err
	}

	a.Name = name
	a.CustomID = customID
	a.Description = fields.Description
	a.Value = value
	a.CategoryID = nonNil(fields.CategoryID)
	a.LocationID = nonNil(fields.LocationID)
	a.Status = status
	return nil
}

// OwnerID implements AttachmentOwner
func (a *Asset) OwnerID() uuid.UUID { return a.ID }

// OwnerTeamID implements AttachmentOwner
func (a *Asset) OwnerTeamID() uuid.UUID { return a.TeamID }

// OwnerType implements AttachmentOwner
func (a *Asset) OwnerType() OwnerType { return OwnerTypeAsset }

var maxAssetValue = decimal.New(1, 13) // decimal(15,2)

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewValidationError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 255 {
		return "", shared.NewValidationError("INVALID_NAME", "Name cannot exceed 255 characters")
	}
	return name, nil
}

func validateCustomID(customID string) (string, error) {
	customID = strings.TrimSpace(customID)
	if len(customID) > 255 {
		return "", shared.NewValidationError("INVALID_CUSTOM_ID", "Custom ID cannot exceed 255 characters")
	}
	return customID, nil
}

func validateValue(value *decimal.Decimal) (*decimal.Decimal, error) {
	if value == nil {
		return nil, nil
	}
	rounded := value.Round(2)
	if rounded.Abs().GreaterThanOrEqual(maxAssetValue) {
		return nil, shared.NewValidationError("INVALID_VALUE", "Value exceeds the supported range")
	}
	return &rounded, nil
}

func nonNil(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	v := *id
	return &v
}
