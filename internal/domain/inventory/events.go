package inventory

import (
	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeAsset          = "Asset"
	AggregateTypeKit            = "Kit"
	AggregateTypeAdditionalFile = "AdditionalFile"
)

// Event type constants
const (
	EventTypeAssetCreated          = "AssetCreated"
	EventTypeAssetUpdated          = "AssetUpdated"
	EventTypeAssetDeleted          = "AssetDeleted"
	EventTypeKitCreated            = "KitCreated"
	EventTypeKitUpdated            = "KitUpdated"
	EventTypeKitDeleted            = "KitDeleted"
	EventTypeKitAssetAdded         = "KitAssetAdded"
	EventTypeKitAssetRemoved       = "KitAssetRemoved"
	EventTypeAdditionalFileCreated = "AdditionalFileCreated"
	EventTypeAdditionalFileLinked  = "AdditionalFileLinked"
	EventTypeAdditionalFileDetach  = "AdditionalFileDetached"
	EventTypeAdditionalFileDeleted = "AdditionalFileDeleted"
)

// AssetCreatedEvent is published when an asset is created
type AssetCreatedEvent struct {
	shared.BaseDomainEvent
	AssetID  uuid.UUID `json:"asset_id"`
	Name     string    `json:"name"`
	CustomID string    `json:"custom_id,omitempty"`
	Status   Status    `json:"status"`
}

// NewAssetCreatedEvent creates a new AssetCreatedEvent
func NewAssetCreatedEvent(a *Asset) *AssetCreatedEvent {
	return &AssetCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAssetCreated, AggregateTypeAsset, a.ID, a.TeamID),
		AssetID:         a.ID,
		Name:            a.Name,
		CustomID:        a.CustomID,
		Status:          a.Status,
	}
}

// AssetUpdatedEvent is published when an asset's fields change
type AssetUpdatedEvent struct {
	shared.BaseDomainEvent
	AssetID uuid.UUID `json:"asset_id"`
	Name    string    `json:"name"`
	Status  Status    `json:"status"`
}

// NewAssetUpdatedEvent creates a new AssetUpdatedEvent
func NewAssetUpdatedEvent(a *Asset) *AssetUpdatedEvent {
	return &AssetUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAssetUpdated, AggregateTypeAsset, a.ID, a.TeamID),
		AssetID:         a.ID,
		Name:            a.Name,
		Status:          a.Status,
	}
}

// AssetDeletedEvent is published when an asset is destroyed
type AssetDeletedEvent struct {
	shared.BaseDomainEvent
	AssetID uuid.UUID `json:"asset_id"`
	Name    string    `json:"name"`
}

// NewAssetDeletedEvent creates a new AssetDeletedEvent
func NewAssetDeletedEvent(a *Asset) *AssetDeletedEvent {
	return &AssetDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAssetDeleted, AggregateTypeAsset, a.ID, a.TeamID),
		AssetID:         a.ID,
		Name:            a.Name,
	}
}

// KitCreatedEvent is published when a kit is created
type KitCreatedEvent struct {
	shared.BaseDomainEvent
	KitID uuid.UUID `json:"kit_id"`
	Name  string    `json:"name"`
}

// NewKitCreatedEvent creates a new KitCreatedEvent
func NewKitCreatedEvent(k *Kit) *KitCreatedEvent {
	return &KitCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeKitCreated, AggregateTypeKit, k.ID, k.TeamID),
		KitID:           k.ID,
		Name:            k.Name,
	}
}

// KitUpdatedEvent is published when a kit's fields change
type KitUpdatedEvent struct {
	shared.BaseDomainEvent
	KitID  uuid.UUID `json:"kit_id"`
	Name   string    `json:"name"`
	Status Status    `json:"status"`
}

// NewKitUpdatedEvent creates a new KitUpdatedEvent
func NewKitUpdatedEvent(k *Kit) *KitUpdatedEvent {
	return &KitUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeKitUpdated, AggregateTypeKit, k.ID, k.TeamID),
		KitID:           k.ID,
		Name:            k.Name,
		Status:          k.Status,
	}
}

// KitDeletedEvent is published when a kit is destroyed
type KitDeletedEvent struct {
	shared.BaseDomainEvent
	KitID uuid.UUID `json:"kit_id"`
	Name  string    `json:"name"`
}

// NewKitDeletedEvent creates a new KitDeletedEvent
func NewKitDeletedEvent(k *Kit) *KitDeletedEvent {
	return &KitDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeKitDeleted, AggregateTypeKit, k.ID, k.TeamID),
		KitID:           k.ID,
		Name:            k.Name,
	}
}

// KitMembershipEvent is published when an asset joins or leaves a kit
type KitMembershipEvent struct {
	shared.BaseDomainEvent
	KitID      uuid.UUID `json:"kit_id"`
	AssetID    uuid.UUID `json:"asset_id"`
	AssetCount int       `json:"asset_count"`
}

// NewKitAssetAddedEvent creates a membership event for an added asset
func NewKitAssetAddedEvent(k *Kit, assetID uuid.UUID) *KitMembershipEvent {
	return &KitMembershipEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeKitAssetAdded, AggregateTypeKit, k.ID, k.TeamID),
		KitID:           k.ID,
		AssetID:         assetID,
		AssetCount:      k.AssetCount,
	}
}

// NewKitAssetRemovedEvent creates a membership event for a removed asset
func NewKitAssetRemovedEvent(k *Kit, assetID uuid.UUID) *KitMembershipEvent {
	return &KitMembershipEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeKitAssetRemoved, AggregateTypeKit, k.ID, k.TeamID),
		KitID:           k.ID,
		AssetID:         assetID,
		AssetCount:      k.AssetCount,
	}
}

// AdditionalFileCreatedEvent is published when a file enters the pool
type AdditionalFileCreatedEvent struct {
	shared.BaseDomainEvent
	FileID      uuid.UUID `json:"file_id"`
	Name        string    `json:"name"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	FilePath    string    `json:"file_path"`
	LinkedCount int       `json:"linked_count"`
}

// NewAdditionalFileCreatedEvent creates a new AdditionalFileCreatedEvent
func NewAdditionalFileCreatedEvent(f *AdditionalFile) *AdditionalFileCreatedEvent {
	return &AdditionalFileCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdditionalFileCreated, AggregateTypeAdditionalFile, f.ID, f.TeamID),
		FileID:          f.ID,
		Name:            f.Name,
		MimeType:        f.MimeType,
		Size:            f.Size,
		FilePath:        f.FilePath,
		LinkedCount:     f.LinkedCount,
	}
}

// AdditionalFileLinkEvent is published when a file is linked to or detached from an owner
type AdditionalFileLinkEvent struct {
	shared.BaseDomainEvent
	FileID      uuid.UUID `json:"file_id"`
	OwnerType   OwnerType `json:"owner_type"`
	OwnerID     uuid.UUID `json:"owner_id"`
	LinkedCount int       `json:"linked_count"`
}

// NewAdditionalFileLinkedEvent creates a link event
func NewAdditionalFileLinkedEvent(f *AdditionalFile, owner AttachmentOwner) *AdditionalFileLinkEvent {
	return newFileLinkEvent(EventTypeAdditionalFileLinked, f, owner)
}

// NewAdditionalFileDetachedEvent creates a detach event
func NewAdditionalFileDetachedEvent(f *AdditionalFile, owner AttachmentOwner) *AdditionalFileLinkEvent {
	return newFileLinkEvent(EventTypeAdditionalFileDetach, f, owner)
}

func newFileLinkEvent(eventType string, f *AdditionalFile, owner AttachmentOwner) *AdditionalFileLinkEvent {
	return &AdditionalFileLinkEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeAdditionalFile, f.ID, f.TeamID),
		FileID:          f.ID,
		OwnerType:       owner.OwnerType(),
		OwnerID:         owner.OwnerID(),
		LinkedCount:     f.LinkedCount,
	}
}

// AdditionalFileDeletedEvent is published when a file record and its blob are removed
type AdditionalFileDeletedEvent struct {
	shared.BaseDomainEvent
	FileID   uuid.UUID `json:"file_id"`
	FilePath string    `json:"file_path"`
	Reason   string    `json:"reason"`
}

// NewAdditionalFileDeletedEvent creates a new AdditionalFileDeletedEvent
func NewAdditionalFileDeletedEvent(f *AdditionalFile, reason string) *AdditionalFileDeletedEvent {
	return &AdditionalFileDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdditionalFileDeleted, AggregateTypeAdditionalFile, f.ID, f.TeamID),
		FileID:          f.ID,
		FilePath:        f.FilePath,
		Reason:          reason,
	}
}
