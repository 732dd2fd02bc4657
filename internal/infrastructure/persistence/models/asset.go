package models

import (
	"time"

	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetModel is the persistence model for the Asset aggregate.
// Tags live in asset_tags and are loaded separately.
type AssetModel struct {
	TeamAggregateModel
	CustomID    string           `gorm:"column:custom_id;type:varchar(255)"`
	Name        string           `gorm:"type:varchar(255);not null"`
	Description string           `gorm:"type:text"`
	Image       string           `gorm:"type:varchar(500)"`
	Value       *decimal.Decimal `gorm:"type:decimal(15,2)"`
	CategoryID  *uuid.UUID       `gorm:"type:uuid;index"`
	LocationID  *uuid.UUID       `gorm:"type:uuid;index"`
	Status      string           `gorm:"type:varchar(255);not null;default:'Available'"`
}

// TableName returns the table name for GORM
func (AssetModel) TableName() string {
	return "assets"
}

// ToDomain converts the persistence model to a domain Asset
func (m *AssetModel) ToDomain(tagIDs []uuid.UUID) *inventory.Asset {
	return &inventory.Asset{
		TeamAggregateRoot: m.teamRoot(),
		CustomID:          m.CustomID,
		Name:              m.Name,
		Description:       m.Description,
		Image:             m.Image,
		Value:             m.Value,
		CategoryID:        m.CategoryID,
		LocationID:        m.LocationID,
		Status:            inventory.Status(m.Status),
		TagIDs:            tagIDs,
	}
}

// FromDomain populates the persistence model from a domain Asset
func (m *AssetModel) FromDomain(a *inventory.Asset) {
	m.setTeamRoot(a.TeamAggregateRoot)
	m.CustomID = a.CustomID
	m.Name = a.Name
	m.Description = a.Description
	m.Image = a.Image
	m.Value = a.Value
	m.CategoryID = a.CategoryID
	m.LocationID = a.LocationID
	m.Status = string(a.Status)
}

// AssetModelFromDomain creates a new persistence model from a domain Asset
func AssetModelFromDomain(a *inventory.Asset) *AssetModel {
	m := &AssetModel{}
	m.FromDomain(a)
	return m
}

// AssetTagModel links an asset to a tag
type AssetTagModel struct {
	AssetID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	TagID     uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AssetTagModel) TableName() string {
	return "asset_tags"
}

// KitModel is the persistence model for the Kit aggregate
type KitModel struct {
	TeamAggregateModel
	CustomID    string `gorm:"column:custom_id;type:varchar(255)"`
	Name        string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`
	Image       string `gorm:"type:varchar(500)"`
	Status      string `gorm:"type:varchar(255);not null;default:'Available'"`
	AssetCount  int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (KitModel) TableName() string {
	return "kits"
}

// ToDomain converts the persistence model to a domain Kit
func (m *KitModel) ToDomain() *inventory.Kit {
	return &inventory.Kit{
		TeamAggregateRoot: m.teamRoot(),
		CustomID:          m.CustomID,
		Name:              m.Name,
		Description:       m.Description,
		Image:             m.Image,
		Status:            inventory.Status(m.Status),
		AssetCount:        m.AssetCount,
	}
}

// FromDomain populates the persistence model from a domain Kit
func (m *KitModel) FromDomain(k *inventory.Kit) {
	m.setTeamRoot(k.TeamAggregateRoot)
	m.CustomID = k.CustomID
	m.Name = k.Name
	m.Description = k.Description
	m.Image = k.Image
	m.Status = string(k.Status)
	m.AssetCount = k.AssetCount
}

// KitModelFromDomain creates a new persistence model from a domain Kit
func KitModelFromDomain(k *inventory.Kit) *KitModel {
	m := &KitModel{}
	m.FromDomain(k)
	return m
}

// KitAssetModel is one kit membership row
type KitAssetModel struct {
	KitID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	AssetID   uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (KitAssetModel) TableName() string {
	return "kit_assets"
}
