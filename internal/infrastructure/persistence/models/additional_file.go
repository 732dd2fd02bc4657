package models

import (
	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/google/uuid"
)

// AdditionalFileModel is the persistence model for the AdditionalFile aggregate
type AdditionalFileModel struct {
	TeamAggregateModel
	FilePath    string `gorm:"column:file_path;type:varchar(500);not null"`
	Name        string `gorm:"type:varchar(255);not null"`
	MimeType    string `gorm:"column:mime_type;type:varchar(100);not null"`
	Size        int64  `gorm:"type:bigint;not null"`
	Description string `gorm:"type:text"`
	LinkedCount int    `gorm:"column:linked_count;not null;default:0"`
}

// TableName returns the table name for GORM
func (AdditionalFileModel) TableName() string {
	return "additional_files"
}

// ToDomain converts the persistence model to a domain AdditionalFile
func (m *AdditionalFileModel) ToDomain() *inventory.AdditionalFile {
	return &inventory.AdditionalFile{
		TeamAggregateRoot: m.teamRoot(),
		FilePath:          m.FilePath,
		Name:              m.Name,
		MimeType:          m.MimeType,
		Size:              m.Size,
		Description:       m.Description,
		LinkedCount:       m.LinkedCount,
	}
}

// FromDomain populates the persistence model from a domain AdditionalFile
func (m *AdditionalFileModel) FromDomain(f *inventory.AdditionalFile) {
	m.setTeamRoot(f.TeamAggregateRoot)
	m.FilePath = f.FilePath
	m.Name = f.Name
	m.MimeType = f.MimeType
	m.Size = f.Size
	m.Description = f.Description
	m.LinkedCount = f.LinkedCount
}

// AdditionalFileModelFromDomain creates a new persistence model from a domain AdditionalFile
func AdditionalFileModelFromDomain(f *inventory.AdditionalFile) *AdditionalFileModel {
	m := &AdditionalFileModel{}
	m.FromDomain(f)
	return m
}

// AssetAdditionalFileModel is an asset attachment row
type AssetAdditionalFileModel struct {
	BaseModel
	AssetID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_asset_additional_file,priority:1"`
	AdditionalFileID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_asset_additional_file,priority:2"`
}

// TableName returns the table name for GORM
func (AssetAdditionalFileModel) TableName() string {
	return "asset_additional_files"
}

// ToDomain converts the row to a domain Attachment
func (m *AssetAdditionalFileModel) ToDomain() inventory.Attachment {
	return inventory.Attachment{
		ID:        m.ID,
		OwnerType: inventory.OwnerTypeAsset,
		OwnerID:   m.AssetID,
		FileID:    m.AdditionalFileID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// KitAdditionalFileModel is a kit attachment row
type KitAdditionalFileModel struct {
	BaseModel
	KitID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_kit_additional_file,priority:1"`
	AdditionalFileID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_kit_additional_file,priority:2"`
}

// TableName returns the table name for GORM
func (KitAdditionalFileModel) TableName() string {
	return "kit_additional_files"
}

// ToDomain converts the row to a domain Attachment
func (m *KitAdditionalFileModel) ToDomain() inventory.Attachment {
	return inventory.Attachment{
		ID:        m.ID,
		OwnerType: inventory.OwnerTypeKit,
		OwnerID:   m.KitID,
		FileID:    m.AdditionalFileID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
