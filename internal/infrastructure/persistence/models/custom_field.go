package models

import (
	"time"

	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/google/uuid"
)

// CustomFieldModel is the persistence model for field definitions
type CustomFieldModel struct {
	AggregateModel
	Name             string                   `gorm:"type:varchar(255);not null"`
	Description      string                   `gorm:"type:text"`
	Type             string                   `gorm:"type:varchar(20);not null"`
	Required         bool                     `gorm:"not null;default:false"`
	Active           bool                     `gorm:"not null;default:true"`
	CategorySpecific bool                     `gorm:"not null;default:false"`
	Options          []CustomFieldOptionModel `gorm:"foreignKey:CustomFieldID"`
}

// TableName returns the table name for GORM
func (CustomFieldModel) TableName() string {
	return "custom_fields"
}

// ToDomain converts the persistence model to a domain CustomField
func (m *CustomFieldModel) ToDomain(categoryIDs []uuid.UUID) *inventory.CustomField {
	f := &inventory.CustomField{
		BaseAggregateRoot: m.root(),
		Name:              m.Name,
		Description:       m.Description,
		Type:              inventory.FieldType(m.Type),
		Required:          m.Required,
		Active:            m.Active,
		CategorySpecific:  m.CategorySpecific,
		CategoryIDs:       categoryIDs,
		Options:           make([]inventory.CustomFieldOption, 0, len(m.Options)),
	}
	for _, o := range m.Options {
		f.Options = append(f.Options, inventory.CustomFieldOption{
			ID:            o.ID,
			CustomFieldID: o.CustomFieldID,
			Value:         o.Value,
			SortOrder:     o.SortOrder,
		})
	}
	return f
}

// CustomFieldModelFromDomain creates a persistence model without options;
// options are written separately.
func CustomFieldModelFromDomain(f *inventory.CustomField) *CustomFieldModel {
	m := &CustomFieldModel{
		Name:             f.Name,
		Description:      f.Description,
		Type:             string(f.Type),
		Required:         f.Required,
		Active:           f.Active,
		CategorySpecific: f.CategorySpecific,
	}
	m.setRoot(f.BaseAggregateRoot)
	return m
}

// CustomFieldOptionModel is one option of a select field
type CustomFieldOptionModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	CustomFieldID uuid.UUID `gorm:"type:uuid;not null;index"`
	Value         string    `gorm:"type:varchar(255);not null"`
	SortOrder     int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CustomFieldOptionModel) TableName() string {
	return "custom_field_options"
}

// CustomFieldCategoryModel links a category specific field to a category
type CustomFieldCategoryModel struct {
	CustomFieldID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (CustomFieldCategoryModel) TableName() string {
	return "custom_field_categories"
}

// CustomFieldValueModel stores one owner's value of a field
type CustomFieldValueModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	OwnerType     string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_custom_field_value_owner,priority:1"`
	OwnerID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_custom_field_value_owner,priority:2"`
	CustomFieldID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_custom_field_value_owner,priority:3"`
	Value         string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CustomFieldValueModel) TableName() string {
	return "custom_field_values"
}

// ToDomain converts the persistence model to a domain CustomFieldValue
func (m *CustomFieldValueModel) ToDomain() inventory.CustomFieldValue {
	return inventory.CustomFieldValue{
		ID:            m.ID,
		OwnerType:     inventory.OwnerType(m.OwnerType),
		OwnerID:       m.OwnerID,
		CustomFieldID: m.CustomFieldID,
		Value:         m.Value,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
