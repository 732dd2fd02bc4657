package models

import (
	"time"

	"github.com/assetdesk/backend/internal/domain/taxonomy"
	"gorm.io/gorm"
)

// CategoryModel is the persistence model for the Category aggregate.
// DeletedAt enables GORM's soft delete scope.
type CategoryModel struct {
	TeamAggregateModel
	Name        string         `gorm:"type:varchar(255);not null"`
	Color       string         `gorm:"type:varchar(7);not null"`
	Description string         `gorm:"type:text"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category
func (m *CategoryModel) ToDomain() *taxonomy.Category {
	c := &taxonomy.Category{
		TeamAggregateRoot: m.teamRoot(),
		Name:              m.Name,
		Color:             m.Color,
		Description:       m.Description,
		DeletedAt:         trashedAt(m.DeletedAt),
	}
	return c
}

// FromDomain populates the persistence model from a domain Category
func (m *CategoryModel) FromDomain(c *taxonomy.Category) {
	m.setTeamRoot(c.TeamAggregateRoot)
	m.Name = c.Name
	m.Color = c.Color
	m.Description = c.Description
	m.DeletedAt = gorm.DeletedAt{}
	if c.DeletedAt != nil {
		m.DeletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	}
}

// CategoryModelFromDomain creates a new persistence model from a domain Category
func CategoryModelFromDomain(c *taxonomy.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}

// TagModel is the persistence model for the Tag aggregate
type TagModel struct {
	TeamAggregateModel
	Name        string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TagModel) TableName() string {
	return "tags"
}

// ToDomain converts the persistence model to a domain Tag
func (m *TagModel) ToDomain() *taxonomy.Tag {
	return &taxonomy.Tag{
		TeamAggregateRoot: m.teamRoot(),
		Name:              m.Name,
		Description:       m.Description,
	}
}

// TagModelFromDomain creates a new persistence model from a domain Tag
func TagModelFromDomain(t *taxonomy.Tag) *TagModel {
	m := &TagModel{
		Name:        t.Name,
		Description: t.Description,
	}
	m.setTeamRoot(t.TeamAggregateRoot)
	return m
}

// LocationModel is the persistence model for the Location aggregate
type LocationModel struct {
	TeamAggregateModel
	Name        string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`
	Address     string `gorm:"type:varchar(500)"`
	Image       string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (LocationModel) TableName() string {
	return "locations"
}

// ToDomain converts the persistence model to a domain Location
func (m *LocationModel) ToDomain() *taxonomy.Location {
	return &taxonomy.Location{
		TeamAggregateRoot: m.teamRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Address:           m.Address,
		Image:             m.Image,
	}
}

// LocationModelFromDomain creates a new persistence model from a domain Location
func LocationModelFromDomain(l *taxonomy.Location) *LocationModel {
	m := &LocationModel{
		Name:        l.Name,
		Description: l.Description,
		Address:     l.Address,
		Image:       l.Image,
	}
	m.setTeamRoot(l.TeamAggregateRoot)
	return m
}

func trashedAt(d gorm.DeletedAt) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}
