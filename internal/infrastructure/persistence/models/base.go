package models

import (
	"time"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel is the id and timestamps of every table. GORM fills the
// timestamps on create; BeforeCreate fills a missing ID.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns a UUIDv7 to rows built without one, such as
// attachment join rows
func (m *BaseModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = shared.NewID()
	}
	return nil
}

func (m *BaseModel) entity() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func (m *BaseModel) setEntity(e shared.BaseEntity) {
	m.ID, m.CreatedAt, m.UpdatedAt = e.ID, e.CreatedAt, e.UpdatedAt
}

// AggregateModel adds the aggregate version to BaseModel
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

func (m *AggregateModel) root() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{BaseEntity: m.entity(), Version: m.Version}
}

func (m *AggregateModel) setRoot(a shared.BaseAggregateRoot) {
	m.setEntity(a.BaseEntity)
	m.Version = a.Version
}

// TeamAggregateModel adds the owning team. Every team-scoped query
// filters on team_id, hence the index.
type TeamAggregateModel struct {
	AggregateModel
	TeamID uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (m *TeamAggregateModel) teamRoot() shared.TeamAggregateRoot {
	return shared.TeamAggregateRoot{BaseAggregateRoot: m.root(), TeamID: m.TeamID}
}

func (m *TeamAggregateModel) setTeamRoot(t shared.TeamAggregateRoot) {
	m.setRoot(t.BaseAggregateRoot)
	m.TeamID = t.TeamID
}
