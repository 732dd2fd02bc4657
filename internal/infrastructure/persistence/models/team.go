package models

import (
	"time"

	"github.com/assetdesk/backend/internal/domain/audit"
	"github.com/assetdesk/backend/internal/domain/team"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TeamModel is the persistence model for teams
type TeamModel struct {
	AggregateModel
	Name        string `gorm:"type:varchar(255)"`
	ColoredLogo string `gorm:"column:colored_logo;type:varchar(500)"`
	BWLogo      string `gorm:"column:bw_logo;type:varchar(500)"`
}

// TableName returns the table name for GORM
func (TeamModel) TableName() string {
	return "teams"
}

// ToDomain converts the persistence model to a domain Team
func (m *TeamModel) ToDomain() *team.Team {
	return &team.Team{
		BaseAggregateRoot: m.root(),
		Name:              m.Name,
		ColoredLogo:       m.ColoredLogo,
		BWLogo:            m.BWLogo,
	}
}

// TeamModelFromDomain creates a new persistence model from a domain Team
func TeamModelFromDomain(t *team.Team) *TeamModel {
	m := &TeamModel{
		Name:        t.Name,
		ColoredLogo: t.ColoredLogo,
		BWLogo:      t.BWLogo,
	}
	m.setRoot(t.BaseAggregateRoot)
	return m
}

// AuditEntryModel is one stored domain event
type AuditEntryModel struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key"`
	TeamID        uuid.UUID      `gorm:"type:uuid;not null;index"`
	EventType     string         `gorm:"type:varchar(100);not null;index"`
	AggregateType string         `gorm:"type:varchar(50);not null"`
	AggregateID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Payload       datatypes.JSON `gorm:"not null"`
	OccurredAt    time.Time      `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditEntryModel) TableName() string {
	return "audit_entries"
}

// ToDomain converts the persistence model to a domain audit Entry
func (m *AuditEntryModel) ToDomain() audit.Entry {
	return audit.Entry{
		ID:            m.ID,
		TeamID:        m.TeamID,
		EventType:     m.EventType,
		AggregateType: m.AggregateType,
		AggregateID:   m.AggregateID,
		Payload:       []byte(m.Payload),
		OccurredAt:    m.OccurredAt,
	}
}

// AuditEntryModelFromDomain creates a new persistence model from a domain audit Entry
func AuditEntryModelFromDomain(e *audit.Entry) *AuditEntryModel {
	return &AuditEntryModel{
		ID:            e.ID,
		TeamID:        e.TeamID,
		EventType:     e.EventType,
		AggregateType: e.AggregateType,
		AggregateID:   e.AggregateID,
		Payload:       datatypes.JSON(e.Payload),
		OccurredAt:    e.OccurredAt,
	}
}
