package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact raised by an aggregate and published after commit
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TeamID() uuid.UUID
}

// BaseDomainEvent carries the envelope every event shares. It is left out
// of the JSON encoding: the audit log stores it in its own columns and
// only the event-specific fields go into the payload.
type BaseDomainEvent struct {
	id            uuid.UUID
	eventType     string
	occurredAt    time.Time
	aggregateID   uuid.UUID
	aggregateType string
	teamID        uuid.UUID
}

// NewBaseDomainEvent stamps a new event with an ID and the current time
func NewBaseDomainEvent(eventType, aggregateType string, aggregateID, teamID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		id:            NewID(),
		eventType:     eventType,
		occurredAt:    time.Now(),
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
		teamID:        teamID,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.id }
func (e *BaseDomainEvent) EventType() string      { return e.eventType }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.occurredAt }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.aggregateID }
func (e *BaseDomainEvent) AggregateType() string  { return e.aggregateType }
func (e *BaseDomainEvent) TeamID() uuid.UUID      { return e.teamID }
