package shared

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a time-ordered UUIDv7, or a random UUID if the clock
// source fails
func NewID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// BaseEntity holds the identity and timestamps every row carries
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity creates a BaseEntity with a fresh ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: NewID(), CreatedAt: now, UpdatedAt: now}
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// AggregateRoot is what services need to publish an aggregate's events
// once its transaction commits
type AggregateRoot interface {
	GetID() uuid.UUID
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot adds a version and pending events to BaseEntity.
// Version starts at 1 and grows by one per MarkChanged.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent
}

// NewBaseAggregateRoot creates a version 1 aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

// GetVersion returns the aggregate version
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// MarkChanged bumps UpdatedAt and Version and queues events
func (a *BaseAggregateRoot) MarkChanged(events ...DomainEvent) {
	a.UpdatedAt = time.Now()
	a.Version++
	a.domainEvents = append(a.domainEvents, events...)
}

// AddDomainEvent queues an event without counting as a change
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the queued events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops the queued events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// TeamAggregateRoot is a BaseAggregateRoot owned by a team. The team is
// the only authorization boundary.
type TeamAggregateRoot struct {
	BaseAggregateRoot
	TeamID uuid.UUID
}

// NewTeamAggregateRoot creates a team-scoped aggregate root
func NewTeamAggregateRoot(teamID uuid.UUID) TeamAggregateRoot {
	return TeamAggregateRoot{BaseAggregateRoot: NewBaseAggregateRoot(), TeamID: teamID}
}

// BelongsTo reports whether teamID owns the aggregate
func (t *TeamAggregateRoot) BelongsTo(teamID uuid.UUID) bool {
	return t.TeamID == teamID
}
