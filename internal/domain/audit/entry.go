package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Entry is one recorded domain event. Entries are append only; the
// event id is used as the entry id so a redelivered event is stored once.
type Entry struct {
	ID            uuid.UUID
	TeamID        uuid.UUID
	EventType     string
	AggregateType string
	AggregateID   uuid.UUID
	Payload       json.RawMessage
	OccurredAt    time.Time
}

// NewEntryFromEvent builds an entry from a domain event
func NewEntryFromEvent(event shared.DomainEvent) (*Entry, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return &Entry{
		ID:            event.EventID(),
		TeamID:        event.TeamID(),
		EventType:     event.EventType(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		Payload:       payload,
		OccurredAt:    event.OccurredAt(),
	}, nil
}

// Repository defines audit log persistence
type Repository interface {
	// Append stores an entry; an entry with an existing id is ignored
	Append(ctx context.Context, entry *Entry) error

	// FindByAggregate lists the entries of one aggregate, oldest first
	FindByAggregate(ctx context.Context, teamID uuid.UUID, aggregateType string, aggregateID uuid.UUID) ([]Entry, error)

	// FindForTeam lists a team's entries, newest first
	FindForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) ([]Entry, error)

	// PurgeBefore deletes entries that occurred before cutoff, across all
	// teams, and returns how many were removed
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
