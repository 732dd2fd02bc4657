package taxonomy

import (
	"strings"
	"time"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Location is a place where assets are kept
type Location struct {
	shared.TeamAggregateRoot
	Name        string
	Description string
	Address     string
	Image       string
}

// NewLocation creates a new location
func NewLocation(teamID uuid.UUID, name, description, address string) (*Location, error) {
	if teamID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_TEAM_ID", "Team ID cannot be empty")
	}
	l := &Location{TeamAggregateRoot: shared.NewTeamAggregateRoot(teamID)}
	if err := l.apply(name, description, address); err != nil {
		return nil, err
	}
	l.AddDomainEvent(NewLocationEvent(EventTypeLocationCreated, l))
	return l, nil
}

// Update updates the location's attributes
func (l *Location) Update(name, description, address string) error {
	if err := l.apply(name, description, address); err != nil {
		return err
	}
	l.MarkChanged(NewLocationEvent(EventTypeLocationUpdated, l))
	return nil
}

// SetImage sets the image path and returns the previous one
func (l *Location) SetImage(path string) string {
	old := l.Image
	l.Image = path
	l.UpdatedAt = time.Now()
	return old
}

// MarkDeleted records the deletion event
func (l *Location) MarkDeleted() {
	l.AddDomainEvent(NewLocationEvent(EventTypeLocationDeleted, l))
}

func (l *Location) apply(name, description, address string) error {
	name, err := validateName(name)
	if err != nil {
		return err
	}
	address = strings.TrimSpace(address)
	if len(address) > 500 {
		return shared.NewValidationError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	l.Name = name
	l.Description = strings.TrimSpace(description)
	l.Address = address
	return nil
}
