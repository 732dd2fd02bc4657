package taxonomy

import (
	"strings"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Tag is a team-scoped label. Tags are hard deleted.
type Tag struct {
	shared.TeamAggregateRoot
	Name        string
	Description string
}

// NewTag creates a new tag
func NewTag(teamID uuid.UUID, name, description string) (*Tag, error) {
	if teamID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_TEAM_ID", "Team ID cannot be empty")
	}
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	t := &Tag{
		TeamAggregateRoot: shared.NewTeamAggregateRoot(teamID),
		Name:              name,
		Description:       strings.TrimSpace(description),
	}
	t.AddDomainEvent(NewTagEvent(EventTypeTagCreated, t))
	return t, nil
}

// Update updates the tag's attributes
func (t *Tag) Update(name, description string) error {
	name, err := validateName(name)
	if err != nil {
		return err
	}
	t.Name = name
	t.Description = strings.TrimSpace(description)
	t.MarkChanged(NewTagEvent(EventTypeTagUpdated, t))
	return nil
}

// MarkDeleted records the deletion event
func (t *Tag) MarkDeleted() {
	t.AddDomainEvent(NewTagEvent(EventTypeTagDeleted, t))
}
