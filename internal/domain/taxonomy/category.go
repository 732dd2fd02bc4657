package taxonomy

import (
	"regexp"
	"strings"
	"time"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DefaultCategoryColor is used when no color is given
const DefaultCategoryColor = "#6B7280"

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Category groups assets within a team. Deleting a category is soft:
// DeletedAt is set and the category can be restored.
type Category struct {
	shared.TeamAggregateRoot
	Name        string
	Color       string
	Description string
	DeletedAt   *time.Time
}

// NewCategory creates a new category
func NewCategory(teamID uuid.UUID, name, color, description string) (*Category, error) {
	if teamID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_TEAM_ID", "Team ID cannot be empty")
	}
	c := &Category{TeamAggregateRoot: shared.NewTeamAggregateRoot(teamID)}
	if err := c.apply(name, color, description); err != nil {
		return nil, err
	}

	c.AddDomainEvent(NewCategoryEvent(EventTypeCategoryCreated, c))

	return c, nil
}

// Update updates the category's attributes
func (c *Category) Update(name, color, description string) error {
	if err := c.apply(name, color, description); err != nil {
		return err
	}
	c.MarkChanged(NewCategoryEvent(EventTypeCategoryUpdated, c))

	return nil
}

// IsTrashed reports whether the category is soft deleted
func (c *Category) IsTrashed() bool {
	return c.DeletedAt != nil
}

// Trash soft deletes the category
func (c *Category) Trash() error {
	if c.IsTrashed() {
		return shared.NewValidationError("ALREADY_TRASHED", "Category is already deleted")
	}
	now := time.Now()
	c.DeletedAt = &now
	c.AddDomainEvent(NewCategoryEvent(EventTypeCategoryDeleted, c))
	return nil
}

// Restore undoes a soft delete
func (c *Category) Restore() error {
	if !c.IsTrashed() {
		return shared.NewValidationError("NOT_TRASHED", "Category is not deleted")
	}
	c.DeletedAt = nil
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewCategoryEvent(EventTypeCategoryRestored, c))
	return nil
}

func (c *Category) apply(name, color, description string) error {
	name, err := validateName(name)
	if err != nil {
		return err
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = DefaultCategoryColor
	}
	if !hexColorPattern.MatchString(color) {
		return shared.NewValidationError("INVALID_COLOR", "Color must be a hex color such as #1F2937")
	}
	c.Name = name
	c.Color = color
	c.Description = strings.TrimSpace(description)
	return nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewValidationError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 255 {
		return "", shared.NewValidationError("INVALID_NAME", "Name cannot exceed 255 characters")
	}
	return name, nil
}
