package taxonomy

import (
	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeCategory = "Category"
	AggregateTypeTag      = "Tag"
	AggregateTypeLocation = "Location"
)

// Event type constants
const (
	EventTypeCategoryCreated  = "CategoryCreated"
	EventTypeCategoryUpdated  = "CategoryUpdated"
	EventTypeCategoryDeleted  = "CategoryDeleted"
	EventTypeCategoryRestored = "CategoryRestored"
	EventTypeTagCreated       = "TagCreated"
	EventTypeTagUpdated       = "TagUpdated"
	EventTypeTagDeleted       = "TagDeleted"
	EventTypeLocationCreated  = "LocationCreated"
	EventTypeLocationUpdated  = "LocationUpdated"
	EventTypeLocationDeleted  = "LocationDeleted"
)

// CategoryEvent is published on every category lifecycle change
type CategoryEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
}

// NewCategoryEvent creates a category event of the given type
func NewCategoryEvent(eventType string, c *Category) *CategoryEvent {
	return &CategoryEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeCategory, c.ID, c.TeamID),
		CategoryID:      c.ID,
		Name:            c.Name,
		Color:           c.Color,
	}
}

// TagEvent is published on every tag lifecycle change
type TagEvent struct {
	shared.BaseDomainEvent
	TagID uuid.UUID `json:"tag_id"`
	Name  string    `json:"name"`
}

// NewTagEvent creates a tag event of the given type
func NewTagEvent(eventType string, t *Tag) *TagEvent {
	return &TagEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeTag, t.ID, t.TeamID),
		TagID:           t.ID,
		Name:            t.Name,
	}
}

// LocationEvent is published on every location lifecycle change
type LocationEvent struct {
	shared.BaseDomainEvent
	LocationID uuid.UUID `json:"location_id"`
	Name       string    `json:"name"`
}

// NewLocationEvent creates a location event of the given type
func NewLocationEvent(eventType string, l *Location) *LocationEvent {
	return &LocationEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeLocation, l.ID, l.TeamID),
		LocationID:      l.ID,
		Name:            l.Name,
	}
}
