// Package taxonomy serves the team's categories, tags and locations.
package taxonomy

import (
	"context"

	"github.com/assetdesk/backend/internal/domain/shared"
)

const maxPageSize = 100

type publisher struct {
	eventPublisher shared.EventPublisher
}

// SetEventPublisher sets the event publisher for publishing domain events
func (p *publisher) SetEventPublisher(eventPublisher shared.EventPublisher) {
	p.eventPublisher = eventPublisher
}

// publishDomainEvents publishes and clears the pending events of an aggregate
func (p *publisher) publishDomainEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	events := aggregate.GetDomainEvents()
	aggregate.ClearDomainEvents()
	if p.eventPublisher == nil || len(events) == 0 {
		return
	}
	// Publish errors are logged by the event bus
	_ = p.eventPublisher.Publish(ctx, events...)
}

func pageFilter(search string, page, perPage int, orderBy, orderDir string) shared.Filter {
	return shared.Filter{
		Page:     page,
		PageSize: perPage,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Search:   search,
	}.Normalize(maxPageSize)
}
