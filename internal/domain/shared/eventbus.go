package shared

import "context"

// EventHandler reacts to domain events after the emitting transaction commits
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the events the handler wants; nil means all of them
	EventTypes() []string
}

// EventPublisher is what application services use to emit events
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber manages handler registration. Explicit eventTypes take
// precedence over the handler's own EventTypes.
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// funcHandler is a pointer so registries can compare and remove it
type funcHandler struct {
	fn    func(ctx context.Context, event DomainEvent) error
	types []string
}

// HandleFunc wraps fn as an EventHandler subscribed to eventTypes
func HandleFunc(fn func(ctx context.Context, event DomainEvent) error, eventTypes ...string) EventHandler {
	return &funcHandler{fn: fn, types: eventTypes}
}

func (h *funcHandler) Handle(ctx context.Context, event DomainEvent) error {
	return h.fn(ctx, event)
}

func (h *funcHandler) EventTypes() []string {
	return h.types
}
