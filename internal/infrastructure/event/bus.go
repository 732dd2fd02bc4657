// Package event provides the in-process event bus. Services publish the
// events of a committed write; handlers such as the audit recorder run
// synchronously in the publishing goroutine.
package event

import (
	"context"
	"fmt"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/assetdesk/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// DeliveryObserver is told the outcome of every handler call
type DeliveryObserver interface {
	EventDelivered(ctx context.Context, eventType string, err error)
}

// Option configures an InMemoryEventBus
type Option func(*InMemoryEventBus)

// WithObserver reports deliveries to o
func WithObserver(o DeliveryObserver) Option {
	return func(b *InMemoryEventBus) {
		b.observer = o
	}
}

// InMemoryEventBus delivers events to handlers in subscription order.
// Subscribe before the first Publish; the handler set is not guarded
// against concurrent changes.
type InMemoryEventBus struct {
	registry registry
	logger   *zap.Logger
	observer DeliveryObserver
}

// NewInMemoryEventBus creates a bus with no handlers
func NewInMemoryEventBus(log *zap.Logger, opts ...Option) *InMemoryEventBus {
	if log == nil {
		log = zap.NewNop()
	}
	b := &InMemoryEventBus{logger: log.Named("event_bus")}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish hands each event to every matching handler. A failing or
// panicking handler is logged and skipped: the write that raised the
// event has committed, so Publish itself never fails.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		for _, handler := range b.registry.match(event.EventType()) {
			err := deliver(ctx, handler, event)
			if b.observer != nil {
				b.observer.EventDelivered(ctx, event.EventType(), err)
			}
			if err != nil {
				logger.Enrich(ctx, b.logger).Error("event handler failed",
					zap.String("event_type", event.EventType()),
					zap.Stringer("event_id", event.EventID()),
					zap.Stringer("aggregate_id", event.AggregateID()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers handler for eventTypes, or for the handler's own
// EventTypes when none are given. An empty set means every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.add(handler, eventTypes)
	b.logger.Debug("handler subscribed",
		zap.Strings("event_types", eventTypes),
		zap.Int("handlers", b.registry.len()),
	)
}

// Unsubscribe removes handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.remove(handler)
}

func deliver(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

var (
	_ shared.EventPublisher  = (*InMemoryEventBus)(nil)
	_ shared.EventSubscriber = (*InMemoryEventBus)(nil)
)
