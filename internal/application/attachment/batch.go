package attachment

import (
	"github.com/assetdesk/backend/internal/domain/shared"
)

// Batch records the blob side effects and domain events of one
// transaction. Blobs cannot roll back with the database, so they are
// settled after the transaction ends.
type Batch struct {
	written  []string
	released []string
	events   []shared.DomainEvent
}

// NewBatch creates an empty batch
func NewBatch() *Batch {
	return &Batch{}
}

// Written records a blob stored during the transaction
func (b *Batch) Written(key string) {
	b.written = append(b.written, key)
}

// Release records a blob to delete once the transaction commits
func (b *Batch) Release(key string) {
	if key == "" {
		return
	}
	b.released = append(b.released, key)
}

// Record queues domain events to publish once the transaction commits
func (b *Batch) Record(events ...shared.DomainEvent) {
	b.events = append(b.events, events...)
}

// Collect moves the pending events of an aggregate into the batch
func (b *Batch) Collect(aggregate shared.AggregateRoot) {
	b.Record(aggregate.GetDomainEvents()...)
	aggregate.ClearDomainEvents()
}

// WrittenKeys returns the blobs stored so far
func (b *Batch) WrittenKeys() []string {
	return b.written
}

// ReleasedKeys returns the blobs pending deletion
func (b *Batch) ReleasedKeys() []string {
	return b.released
}

// Events returns the queued events
func (b *Batch) Events() []shared.DomainEvent {
	return b.events
}
