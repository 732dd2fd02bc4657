package shared

import (
	"context"
	"time"
)

// DefaultIdempotencyTTL is how long a completed key replays its response
const DefaultIdempotencyTTL = 24 * time.Hour

// StoredResponse is the response recorded for an idempotency key
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore backs the Idempotency-Key request header. A key moves
// from reserved (its request is running) to completed (holding the
// response) or back to free when released.
type IdempotencyStore interface {
	// Reserve claims a free key for ttl and reports whether it did
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Complete records the response of a reserved key for ttl
	Complete(ctx context.Context, key string, resp StoredResponse, ttl time.Duration) error
	// Release frees a key so its request can be retried
	Release(ctx context.Context, key string) error
	// Lookup returns the recorded response, or nil while the key is free
	// or reserved
	Lookup(ctx context.Context, key string) (*StoredResponse, error)
	Close() error
}
