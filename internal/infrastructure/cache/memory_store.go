package cache

import (
	"context"
	"sync"
	"time"

	"github.com/assetdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

type memoryEntry struct {
	expiresAt time.Time
	// nil while the request holding the key runs
	response *shared.StoredResponse
}

func (e memoryEntry) live(now time.Time) bool {
	return now.Before(e.expiresAt)
}

// InMemoryIdempotencyStore keeps keys in a map local to the process.
// Expired keys are ignored on read and removed by Sweep.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewInMemoryIdempotencyStore creates an empty store
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Reserve claims key unless it holds a live reservation or response
func (s *InMemoryIdempotencyStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[key]; ok && e.live(now) {
		return false, nil
	}
	s.entries[key] = memoryEntry{expiresAt: now.Add(ttl)}
	return true, nil
}

// Complete records the response of key. The body is copied.
func (s *InMemoryIdempotencyStore) Complete(_ context.Context, key string, resp shared.StoredResponse, ttl time.Duration) error {
	resp.Body = append([]byte(nil), resp.Body...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{expiresAt: s.now().Add(ttl), response: &resp}
	return nil
}

// Release forgets key
func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Lookup returns a copy of the response recorded for a live key
func (s *InMemoryIdempotencyStore) Lookup(_ context.Context, key string) (*shared.StoredResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || !e.live(s.now()) || e.response == nil {
		return nil, nil
	}
	resp := *e.response
	return &resp, nil
}

// Sweep removes expired keys and reports how many were removed
func (s *InMemoryIdempotencyStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, e := range s.entries {
		if !e.live(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of keys held, expired ones included
func (s *InMemoryIdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close is a no-op
func (s *InMemoryIdempotencyStore) Close() error {
	return nil
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)

// ExpiryJob sweeps an in-memory store on the maintenance scheduler
type ExpiryJob struct {
	store  *InMemoryIdempotencyStore
	logger *zap.Logger
}

// NewExpiryJob creates the sweep job for store
func NewExpiryJob(store *InMemoryIdempotencyStore, logger *zap.Logger) *ExpiryJob {
	return &ExpiryJob{store: store, logger: logger}
}

// Name identifies the job in scheduler logs
func (j *ExpiryJob) Name() string {
	return "idempotency_expiry"
}

// Run removes expired keys
func (j *ExpiryJob) Run(context.Context) error {
	if removed := j.store.Sweep(); removed > 0 {
		j.logger.Debug("expired idempotency keys removed",
			zap.Int("removed", removed),
			zap.Int("remaining", j.store.Len()),
		)
	}
	return nil
}
