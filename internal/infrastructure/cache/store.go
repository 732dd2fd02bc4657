// Package cache provides the idempotency key stores behind the
// Idempotency-Key header on upload and create routes.
package cache

import (
	"context"
	"fmt"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/assetdesk/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

type storeOptions struct {
	logger   *zap.Logger
	fallback bool
}

// StoreOption configures NewIdempotencyStore
type StoreOption func(*storeOptions)

// WithLogger sets the logger that reports which store was chosen
func WithLogger(logger *zap.Logger) StoreOption {
	return func(o *storeOptions) {
		o.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory store. It is allowed by default.
func WithInMemoryFallback(allow bool) StoreOption {
	return func(o *storeOptions) {
		o.fallback = allow
	}
}

// NewIdempotencyStore returns the Redis store when Redis is enabled and
// answers, otherwise the in-memory store
func NewIdempotencyStore(ctx context.Context, cfg config.RedisConfig, opts ...StoreOption) (shared.IdempotencyStore, error) {
	o := storeOptions{logger: zap.NewNop(), fallback: true}
	for _, opt := range opts {
		opt(&o)
	}

	if !cfg.Enabled {
		o.logger.Info("redis disabled, using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	}

	store, err := NewRedisIdempotencyStore(ctx, cfg)
	if err == nil {
		o.logger.Info("using redis idempotency store", zap.String("addr", cfg.Addr()))
		return store, nil
	}
	if !o.fallback {
		return nil, fmt.Errorf("idempotency store: %w", err)
	}
	o.logger.Warn("redis unavailable, idempotency keys are local to this instance", zap.Error(err))
	return NewInMemoryIdempotencyStore(), nil
}
