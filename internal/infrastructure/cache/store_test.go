package cache

import (
	"context"
	"testing"

	"github.com/assetdesk/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	unreachable := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	t.Run("redis disabled", func(t *testing.T) {
		store, err := NewIdempotencyStore(ctx, config.RedisConfig{})
		require.NoError(t, err)
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("falls back when redis is unreachable", func(t *testing.T) {
		core, recorded := observer.New(zap.WarnLevel)
		store, err := NewIdempotencyStore(ctx, unreachable, WithLogger(zap.New(core)))
		require.NoError(t, err)
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
		assert.Equal(t, 1, recorded.FilterMessageSnippet("redis unavailable").Len())
	})

	t.Run("fails without fallback", func(t *testing.T) {
		_, err := NewIdempotencyStore(ctx, unreachable, WithInMemoryFallback(false))
		assert.ErrorContains(t, err, "127.0.0.1:1")
	})
}
