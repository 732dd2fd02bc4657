package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/assetdesk/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewS3Store_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3Store(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3Store(&config.StorageConfig{AccessKey: "k", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		_, err := NewS3Store(&config.StorageConfig{Bucket: "b", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		_, err := NewS3Store(&config.StorageConfig{Bucket: "b", AccessKey: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("endpoint without scheme is accepted", func(t *testing.T) {
		for _, ssl := range []bool{false, true} {
			store, err := NewS3Store(&config.StorageConfig{
				Bucket: "b", AccessKey: "k", SecretKey: "s", Endpoint: "localhost:9000", UseSSL: ssl,
			})
			require.NoError(t, err)
			assert.Equal(t, "b", store.Bucket())
		}
	})

	t.Run("default presign expiration is 15 minutes", func(t *testing.T) {
		store, err := NewS3Store(&config.StorageConfig{Bucket: "b", AccessKey: "k", SecretKey: "s"})
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, store.presignExpiration)
	})

	t.Run("options override config", func(t *testing.T) {
		store, err := NewS3Store(&config.StorageConfig{
			Bucket: "b", AccessKey: "k", SecretKey: "s", PresignExpiration: time.Minute,
		}, WithLogger(zaptest.NewLogger(t)), WithPresignExpiration(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, time.Hour, store.presignExpiration)
		assert.NotNil(t, store.logger)
	})
}

func TestS3Store_URL(t *testing.T) {
	cfg := &config.StorageConfig{
		Bucket:       "assetdesk",
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
	}

	t.Run("presigned when no public URL", func(t *testing.T) {
		store, err := NewS3Store(cfg)
		require.NoError(t, err)

		u, err := store.URL(context.Background(), "assets/team/photo.png")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(u, "http://localhost:9000/assetdesk/assets/team/photo.png"))
		assert.Contains(t, u, "X-Amz-Signature")
	})

	t.Run("public URL prefix", func(t *testing.T) {
		withPublic := *cfg
		withPublic.PublicURL = "https://cdn.example.com/"
		store, err := NewS3Store(&withPublic)
		require.NoError(t, err)

		u, err := store.URL(context.Background(), "kits/team/kit.jpg")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/kits/team/kit.jpg", u)
	})

	t.Run("empty key", func(t *testing.T) {
		store, err := NewS3Store(cfg)
		require.NoError(t, err)
		_, err = store.URL(context.Background(), "")
		assert.Error(t, err)
	})
}

func TestS3Store_EmptyKey(t *testing.T) {
	store, err := NewS3Store(&config.StorageConfig{Bucket: "b", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorContains(t, store.Put(ctx, "", "text/plain", strings.NewReader("x"), 1), "storage key is required")
	assert.ErrorContains(t, store.Delete(ctx, ""), "storage key is required")
}
