package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/assetdesk/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	key := "additional-files/team-1/file-1.pdf"

	require.NoError(t, store.Put(ctx, key, "application/pdf", strings.NewReader("%PDF"), 4))

	exists, err := store.Exists(key)
	require.NoError(t, err)
	assert.True(t, exists)

	f, err := store.Open(key)
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "%PDF", string(data))

	require.NoError(t, store.Delete(ctx, key))
	exists, err = store.Exists(key)
	require.NoError(t, err)
	assert.False(t, exists)

	// deleting again is not an error
	assert.NoError(t, store.Delete(ctx, key))
}

func TestMemoryStore_PutReplaces(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "assets/a.png", "image/png", strings.NewReader("first"), 5))
	require.NoError(t, store.Put(ctx, "assets/a.png", "image/png", strings.NewReader("2nd"), 3))

	f, err := store.Open("assets/a.png")
	require.NoError(t, err)
	defer f.Close()
	data, _ := io.ReadAll(f)
	assert.Equal(t, "2nd", string(data))
}

func TestLocalStore_RejectsBadKeys(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, key := range []string{"", "/", "../etc/passwd", "assets/../../x"} {
		assert.Error(t, store.Put(ctx, key, "text/plain", strings.NewReader("x"), 1), key)
	}
}

func TestLocalStore_URL(t *testing.T) {
	store := NewMemoryStore()

	u, err := store.URL(context.Background(), "team-logos/t1/colored logo.png")
	require.NoError(t, err)
	assert.Equal(t, "/files/team-logos/t1/colored%20logo.png", u)
}

func TestNewLocalStore_WritesUnderRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "blobs")
	store, err := NewLocalStore(root, "http://localhost:8080/files/")
	require.NoError(t, err)

	require.NoError(t, store.Put(context.Background(), "locations/t/l.jpg", "image/jpeg", strings.NewReader("jpg"), 3))

	data, err := os.ReadFile(filepath.Join(root, "locations", "t", "l.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpg", string(data))

	u, err := store.URL(context.Background(), "locations/t/l.jpg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/locations/t/l.jpg", u)
}

func TestNewBlobStore(t *testing.T) {
	ctx := context.Background()

	t.Run("local", func(t *testing.T) {
		store, err := NewBlobStore(ctx, &config.StorageConfig{Driver: "local", LocalRoot: t.TempDir()})
		require.NoError(t, err)
		assert.IsType(t, &LocalStore{}, store)
	})

	t.Run("gcs requires bucket", func(t *testing.T) {
		_, err := NewBlobStore(ctx, &config.StorageConfig{Driver: "gcs"})
		assert.ErrorContains(t, err, "bucket is required")
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := NewBlobStore(ctx, &config.StorageConfig{Driver: "ftp"})
		assert.Error(t, err)
	})
}

func TestGCSClientOptions(t *testing.T) {
	assert.Len(t, gcsClientOptions(""), 1)
	assert.Len(t, gcsClientOptions(`{"type":"service_account"}`), 2)
	assert.Len(t, gcsClientOptions("/etc/gcs.json"), 2)
}
