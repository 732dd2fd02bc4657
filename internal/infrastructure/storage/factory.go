package storage

import (
	"context"
	"fmt"

	"github.com/assetdesk/backend/internal/application/attachment"
	infraconfig "github.com/assetdesk/backend/internal/infrastructure/config"
)

// NewBlobStore creates the backend selected by cfg.Driver
func NewBlobStore(ctx context.Context, cfg *infraconfig.StorageConfig, opts ...Option) (attachment.BlobStore, error) {
	switch cfg.Driver {
	case "s3":
		store, err := NewS3Store(cfg, opts...)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case "gcs":
		return NewGCSStore(ctx, cfg, opts...)
	case "", "local":
		publicURL := cfg.PublicURL
		if publicURL == "" {
			publicURL = "/files"
		}
		return NewLocalStore(cfg.LocalRoot, publicURL, opts...)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
