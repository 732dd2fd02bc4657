package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/assetdesk/backend/internal/application/attachment"
	infraconfig "github.com/assetdesk/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

var _ attachment.BlobStore = (*GCSStore)(nil)

// GCSStore stores blobs in a Google Cloud Storage bucket
type GCSStore struct {
	client            *gcs.Client
	bucket            string
	publicURL         string
	presignExpiration time.Duration
	logger            *zap.Logger
}

// gcsClientOptions builds client options from a credentials path or
// inline service account JSON. Empty means application default credentials.
func gcsClientOptions(credentials string) []option.ClientOption {
	credentials = strings.TrimSpace(credentials)
	opts := []option.ClientOption{option.WithScopes(gcs.ScopeReadWrite)}
	switch {
	case credentials == "":
	case strings.HasPrefix(credentials, "{"):
		opts = append(opts, option.WithCredentialsJSON([]byte(credentials)))
	default:
		opts = append(opts, option.WithCredentialsFile(credentials))
	}
	return opts
}

// NewGCSStore creates a GCSStore from configuration
func NewGCSStore(ctx context.Context, cfg *infraconfig.StorageConfig, opts ...Option) (*GCSStore, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	client, err := gcs.NewClient(ctx, gcsClientOptions(cfg.CredentialsFile)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	o := buildOptions(cfg, opts)
	return &GCSStore{
		client:            client,
		bucket:            cfg.Bucket,
		publicURL:         strings.TrimSuffix(cfg.PublicURL, "/"),
		presignExpiration: o.presignExpiration,
		logger:            o.logger.Named("gcs_store"),
	}, nil
}

// Put writes the body under key
func (s *GCSStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if size > 0 && size < int64(w.ChunkSize) {
		w.ChunkSize = 0
	}
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close object writer: %w", err)
	}
	return nil
}

// Delete removes the object. Missing objects are ignored.
func (s *GCSStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object %q: %w", key, err)
	}
	return nil
}

// URL returns the public URL when one is configured, otherwise a V4
// signed GET URL
func (s *GCSStore) URL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	if s.publicURL != "" {
		return s.publicURL + "/" + key, nil
	}
	signed, err := s.client.Bucket(s.bucket).SignedURL(key, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(s.presignExpiration),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign download URL: %w", err)
	}
	return signed, nil
}

// Close releases the client
func (s *GCSStore) Close() error {
	return s.client.Close()
}
