package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/assetdesk/backend/internal/application/attachment"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var _ attachment.BlobStore = (*LocalStore)(nil)

// LocalStore keeps blobs on a filesystem. Keys map to paths below the root.
type LocalStore struct {
	fs        afero.Fs
	publicURL string
	logger    *zap.Logger
}

// NewLocalStore stores blobs under root on the OS filesystem. URLs are
// publicURL joined with the key; the HTTP layer serves them.
func NewLocalStore(root, publicURL string, opts ...Option) (*LocalStore, error) {
	if root == "" {
		return nil, errors.New("storage root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return newLocalStore(afero.NewBasePathFs(afero.NewOsFs(), root), publicURL, opts), nil
}

// NewMemoryStore keeps blobs in memory
func NewMemoryStore(opts ...Option) *LocalStore {
	return newLocalStore(afero.NewMemMapFs(), "/files", opts)
}

func newLocalStore(fs afero.Fs, publicURL string, opts []Option) *LocalStore {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &LocalStore{
		fs:        fs,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		logger:    o.logger.Named("local_store"),
	}
}

// PublicURL returns the URL prefix blob URLs are built from
func (s *LocalStore) PublicURL() string {
	return s.publicURL
}

// FileSystem exposes the blobs for serving under PublicURL
func (s *LocalStore) FileSystem() http.FileSystem {
	return afero.NewHttpFs(s.fs)
}

func cleanKey(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	cleaned := path.Clean("/" + key)
	if cleaned == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.FromSlash(cleaned), nil
}

// Put writes the body under key
func (s *LocalStore) Put(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	p, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := s.fs.Create(p)
	if err != nil {
		return fmt.Errorf("failed to create object: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(p)
		return fmt.Errorf("failed to write object: %w", err)
	}
	return f.Close()
}

// Delete removes the object. Missing objects are ignored.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	p, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// URL joins the public URL and the escaped key
func (s *LocalStore) URL(_ context.Context, key string) (string, error) {
	if _, err := cleanKey(key); err != nil {
		return "", err
	}
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.publicURL + "/" + strings.Join(segments, "/"), nil
}

// Exists reports whether an object is stored under key
func (s *LocalStore) Exists(key string) (bool, error) {
	p, err := cleanKey(key)
	if err != nil {
		return false, err
	}
	return afero.Exists(s.fs, p)
}

// Open opens a stored object for reading
func (s *LocalStore) Open(key string) (afero.File, error) {
	p, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	return s.fs.Open(p)
}
