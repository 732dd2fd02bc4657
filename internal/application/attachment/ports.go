package attachment

import (
	"context"
	"io"

	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/google/uuid"
)

// Repositories gives the manager the repositories it needs, bound to one
// database transaction.
type Repositories interface {
	// FileRepo returns the additional file repository scoped to the current transaction
	FileRepo() inventory.AdditionalFileRepository
	// AttachmentRepo returns the owner-file link repository scoped to the current transaction
	AttachmentRepo() inventory.AttachmentRepository
}

// TransactionScope runs fn inside a database transaction. If fn returns an
// error the transaction is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// BlobStore stores file contents by key. Each call is atomic on its own;
// there are no multi-key transactions.
type BlobStore interface {
	// Put writes the body under key, replacing any existing object
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns a URL the client can download the object from
	URL(ctx context.Context, key string) (string, error)
}

// MetricsRecorder receives counters for attachment side effects
type MetricsRecorder interface {
	FileStored(ctx context.Context, teamID uuid.UUID, bytes int64)
	FilesLinked(ctx context.Context, teamID uuid.UUID, n int)
	FilesDetached(ctx context.Context, teamID uuid.UUID, n int)
	FilesDeleted(ctx context.Context, teamID uuid.UUID, n int)
	BlobsCompensated(ctx context.Context, n int)
	BlobCleanupFailed(ctx context.Context, op string)
}

type nopRecorder struct{}

func (nopRecorder) FileStored(context.Context, uuid.UUID, int64)  {}
func (nopRecorder) FilesLinked(context.Context, uuid.UUID, int)   {}
func (nopRecorder) FilesDetached(context.Context, uuid.UUID, int) {}
func (nopRecorder) FilesDeleted(context.Context, uuid.UUID, int)  {}
func (nopRecorder) BlobsCompensated(context.Context, int)         {}
func (nopRecorder) BlobCleanupFailed(context.Context, string)     {}
