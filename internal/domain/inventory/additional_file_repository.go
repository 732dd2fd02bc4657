package inventory

import (
	"context"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AdditionalFileReader defines the interface for reading files
type AdditionalFileReader interface {
	// FindByID finds a file regardless of team. Used for cross-team checks.
	FindByID(ctx context.Context, id uuid.UUID) (*AdditionalFile, error)

	// FindByIDForTeam finds a file within a team
	FindByIDForTeam(ctx context.Context, teamID, id uuid.UUID) (*AdditionalFile, error)

	// FindByOwner lists the files attached to an owner
	FindByOwner(ctx context.Context, ownerType OwnerType, ownerID uuid.UUID) ([]AdditionalFile, error)
}

// AdditionalFileFinder defines the interface for searching the team's file pool
type AdditionalFileFinder interface {
	FindAllForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) ([]AdditionalFile, error)
	CountForTeam(ctx context.Context, teamID uuid.UUID, filter shared.Filter) (int64, error)
}

// AdditionalFileWriter defines the interface for file persistence
type AdditionalFileWriter interface {
	// LockByIDs loads the files with the given ids and takes row locks on
	// them, in id order, until the surrounding transaction ends. Missing
	// ids are simply absent from the result.
	LockByIDs(ctx context.Context, ids []uuid.UUID) ([]AdditionalFile, error)

	// AdjustLinkedCount atomically adds delta to linked_count of the given
	// files, flooring the result at zero
	AdjustLinkedCount(ctx context.Context, ids []uuid.UUID, delta int) error

	// Save creates or updates a file record
	Save(ctx context.Context, file *AdditionalFile) error

	// Delete permanently deletes a file record
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdditionalFileRepository defines the full interface for file persistence
type AdditionalFileRepository interface {
	AdditionalFileReader
	AdditionalFileFinder
	AdditionalFileWriter
}

// AttachmentRepository manages owner-to-file link rows
type AttachmentRepository interface {
	// ListFileIDs returns the ids of files attached to the owner
	ListFileIDs(ctx context.Context, owner AttachmentOwner) ([]uuid.UUID, error)

	// Exists reports whether the owner has the file attached
	Exists(ctx context.Context, owner AttachmentOwner, fileID uuid.UUID) (bool, error)

	// Attach creates the link row. An existing row is left untouched.
	Attach(ctx context.Context, owner AttachmentOwner, fileID uuid.UUID) error

	// Detach removes the link row and reports whether one existed
	Detach(ctx context.Context, owner AttachmentOwner, fileID uuid.UUID) (bool, error)

	// Replace makes the owner's link rows exactly fileIDs
	Replace(ctx context.Context, owner AttachmentOwner, fileIDs []uuid.UUID) error

	// DetachAllForFile removes every link row of the file, for both owner
	// types, and returns the removed rows
	DetachAllForFile(ctx context.Context, fileID uuid.UUID) ([]Attachment, error)

	// CountForFile counts link rows across both owner types
	CountForFile(ctx context.Context, fileID uuid.UUID) (int64, error)
}
