package inventory

import (
	"path"
	"strings"
	"time"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxAdditionalFileSize is the hard upper bound accepted by the domain (100MB).
// Upload policy limits are tighter and configured at the application layer.
const MaxAdditionalFileSize = 100 * 1024 * 1024

// AdditionalFile is a team-owned file in the shared pool. One file can be
// attached to many assets and kits; LinkedCount tracks how many owners
// reference it.
type AdditionalFile struct {
	shared.TeamAggregateRoot
	FilePath    string
	Name        string
	MimeType    string
	Size        int64
	Description string
	LinkedCount int
}

// FileKey returns the blob key of a pool file: additional-files/<team>/<id><ext>
func FileKey(teamID, fileID uuid.UUID, name string) string {
	return "additional-files/" + teamID.String() + "/" + fileID.String() + strings.ToLower(path.Ext(name))
}

// NewAdditionalFile creates a file record for a blob already written to the store
func NewAdditionalFile(
	teamID uuid.UUID,
	filePath string,
	name string,
	mimeType string,
	size int64,
	description string,
	linkedCount int,
) (*AdditionalFile, error) {
	return NewAdditionalFileWithID(shared.NewID(), teamID, filePath, name, mimeType, size, description, linkedCount)
}

// NewAdditionalFileWithID is NewAdditionalFile with a caller chosen id, used
// when the blob key embeds the id.
func NewAdditionalFileWithID(
	id uuid.UUID,
	teamID uuid.UUID,
	filePath string,
	name string,
	mimeType string,
	size int64,
	description string,
	linkedCount int,
) (*AdditionalFile, error) {
	if teamID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_TEAM_ID", "Team ID cannot be empty")
	}
	if err := ValidateFileName(name); err != nil {
		return nil, err
	}
	if err := validateFileSize(size); err != nil {
		return nil, err
	}
	if err := ValidateMimeType(mimeType); err != nil {
		return nil, err
	}
	if err := ValidateBlobPath(filePath); err != nil {
		return nil, err
	}
	if linkedCount < 0 {
		linkedCount = 0
	}

	if id == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_FILE_ID", "File ID cannot be empty")
	}

	file := &AdditionalFile{
		TeamAggregateRoot: shared.NewTeamAggregateRoot(teamID),
		FilePath:          filePath,
		Name:              name,
		MimeType:          mimeType,
		Size:              size,
		Description:       strings.TrimSpace(description),
		LinkedCount:       linkedCount,
	}
	file.ID = id

	file.AddDomainEvent(NewAdditionalFileCreatedEvent(file))

	return file, nil
}

// Link records one more owner referencing this file
func (f *AdditionalFile) Link() {
	f.LinkedCount++
	f.UpdatedAt = time.Now()
}

// Unlink records one owner fewer, never going below zero.
// It returns true when the file is no longer referenced.
func (f *AdditionalFile) Unlink() bool {
	if f.LinkedCount > 0 {
		f.LinkedCount--
	}
	f.UpdatedAt = time.Now()
	return f.IsOrphaned()
}

// IsOrphaned reports whether no owner references the file
func (f *AdditionalFile) IsOrphaned() bool {
	return f.LinkedCount <= 0
}

// MarkDeleted records the deletion event
func (f *AdditionalFile) MarkDeleted(reason string) {
	f.AddDomainEvent(NewAdditionalFileDeletedEvent(f, reason))
}

// validation functions

// ValidateFileName checks a client supplied file name
func ValidateFileName(name string) error {
	if name == "" {
		return shared.NewValidationError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewValidationError("INVALID_FILE_NAME", "File name cannot exceed 255 characters")
	}
	for _, r := range name {
		if r < 32 || r == 127 {
			return shared.NewValidationError("INVALID_FILE_NAME", "File name contains invalid characters")
		}
	}
	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return shared.NewValidationError("INVALID_FILE_NAME", "File name cannot contain path separators")
	}
	return nil
}

func validateFileSize(size int64) error {
	if size <= 0 {
		return shared.NewValidationError("INVALID_FILE_SIZE", "File size must be greater than 0")
	}
	if size > MaxAdditionalFileSize {
		return shared.NewValidationError("FILE_TOO_LARGE", "File size cannot exceed 100MB")
	}
	return nil
}

// ValidateMimeType checks the type/subtype shape of a MIME type
func ValidateMimeType(mimeType string) error {
	if mimeType == "" {
		return shared.NewValidationError("INVALID_MIME_TYPE", "MIME type cannot be empty")
	}
	if len(mimeType) > 100 {
		return shared.NewValidationError("INVALID_MIME_TYPE", "MIME type cannot exceed 100 characters")
	}
	if !strings.Contains(mimeType, "/") ||
		strings.HasPrefix(mimeType, "/") || strings.HasSuffix(mimeType, "/") {
		return shared.NewValidationError("INVALID_MIME_TYPE", "MIME type must be in type/subtype format")
	}
	return nil
}

// ValidateBlobPath rejects traversal and absolute blob keys
func ValidateBlobPath(path string) error {
	if path == "" {
		return shared.NewValidationError("INVALID_FILE_PATH", "File path cannot be empty")
	}
	if len(path) > 500 {
		return shared.NewValidationError("INVALID_FILE_PATH", "File path cannot exceed 500 characters")
	}
	if strings.Contains(path, "..") {
		return shared.NewValidationError("INVALID_FILE_PATH", "File path cannot contain path traversal sequences")
	}
	if strings.HasPrefix(path, "/") {
		return shared.NewValidationError("INVALID_FILE_PATH", "File path must be relative")
	}
	return nil
}
