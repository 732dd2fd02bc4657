package attachment

import (
	"fmt"
	"io"
	"mime"
	"path"
	"slices"
	"strings"

	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Blob key namespaces
const (
	NamespaceAssets          = "assets"
	NamespaceKits            = "kits"
	NamespaceLocations       = "locations"
	NamespaceTeamLogos       = "team-logos"
	NamespaceAdditionalFiles = "additional-files"
)

// Upload is a file received from a client
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Description string
	Body        io.Reader
}

// UploadPolicy limits size and content type of an upload kind
type UploadPolicy struct {
	MaxBytes     int64
	AllowedTypes []string
}

// Policies holds the upload policy per upload kind
type Policies struct {
	Image UploadPolicy
	File  UploadPolicy
	Logo  UploadPolicy
}

// DefaultPolicies returns jpg/png images up to 4MB, jpg/png/pdf files up
// to 4MB and logos up to 1MB.
func DefaultPolicies() Policies {
	images := []string{"image/jpeg", "image/png"}
	return Policies{
		Image: UploadPolicy{MaxBytes: 4096 * 1024, AllowedTypes: images},
		File:  UploadPolicy{MaxBytes: 4096 * 1024, AllowedTypes: append(slices.Clone(images), "application/pdf")},
		Logo:  UploadPolicy{MaxBytes: 1024 * 1024, AllowedTypes: images},
	}
}

// Validate checks an upload against the policy and returns its normalized
// content type.
func (p UploadPolicy) Validate(up Upload) (string, error) {
	if up.Body == nil {
		return "", shared.NewValidationError("INVALID_FILE", "File content is missing")
	}
	if err := inventory.ValidateFileName(up.Name); err != nil {
		return "", err
	}
	if up.Size <= 0 {
		return "", shared.NewValidationError("INVALID_FILE_SIZE", "File size must be greater than 0")
	}
	if p.MaxBytes > 0 && up.Size > p.MaxBytes {
		return "", shared.NewValidationError("FILE_TOO_LARGE",
			fmt.Sprintf("File cannot exceed %d KB", p.MaxBytes/1024))
	}

	// the extension decides how the blob is served back, so it must agree
	// with the declared type
	ext := strings.ToLower(path.Ext(up.Name))
	extType := normalizeContentType(mime.TypeByExtension(ext))
	if !p.allows(extType) || (extType == "" && len(p.AllowedTypes) > 0) {
		return "", shared.NewValidationError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("File extension %q is not allowed", ext))
	}
	contentType := normalizeContentType(up.ContentType)
	if contentType == "" {
		contentType = extType
	}
	if !p.allows(contentType) {
		return "", shared.NewValidationError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type %q is not allowed", up.ContentType))
	}
	if extType != "" && contentType != extType {
		return "", shared.NewValidationError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type %q does not match extension %q", up.ContentType, ext))
	}
	return contentType, nil
}

func (p UploadPolicy) allows(contentType string) bool {
	return len(p.AllowedTypes) == 0 || slices.Contains(p.AllowedTypes, contentType)
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	if mediaType == "image/jpg" || mediaType == "image/pjpeg" {
		return "image/jpeg"
	}
	return mediaType
}

// ImageKey returns a fresh blob key for an image in a namespace
func ImageKey(namespace string, teamID uuid.UUID, name string) string {
	return namespace + "/" + teamID.String() + "/" + shared.NewID().String() + strings.ToLower(path.Ext(name))
}
