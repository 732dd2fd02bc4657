// Package testutil holds shared test helpers: sqlmock and in-memory SQLite
// databases, gin test contexts, fixed team ids, uploads and API envelope
// decoding.
package testutil

import (
	"strings"

	"github.com/assetdesk/backend/internal/application/attachment"
	"github.com/google/uuid"
)

var testNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// NewTestUUID derives a stable UUID from seed
func NewTestUUID(seed string) uuid.UUID {
	return uuid.NewSHA1(testNamespace, []byte(seed))
}

// TestTeamID is the team most tests act as
func TestTeamID() uuid.UUID {
	return NewTestUUID("test-team")
}

// OtherTeamID is a second team for cross-team checks
func OtherTeamID() uuid.UUID {
	return NewTestUUID("other-team")
}

// NewUpload builds an upload with the given body
func NewUpload(name, contentType, body string) attachment.Upload {
	return attachment.Upload{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
}

// PDF builds a small PDF upload
func PDF(name string) attachment.Upload {
	return NewUpload(name, "application/pdf", "%PDF-1.4 "+name)
}
