package attachment_test

import (
	"context"
	"testing"

	"github.com/assetdesk/backend/internal/application/attachment"
	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/assetdesk/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(h *harness) *attachment.Service {
	return attachment.NewService(h.manager, h.scope, h.files, nil)
}

func TestService_UploadAndList(t *testing.T) {
	h := newHarness(t)
	svc := newService(h)
	ctx := context.Background()

	uploaded, err := svc.Upload(ctx, h.teamID, pdf("warranty.pdf"))
	require.NoError(t, err)
	assert.Equal(t, 0, uploaded.LinkedCount)
	assert.Equal(t, "application/pdf", uploaded.MimeType)
	assert.NotEmpty(t, uploaded.URL)

	_, err = svc.Upload(ctx, testutil.OtherTeamID(), pdf("other.pdf"))
	require.NoError(t, err)

	files, total, err := svc.List(ctx, h.teamID, attachment.FileListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, files, 1)
	assert.Equal(t, uploaded.ID, files[0].ID)

	files, _, err = svc.List(ctx, h.teamID, attachment.FileListFilter{Orphaned: true, MimePrefix: "image/"})
	require.NoError(t, err)
	assert.Empty(t, files)

	got, err := svc.Get(ctx, h.teamID, uploaded.ID)
	require.NoError(t, err)
	assert.Equal(t, "warranty.pdf", got.Name)

	_, err = svc.Get(ctx, testutil.OtherTeamID(), uploaded.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestService_UploadRejectsDisallowedType(t *testing.T) {
	h := newHarness(t)
	svc := newService(h)

	up := pdf("script.sh")
	up.ContentType = "text/x-shellscript"
	_, err := svc.Upload(context.Background(), h.teamID, up)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestService_DeleteDetachesOwners(t *testing.T) {
	h := newHarness(t)
	svc := newService(h)
	ctx := context.Background()
	kit := h.kit(t, h.teamID, "Kit")

	uploaded, err := svc.Upload(ctx, h.teamID, pdf("warranty.pdf"))
	require.NoError(t, err)
	require.NoError(t, h.run(t, func(repos attachment.Repositories, batch *attachment.Batch) error {
		_, err := h.manager.LinkExisting(ctx, repos, batch, kit, uploaded.ID)
		return err
	}))

	resp, err := svc.Delete(ctx, h.teamID, uploaded.ID)
	require.NoError(t, err)
	require.Len(t, resp.Detached, 1)
	assert.Equal(t, attachment.OwnerResponse{Type: inventory.OwnerTypeKit, ID: kit.ID}, resp.Detached[0])
	assert.False(t, h.blobs.has(t, uploaded.FilePath))

	_, err = svc.Delete(ctx, h.teamID, uploaded.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
