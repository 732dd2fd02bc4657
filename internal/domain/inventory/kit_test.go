package inventory

import (
	"testing"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKit_CanContain(t *testing.T) {
	teamID := uuid.New()
	kit, err := NewKit(teamID, KitFields{Name: "Field kit"})
	require.NoError(t, err)

	own, err := NewAsset(teamID, AssetFields{Name: "Radio"})
	require.NoError(t, err)
	foreign, err := NewAsset(uuid.New(), AssetFields{Name: "Radio"})
	require.NoError(t, err)

	assert.NoError(t, kit.CanContain(own))
	assert.ErrorIs(t, kit.CanContain(foreign), shared.ErrCrossTeam)
	assert.ErrorIs(t, kit.CanContain(nil), shared.ErrNotFound)
}

func TestKit_AssetCount(t *testing.T) {
	kit, err := NewKit(uuid.New(), KitFields{Name: "Field kit"})
	require.NoError(t, err)
	assert.Equal(t, 0, kit.AssetCount)
	assert.Equal(t, StatusAvailable, kit.Status)

	a, b := uuid.New(), uuid.New()
	kit.AssetAdded(a)
	kit.AssetAdded(b)
	assert.Equal(t, 2, kit.AssetCount)

	kit.AssetRemoved(a)
	kit.AssetRemoved(b)
	kit.AssetRemoved(b)
	assert.Equal(t, 0, kit.AssetCount)

	events := kit.GetDomainEvents()
	require.Len(t, events, 6)
	membership, ok := events[1].(*KitMembershipEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeKitAssetAdded, membership.EventType())
	assert.Equal(t, a, membership.AssetID)
	assert.Equal(t, 1, membership.AssetCount)
}

func TestKit_Update(t *testing.T) {
	kit, err := NewKit(uuid.New(), KitFields{Name: "Field kit"})
	require.NoError(t, err)

	require.NoError(t, kit.Update(KitFields{Name: "Survey kit", Status: "Maintenance"}))
	assert.Equal(t, "Survey kit", kit.Name)
	assert.Equal(t, StatusMaintenance, kit.Status)

	assert.ErrorIs(t, kit.Update(KitFields{Name: ""}), shared.ErrValidation)
	assert.Equal(t, "Survey kit", kit.Name)
}
