package taxonomy

import (
	"testing"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	teamID := uuid.New()

	t.Run("defaults color", func(t *testing.T) {
		c, err := NewCategory(teamID, "Vehicles", "", "")
		require.NoError(t, err)
		assert.Equal(t, DefaultCategoryColor, c.Color)
		assert.False(t, c.IsTrashed())
		require.Len(t, c.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeCategoryCreated, c.GetDomainEvents()[0].EventType())
	})

	t.Run("accepts short hex", func(t *testing.T) {
		c, err := NewCategory(teamID, "Vehicles", "#abc", "")
		require.NoError(t, err)
		assert.Equal(t, "#abc", c.Color)
	})

	t.Run("rejects invalid color", func(t *testing.T) {
		_, err := NewCategory(teamID, "Vehicles", "red", "")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewCategory(teamID, "", "#000000", "")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestCategory_TrashRestore(t *testing.T) {
	c, err := NewCategory(uuid.New(), "Tools", "#112233", "")
	require.NoError(t, err)

	require.NoError(t, c.Trash())
	assert.True(t, c.IsTrashed())
	assert.ErrorIs(t, c.Trash(), shared.ErrValidation)

	require.NoError(t, c.Restore())
	assert.False(t, c.IsTrashed())
	assert.ErrorIs(t, c.Restore(), shared.ErrValidation)

	events := c.GetDomainEvents()
	require.Len(t, events, 3)
	assert.Equal(t, EventTypeCategoryDeleted, events[1].EventType())
	assert.Equal(t, EventTypeCategoryRestored, events[2].EventType())
}

func TestTagAndLocation(t *testing.T) {
	teamID := uuid.New()

	tag, err := NewTag(teamID, " fragile ", "")
	require.NoError(t, err)
	assert.Equal(t, "fragile", tag.Name)
	require.NoError(t, tag.Update("Fragile", "handle with care"))
	assert.Equal(t, "handle with care", tag.Description)

	loc, err := NewLocation(teamID, "Warehouse", "", "1 Dock Rd")
	require.NoError(t, err)
	assert.Equal(t, "", loc.SetImage("locations/a.png"))
	assert.Equal(t, "locations/a.png", loc.SetImage("locations/b.png"))

	_, err = NewLocation(uuid.Nil, "Warehouse", "", "")
	assert.ErrorIs(t, err, shared.ErrValidation)
}
