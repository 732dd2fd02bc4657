package persistence

import (
	"context"
	"testing"

	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/assetdesk/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomFieldRepository_SaveWithOptions(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormCustomFieldRepository(db)
	ctx := context.Background()
	categoryID := uuid.New()

	field, err := inventory.NewCustomField(inventory.CustomFieldSpec{
		Name:             "Condition",
		Type:             "select",
		Active:           true,
		CategorySpecific: true,
		Options:          []string{"New", "Used", "Broken"},
		CategoryIDs:      []uuid.UUID{categoryID},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, field))

	found, err := repo.FindByID(ctx, field.ID)
	require.NoError(t, err)
	require.Len(t, found.Options, 3)
	assert.Equal(t, "New", found.Options[0].Value)
	assert.Equal(t, "Broken", found.Options[2].Value)
	assert.Equal(t, []uuid.UUID{categoryID}, found.CategoryIDs)

	require.NoError(t, found.Update(inventory.CustomFieldSpec{
		Name:    "Condition",
		Type:    "select",
		Active:  true,
		Options: []string{"Good", "Bad"},
	}))
	require.NoError(t, repo.Save(ctx, found))

	again, err := repo.FindByID(ctx, field.ID)
	require.NoError(t, err)
	require.Len(t, again.Options, 2)
	assert.Equal(t, "Good", again.Options[0].Value)
	assert.Empty(t, again.CategoryIDs)

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	require.NoError(t, repo.Delete(ctx, field.ID))
	_, err = repo.FindByID(ctx, field.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCustomFieldValueRepository_Upsert(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormCustomFieldValueRepository(db)
	ctx := context.Background()
	ownerID, fieldID := uuid.New(), uuid.New()

	require.NoError(t, repo.Upsert(ctx, &inventory.CustomFieldValue{
		OwnerType: inventory.OwnerTypeAsset, OwnerID: ownerID, CustomFieldID: fieldID, Value: "first",
	}))
	require.NoError(t, repo.Upsert(ctx, &inventory.CustomFieldValue{
		OwnerType: inventory.OwnerTypeAsset, OwnerID: ownerID, CustomFieldID: fieldID, Value: "second",
	}))

	values, err := repo.ListByOwner(ctx, inventory.OwnerTypeAsset, ownerID)
	require.NoError(t, err)
	require.Len(t, values, 1, "one value per owner and field")
	assert.Equal(t, "second", values[0].Value)

	kitValues, err := repo.ListByOwner(ctx, inventory.OwnerTypeKit, ownerID)
	require.NoError(t, err)
	assert.Empty(t, kitValues)

	require.NoError(t, repo.Delete(ctx, inventory.OwnerTypeAsset, ownerID, fieldID))
	require.NoError(t, repo.Delete(ctx, inventory.OwnerTypeAsset, ownerID, fieldID))
	values, err = repo.ListByOwner(ctx, inventory.OwnerTypeAsset, ownerID)
	require.NoError(t, err)
	assert.Empty(t, values)
}
