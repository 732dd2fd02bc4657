package inventory_test

import (
	"context"
	"testing"

	appinv "github.com/assetdesk/backend/internal/application/inventory"
	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/assetdesk/backend/internal/domain/taxonomy"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomFieldService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := appinv.NewCustomFieldService(f.readers.CustomFields, f.readers.Categories, nil)

	category, err := taxonomy.NewCategory(f.teamID, "Cameras", "", "")
	require.NoError(t, err)
	require.NoError(t, f.readers.Categories.Save(ctx, category))

	created, err := svc.Create(ctx, f.teamID, appinv.CustomFieldRequest{
		Name:             "Mount",
		Type:             "select",
		CategorySpecific: true,
		Options:          []string{"EF", "RF"},
		CategoryIDs:      []uuid.UUID{category.ID},
	})
	require.NoError(t, err)
	assert.True(t, created.Active)
	require.Len(t, created.Options, 2)
	assert.Equal(t, "EF", created.Options[0].Value)
	assert.Equal(t, []uuid.UUID{category.ID}, created.CategoryIDs)

	inactive := false
	updated, err := svc.Update(ctx, f.teamID, created.ID, appinv.CustomFieldRequest{
		Name:    "Mount",
		Type:    "select",
		Active:  &inactive,
		Options: []string{"EF", "RF", "E"},
	})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Len(t, updated.Options, 3)
	assert.Empty(t, updated.CategoryIDs)

	list, total, err := svc.List(ctx, appinv.CustomFieldListFilter{Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), shared.ErrNotFound)
}

func TestCustomFieldService_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := appinv.NewCustomFieldService(f.readers.CustomFields, f.readers.Categories, nil)

	other, err := taxonomy.NewCategory(uuid.New(), "Foreign", "", "")
	require.NoError(t, err)
	require.NoError(t, f.readers.Categories.Save(ctx, other))

	tests := []struct {
		name string
		req  appinv.CustomFieldRequest
		code string
	}{
		{"unknown type", appinv.CustomFieldRequest{Name: "X", Type: "color"}, "INVALID_FIELD_TYPE"},
		{"select without options", appinv.CustomFieldRequest{Name: "X", Type: "select"}, "OPTIONS_REQUIRED"},
		{"category specific without categories", appinv.CustomFieldRequest{Name: "X", Type: "text", CategorySpecific: true}, "CATEGORIES_REQUIRED"},
		{"unknown category", appinv.CustomFieldRequest{Name: "X", Type: "text", CategorySpecific: true, CategoryIDs: []uuid.UUID{uuid.New()}}, shared.CodeNotFound},
		{"other team's category", appinv.CustomFieldRequest{Name: "X", Type: "text", CategorySpecific: true, CategoryIDs: []uuid.UUID{other.ID}}, shared.CodeCrossTeam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, f.teamID, tt.req)
			require.Error(t, err)
			de, ok := shared.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, de.Code)
		})
	}

	fields, err := f.readers.CustomFields.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestCustomFieldService_DeleteRemovesValues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := appinv.NewCustomFieldService(f.readers.CustomFields, f.readers.Categories, nil)

	field, err := svc.Create(ctx, f.teamID, appinv.CustomFieldRequest{Name: "Serial", Type: "text"})
	require.NoError(t, err)

	asset, err := f.assets.Create(ctx, f.teamID, appinv.CreateAssetRequest{
		AssetInput:   appinv.AssetInput{Name: "Camera"},
		CustomFields: map[uuid.UUID]string{field.ID: "SN-1"},
	})
	require.NoError(t, err)

	values, err := f.readers.CustomValues.ListByOwner(ctx, inventory.OwnerTypeAsset, asset.ID)
	require.NoError(t, err)
	require.Len(t, values, 1)

	require.NoError(t, svc.Delete(ctx, field.ID))
	values, err = f.readers.CustomValues.ListByOwner(ctx, inventory.OwnerTypeAsset, asset.ID)
	require.NoError(t, err)
	assert.Empty(t, values)
}
