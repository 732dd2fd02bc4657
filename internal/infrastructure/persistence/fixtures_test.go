package persistence

import (
	"context"
	"testing"

	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func saveAsset(t *testing.T, db *gorm.DB, teamID uuid.UUID, name string, tagIDs ...uuid.UUID) *inventory.Asset {
	t.Helper()
	asset, err := inventory.NewAsset(teamID, inventory.AssetFields{Name: name})
	require.NoError(t, err)
	asset.SetTags(tagIDs)
	require.NoError(t, NewGormAssetRepository(db).Save(context.Background(), asset))
	return asset
}

func saveKit(t *testing.T, db *gorm.DB, teamID uuid.UUID, name string) *inventory.Kit {
	t.Helper()
	kit, err := inventory.NewKit(teamID, inventory.KitFields{Name: name})
	require.NoError(t, err)
	require.NoError(t, NewGormKitRepository(db).Save(context.Background(), kit))
	return kit
}

func saveFile(t *testing.T, db *gorm.DB, teamID uuid.UUID, name string, linked int) *inventory.AdditionalFile {
	t.Helper()
	id := uuid.Must(uuid.NewV7())
	file, err := inventory.NewAdditionalFileWithID(id, teamID, inventory.FileKey(teamID, id, name), name, "application/pdf", 128, "", linked)
	require.NoError(t, err)
	require.NoError(t, NewGormAdditionalFileRepository(db).Save(context.Background(), file))
	return file
}

func linkedCount(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	file, err := NewGormAdditionalFileRepository(db).FindByID(context.Background(), id)
	require.NoError(t, err)
	return file.LinkedCount
}
