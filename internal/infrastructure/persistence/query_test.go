package persistence

import (
	"testing"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/assetdesk/backend/internal/infrastructure/persistence/models"
	"github.com/assetdesk/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestValidateSortOrder(t *testing.T) {
	for in, want := range map[string]string{
		"":                          "DESC",
		"asc":                       "ASC",
		"  ASC ":                    "ASC",
		"desc":                      "DESC",
		"sideways":                  "DESC",
		"ASC; DROP TABLE assets;--": "DESC",
	} {
		assert.Equal(t, want, ValidateSortOrder(in), "%q", in)
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		allowed map[string]bool
		want    string
	}{
		{"kit asset count", "asset_count", KitSortFields, "asset_count"},
		{"file linked count", " linked_count ", AdditionalFileSortFields, "linked_count"},
		{"asset count is not an asset column", "asset_count", AssetSortFields, "created_at"},
		{"case sensitive", "NAME", AssetSortFields, "created_at"},
		{"empty", "", LocationSortFields, "created_at"},
		{"subquery", "name, (SELECT custom_id FROM assets)", AssetSortFields, "created_at"},
		{"comment", "id/**/;DROP TABLE kits", KitSortFields, "created_at"},
		{"quote", "name'--", TagSortFields, "created_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSortField(tt.field, tt.allowed, "created_at"))
		})
	}
}

func TestSortFieldWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"assets":           AssetSortFields,
		"kits":             KitSortFields,
		"additional_files": AdditionalFileSortFields,
		"categories":       CategorySortFields,
		"tags":             TagSortFields,
		"locations":        LocationSortFields,
		"custom_fields":    CustomFieldSortFields,
	}
	for table, fields := range whitelists {
		for _, col := range []string{"id", "name", "created_at", "updated_at"} {
			assert.True(t, fields[col], "%s should sort by %s", table, col)
		}
	}
}

func TestApplyPageAndOrder(t *testing.T) {
	db := testutil.NewSQLiteDB(t)

	toSQL := func(filter shared.Filter) string {
		return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
			var rows []models.KitModel
			return applyPageAndOrder(tx.Model(&models.KitModel{}), filter, KitSortFields, "created_at DESC").Find(&rows)
		})
	}

	tests := []struct {
		name     string
		filter   shared.Filter
		contains []string
		excludes []string
	}{
		{
			name:     "whitelisted column",
			filter:   shared.Filter{OrderBy: "asset_count", OrderDir: "asc"},
			contains: []string{"ORDER BY asset_count ASC"},
			excludes: []string{"LIMIT"},
		},
		{
			name:     "unknown column falls back",
			filter:   shared.Filter{OrderBy: "linked_count", OrderDir: "asc"},
			contains: []string{"ORDER BY created_at DESC"},
		},
		{
			name:     "second page",
			filter:   shared.Filter{Page: 2, PageSize: 25},
			contains: []string{"LIMIT 25", "OFFSET 25"},
		},
		{
			name:     "page without size is unbounded",
			filter:   shared.Filter{Page: 3},
			excludes: []string{"LIMIT", "OFFSET"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := toSQL(tt.filter)
			for _, s := range tt.contains {
				assert.Contains(t, sql, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, sql, s)
			}
		})
	}
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%drill%", likePattern("Drill"))
	assert.Equal(t, `%100\%%`, likePattern("100%"))
	assert.Equal(t, `%kit\_a%`, likePattern("KIT_A"))
	assert.Equal(t, `%c:\\tools%`, likePattern(`C:\tools`))
}

func TestApplySearch(t *testing.T) {
	db := testutil.NewSQLiteDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []models.AssetModel
		return applySearch(tx.Model(&models.AssetModel{}), " drill ", "name", "custom_id").Find(&rows)
	})
	assert.Contains(t, sql, "LOWER(name) LIKE")
	assert.Contains(t, sql, "OR LOWER(custom_id) LIKE")
	assert.Contains(t, sql, "%drill%")

	blank := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []models.AssetModel
		return applySearch(tx.Model(&models.AssetModel{}), "   ", "name").Find(&rows)
	})
	assert.NotContains(t, blank, "LIKE")
}
