package migration

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/assetdesk/backend/migrations"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add kit notes", "add_kit_notes"},
		{"Add-Kit-Notes", "add_kit_notes"},
		{"ADD_KIT_NOTES", "add_kit_notes"},
		{"add__kit__notes", "add_kit_notes"},
		{"Asset Value 2", "asset_value_2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func fixedCreator(fs afero.Fs, dir string) *Creator {
	c := NewCreator(fs, dir)
	c.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }
	return c
}

func TestCreator_Create(t *testing.T) {
	mem := afero.NewMemMapFs()
	c := fixedCreator(mem, "migrations")

	mf, err := c.Create("add kit notes", "Free text notes on kits")
	require.NoError(t, err)

	assert.Equal(t, "20260301093000", mf.Version)
	assert.Equal(t, filepath.Join("migrations", "20260301093000_add_kit_notes.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join("migrations", "20260301093000_add_kit_notes.down.sql"), mf.DownPath)

	up, err := afero.ReadFile(mem, mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add kit notes")
	assert.Contains(t, string(up), "Free text notes on kits")

	down, err := afero.ReadFile(mem, mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")
}

func TestCreator_Create_Errors(t *testing.T) {
	t.Run("unusable name", func(t *testing.T) {
		_, err := fixedCreator(afero.NewMemMapFs(), "m").Create("!!!", "")
		assert.Error(t, err)
	})

	t.Run("existing version is not overwritten", func(t *testing.T) {
		mem := afero.NewMemMapFs()
		c := fixedCreator(mem, "m")
		_, err := c.Create("add kit notes", "")
		require.NoError(t, err)

		_, err = c.Create("add kit notes", "")
		assert.Error(t, err)
	})

	t.Run("read-only fs", func(t *testing.T) {
		_, err := fixedCreator(afero.NewReadOnlyFs(afero.NewMemMapFs()), "m").Create("x", "")
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"20260302000000_add_kit_notes.up.sql":   {Data: []byte("--")},
		"20260302000000_add_kit_notes.down.sql": {Data: []byte("--")},
		"20260301000000_init.up.sql":            {Data: []byte("--")},
		"20260301000000_init.down.sql":          {Data: []byte("--")},
		"README.md":                             {Data: []byte("#")},
		"embed.go":                              {Data: []byte("package migrations")},
		"nested.up.sql/keep":                    {Data: []byte("")},
	}

	names, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260301000000_init", "20260302000000_add_kit_notes"}, names)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	names, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "none")))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	names, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		down, err := fs.ReadFile(migrations.FS, name+downSuffix)
		require.NoError(t, err, name)
		assert.True(t, strings.Contains(string(down), "DROP"), name)
	}
}
