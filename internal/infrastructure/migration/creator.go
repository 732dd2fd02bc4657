package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/spf13/afero"
)

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

var (
	upTemplate = template.Must(template.New("up").Parse(`-- Migration: {{.Name}}
-- Created: {{.Timestamp}}
-- Description: {{.Description}}

`))
	downTemplate = template.Must(template.New("down").Parse(`-- Migration: {{.Name}} (Rollback)
-- Created: {{.Timestamp}}

`))
)

// MigrationFile is a created up/down pair
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// Creator writes new migration pairs into a directory of fs
type Creator struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

// NewCreator returns a Creator for dir on fs
func NewCreator(fs afero.Fs, dir string) *Creator {
	return &Creator{fs: fs, dir: dir, now: time.Now}
}

// Create writes <version>_<name>.up.sql and .down.sql. The version is a
// UTC timestamp so files sort in creation order.
func (c *Creator) Create(name, description string) (*MigrationFile, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := c.fs.MkdirAll(c.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	now := c.now().UTC()
	version := now.Format("20060102150405")
	base := version + "_" + slug

	mf := &MigrationFile{
		Version:     version,
		Name:        name,
		Description: description,
		Timestamp:   now.Format(time.RFC3339),
		UpPath:      filepath.Join(c.dir, base+upSuffix),
		DownPath:    filepath.Join(c.dir, base+downSuffix),
	}

	if err := c.write(mf.UpPath, upTemplate, mf); err != nil {
		return nil, err
	}
	if err := c.write(mf.DownPath, downTemplate, mf); err != nil {
		_ = c.fs.Remove(mf.UpPath)
		return nil, err
	}
	return mf, nil
}

func (c *Creator) write(p string, tmpl *template.Template, mf *MigrationFile) error {
	if ok, _ := afero.Exists(c.fs, p); ok {
		return fmt.Errorf("migration %s already exists", filepath.Base(p))
	}
	f, err := c.fs.Create(p)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", p, err)
	}
	defer f.Close()
	return tmpl.Execute(f, mf)
}

// sanitizeName lowercases name and keeps letters and digits, joining
// words with single underscores
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// ListMigrations returns the base names of the migrations in fsys, sorted.
// A migration is listed once its up file exists.
func ListMigrations(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	names := make([]string, 0, len(entries)/2)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(path.Base(entry.Name()), upSuffix); ok && base != "" {
			names = append(names, base)
		}
	}
	sort.Strings(names)
	return names, nil
}
