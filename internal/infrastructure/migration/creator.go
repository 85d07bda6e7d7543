package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/imperialbinding/billing/internal/infrastructure/config"
)

// Dialects lists the migration subdirectories kept in step
var Dialects = []string{config.DriverPostgres, config.DriverMySQL, config.DriverSQLite}

var migrationTemplate = template.Must(template.New("migration").Parse(`-- {{.Name}} ({{.Direction}}, {{.Dialect}})
-- {{.Description}}

`))

// MigrationFile describes one created up/down pair
type MigrationFile struct {
	Version  string
	BaseName string
	UpPath   string
	DownPath string
}

// CreateMigration writes an empty up/down pair into every dialect directory
// under migrationsPath. Versions are UTC timestamps so they sort after the
// numbered baseline.
func CreateMigration(migrationsPath, name, description string, now time.Time) ([]MigrationFile, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	version := now.UTC().Format("20060102150405")
	base := version + "_" + slug

	var created []MigrationFile
	for _, dialect := range Dialects {
		dir := filepath.Join(migrationsPath, dialect)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return created, fmt.Errorf("failed to create migrations directory: %w", err)
		}

		mf := MigrationFile{
			Version:  version,
			BaseName: base,
			UpPath:   filepath.Join(dir, base+".up.sql"),
			DownPath: filepath.Join(dir, base+".down.sql"),
		}
		for _, f := range []struct{ path, direction string }{{mf.UpPath, "up"}, {mf.DownPath, "down"}} {
			if err := writeMigration(f.path, map[string]string{
				"Name":        name,
				"Description": description,
				"Direction":   f.direction,
				"Dialect":     dialect,
			}); err != nil {
				return created, err
			}
		}
		created = append(created, mf)
	}
	return created, nil
}

func writeMigration(path string, data map[string]string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := migrationTemplate.Execute(f, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// sanitizeName lowercases name and joins its words with underscores
func sanitizeName(name string) string {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	})
	var b strings.Builder
	for _, w := range words {
		var part strings.Builder
		for _, r := range w {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				part.WriteRune(r)
			}
		}
		if part.Len() == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('_')
		}
		b.WriteString(part.String())
	}
	return b.String()
}

// ListMigrations returns the sorted base names of the up migrations in dir
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".up.sql") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".up.sql"))
	}
	sort.Strings(names)
	return names, nil
}
