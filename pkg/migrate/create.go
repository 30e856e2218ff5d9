package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// CreateSQLMigration writes <dir>/<version>_<name>.sql with a scaffold that
// runs on both postgres and sqlite. A name starting with "create_" scaffolds
// that table.
func CreateSQLMigration(dir string, name string) (string, error) {
	return createSQLMigration(dir, name, time.Now())
}

func createSQLMigration(dir, name string, now time.Time) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("dir is required")
	}
	slug := migrationSlug(name)
	if slug == "" {
		return "", fmt.Errorf("migration name %q has no usable characters", name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}
	if existing, err := findBySlug(dir, slug); err != nil {
		return "", err
	} else if existing != "" {
		return "", fmt.Errorf("migration %q already exists as %s", slug, existing)
	}

	fullpath := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", now.UTC().Format(versionLayout), slug))
	f, err := os.OpenFile(fullpath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create migration %q: %w", fullpath, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(scaffold(slug)); err != nil {
		return "", fmt.Errorf("write migration %q: %w", fullpath, err)
	}
	return fullpath, nil
}

func migrationSlug(name string) string {
	return strings.Trim(nonSlugRe.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

// findBySlug returns the file already using slug under any version.
func findBySlug(dir, slug string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || sqlFileRe.FindStringSubmatch(e.Name()) == nil {
			continue
		}
		if strings.TrimSuffix(e.Name()[len(versionLayout)+1:], ".sql") == slug {
			return e.Name(), nil
		}
	}
	return "", nil
}

func scaffold(slug string) string {
	up := "-- portable SQL only (postgres and sqlite); ids are VARCHAR(36) set by the app\n"
	down := ""
	if table, ok := strings.CutPrefix(slug, "create_"); ok && table != "" {
		up += fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id         VARCHAR(36) PRIMARY KEY,
    created_at TIMESTAMP   NOT NULL,
    updated_at TIMESTAMP   NOT NULL
);
`, table)
		down = fmt.Sprintf("DROP TABLE IF EXISTS %s;\n", table)
	}

	var b strings.Builder
	b.WriteString("-- +goose Up\n-- +goose StatementBegin\n")
	b.WriteString(up)
	b.WriteString("-- +goose StatementEnd\n\n-- +goose Down\n-- +goose StatementBegin\n")
	b.WriteString(down)
	b.WriteString("-- +goose StatementEnd\n")
	return b.String()
}
