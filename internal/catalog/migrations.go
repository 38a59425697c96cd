package catalog

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// schemaStep is one numbered catalog schema change, e.g. 001_initial.sql.
type schemaStep struct {
	number int
	name   string
	sql    string
}

func (s schemaStep) version() string {
	return fmt.Sprintf("%03d_%s", s.number, s.name)
}

func readSchemaSteps(fsys fs.FS, dir string) ([]schemaStep, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog schema dir: %w", err)
	}
	steps := make([]schemaStep, 0, len(entries))
	seen := make(map[int]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}
		prefix, name, ok := strings.Cut(strings.TrimSuffix(entry.Name(), ".sql"), "_")
		number, convErr := strconv.Atoi(prefix)
		if !ok || convErr != nil || number <= 0 || name == "" {
			return nil, fmt.Errorf("catalog schema file %s: want NNN_name.sql", entry.Name())
		}
		if other, dup := seen[number]; dup {
			return nil, fmt.Errorf("catalog schema files %s and %s share number %d", other, entry.Name(), number)
		}
		seen[number] = entry.Name()

		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read catalog schema %s: %w", entry.Name(), err)
		}
		steps = append(steps, schemaStep{number: number, name: name, sql: string(data)})
	}
	slices.SortFunc(steps, func(a, b schemaStep) int { return a.number - b.number })
	return steps, nil
}

// upgradeSchema brings the catalog to the newest embedded schema in one
// transaction and returns the versions it applied.
func (s *Store) upgradeSchema(ctx context.Context) ([]string, error) {
	steps, err := readSchemaSteps(migrationFS, "migrations")
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT ''
	)`); err != nil {
		return nil, fmt.Errorf("ensure schema_migrations: %w", err)
	}

	var applied []string
	for _, step := range steps {
		version := step.version()
		var existing string
		err := tx.QueryRowContext(ctx, "SELECT version FROM schema_migrations WHERE version = ?", version).Scan(&existing)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("check schema %s: %w", version, err)
		}
		if _, err := tx.ExecContext(ctx, step.sql); err != nil {
			return nil, fmt.Errorf("apply schema %s: %w", version, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			version, time.Now().UTC().Format(time.RFC3339),
		); err != nil {
			return nil, fmt.Errorf("record schema %s: %w", version, err)
		}
		applied = append(applied, version)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit schema: %w", err)
	}
	return applied, nil
}

// SchemaVersion returns the newest schema version recorded in the catalog.
func (s *Store) SchemaVersion(ctx context.Context) (string, error) {
	var version sql.NullString
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		return "", fmt.Errorf("read schema version: %w", err)
	}
	return version.String, nil
}

// Upgraded lists the schema versions applied when this store was opened.
func (s *Store) Upgraded() []string {
	return slices.Clone(s.upgraded)
}
