package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"bcimerge/internal/config"
)

// Store manages build history backed by SQLite.
type Store struct {
	db       *sql.DB
	path     string
	upgraded []string
}

// Open connects to the catalog configured in cfg and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil || strings.TrimSpace(cfg.Catalog.Path) == "" {
		return nil, errors.New("catalog path not configured")
	}
	return OpenPath(cfg.Catalog.Path)
}

// OpenPath connects to the catalog database at path.
func OpenPath(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure catalog directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	upgraded, err := store.upgradeSchema(context.Background())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	store.upgraded = upgraded
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordBuild inserts b and its sessions in one transaction and sets b.ID.
// A zero CreatedAt is filled with the current time.
func (s *Store) RecordBuild(ctx context.Context, b *Build) error {
	if b == nil {
		return errors.New("build is nil")
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO builds (
            run_id, output_path, description, device, shift, window_length,
            session_count, datapoints, correct, output_sha256, output_bytes, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.RunID,
		b.Output,
		b.Description,
		b.Device,
		b.Shift,
		b.Length,
		len(b.Sessions),
		b.Datapoints,
		b.Correct,
		b.SHA256,
		b.Bytes,
		b.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	for _, session := range b.Sessions {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO build_sessions (
                build_id, position, signal_path, events_path, samples, events, datapoints, truncated
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id,
			session.Position,
			session.Signal,
			session.Events,
			session.Samples,
			session.EventCount,
			session.Datapoints,
			session.Truncated,
		); err != nil {
			return fmt.Errorf("insert build session %d: %w", session.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit build: %w", err)
	}
	b.ID = id
	return nil
}

const buildColumns = `id, run_id, output_path, description, device, shift, window_length,
    datapoints, correct, output_sha256, output_bytes, created_at`

// ListBuilds returns the most recent builds first. A limit <= 0 returns all.
func (s *Store) ListBuilds(ctx context.Context, limit int) ([]*Build, error) {
	query := `SELECT ` + buildColumns + ` FROM builds ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer rows.Close()

	var builds []*Build
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}

	for _, b := range builds {
		if b.Sessions, err = s.sessions(ctx, b.ID); err != nil {
			return nil, err
		}
	}
	return builds, nil
}

// GetByRunID fetches a build by its run identifier; nil when absent.
func (s *Store) GetByRunID(ctx context.Context, runID string) (*Build, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+buildColumns+` FROM builds WHERE run_id = ?`, runID)
	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get build: %w", err)
	}
	if b.Sessions, err = s.sessions(ctx, b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) sessions(ctx context.Context, buildID int64) ([]BuildSession, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT position, signal_path, events_path, samples, events, datapoints, truncated
         FROM build_sessions WHERE build_id = ? ORDER BY position`,
		buildID,
	)
	if err != nil {
		return nil, fmt.Errorf("list build sessions: %w", err)
	}
	defer rows.Close()

	out := []BuildSession{}
	for rows.Next() {
		var bs BuildSession
		if err := rows.Scan(&bs.Position, &bs.Signal, &bs.Events, &bs.Samples, &bs.EventCount, &bs.Datapoints, &bs.Truncated); err != nil {
			return nil, fmt.Errorf("scan build session: %w", err)
		}
		out = append(out, bs)
	}
	return out, rows.Err()
}

func scanBuild(scanner interface{ Scan(dest ...any) error }) (*Build, error) {
	var (
		b       Build
		created string
	)
	if err := scanner.Scan(
		&b.ID, &b.RunID, &b.Output, &b.Description, &b.Device, &b.Shift, &b.Length,
		&b.Datapoints, &b.Correct, &b.SHA256, &b.Bytes, &created,
	); err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	b.CreatedAt = ts
	return &b, nil
}
