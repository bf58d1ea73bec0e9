package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/abdulachik/playmood/internal/db/migrations"
	_ "modernc.org/sqlite"
)

// busyTimeout is how long a writer waits on a locked run database, in
// milliseconds. The migrate command and an annotate run may share one file.
const busyTimeout = 5000

// Store wraps the run database connection and provides access to queries.
type Store struct {
	*sql.DB
	*Queries
}

// migration is one embedded schema file, e.g. 001_annotation_runs.sql.
type migration struct {
	Version int
	Name    string
	File    string
}

// NewStore opens the run database, creating its directory if needed.
func NewStore(ctx context.Context, dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Open connection; pragmas in the DSN are applied to every new connection
	sqlDB, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Annotation workers save results concurrently; one connection serializes them
	sqlDB.SetMaxOpenConns(1)

	// WAL is a property of the file, so set it once
	if _, err := sqlDB.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	store := &Store{
		DB:      sqlDB,
		Queries: New(sqlDB),
	}

	return store, nil
}

// dsn adds the per-connection pragmas to a database path.
func dsn(dbPath string) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout))
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "synchronous(NORMAL)")
	return dbPath + "?" + q.Encode()
}

// Migrate applies every embedded migration newer than the recorded schema
// version. Each file runs in its own transaction.
func (s *Store) Migrate(ctx context.Context) error {
	slog.Info("running database migrations")

	// Create migrations tracking table
	_, err := s.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	pending, err := loadMigrations()
	if err != nil {
		return err
	}

	applied := 0
	for _, m := range pending {
		if m.Version <= current {
			slog.Debug("migration already applied", "version", m.Version, "name", m.Name)
			continue
		}

		if err := s.apply(ctx, m); err != nil {
			return err
		}
		applied++
	}

	slog.Info("database schema up to date", "applied", applied)
	return nil
}

// SchemaVersion returns the highest applied migration version, or 0 for a
// fresh database.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	err := s.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("query schema version: %w", err)
	}
	return int(version.Int64), nil
}

func (s *Store) apply(ctx context.Context, m migration) error {
	slog.Info("applying migration", "version", m.Version, "name", m.Name)

	content, err := fs.ReadFile(migrations.FS, m.File)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", m.File, err)
	}

	// Execute migration in transaction
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, extractUpMigration(string(content))); err != nil {
		return fmt.Errorf("execute migration %s: %w", m.File, err)
	}

	_, err = tx.ExecContext(ctx, "INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name)
	if err != nil {
		return fmt.Errorf("record migration %s: %w", m.File, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", m.File, err)
	}
	return nil
}

// loadMigrations lists the embedded migrations ordered by version.
func loadMigrations() ([]migration, error) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var list []migration
	seen := make(map[int]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		m, err := parseMigrationName(entry.Name())
		if err != nil {
			return nil, err
		}
		if other, ok := seen[m.Version]; ok {
			return nil, fmt.Errorf("migrations %s and %s share version %d", other, m.File, m.Version)
		}
		seen[m.Version] = m.File
		list = append(list, m)
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Version < list[j].Version })
	return list, nil
}

// parseMigrationName splits "001_annotation_runs.sql" into version 1 and
// name "annotation_runs".
func parseMigrationName(file string) (migration, error) {
	base := strings.TrimSuffix(file, ".sql")
	prefix, name, ok := strings.Cut(base, "_")
	if !ok || name == "" {
		return migration{}, fmt.Errorf("migration %s: want <version>_<name>.sql", file)
	}

	version, err := strconv.Atoi(prefix)
	if err != nil || version < 1 {
		return migration{}, fmt.Errorf("migration %s: invalid version %q", file, prefix)
	}
	return migration{Version: version, Name: name, File: file}, nil
}

// extractUpMigration extracts the "up" portion of a migration file.
func extractUpMigration(content string) string {
	// Find -- +migrate Down marker
	idx := strings.Index(content, "-- +migrate Down")
	if idx == -1 {
		return content
	}

	// Drop the Up marker from what precedes it
	up := strings.TrimSpace(content[:idx])
	up = strings.TrimPrefix(up, "-- +migrate Up")
	return strings.TrimSpace(up)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.DB.Close()
}
