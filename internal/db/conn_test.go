package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	store, err := NewStore(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Migrate(ctx))
	return store
}

func TestNewStore(t *testing.T) {
	t.Run("creates directory and database", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "subdir", "runs.db")

		ctx := context.Background()
		store, err := NewStore(ctx, dbPath)
		require.NoError(t, err)
		defer store.Close()

		_, err = os.Stat(dbPath)
		assert.NoError(t, err)

		var result int
		err = store.QueryRowContext(ctx, "SELECT 1").Scan(&result)
		assert.NoError(t, err)
		assert.Equal(t, 1, result)
	})

	t.Run("sets WAL mode and foreign keys", func(t *testing.T) {
		ctx := context.Background()
		store, err := NewStore(ctx, filepath.Join(t.TempDir(), "runs.db"))
		require.NoError(t, err)
		defer store.Close()

		var mode string
		require.NoError(t, store.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
		assert.Equal(t, "wal", mode)

		var fk int
		require.NoError(t, store.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
		assert.Equal(t, 1, fk)
	})

	t.Run("sets busy timeout", func(t *testing.T) {
		ctx := context.Background()
		store, err := NewStore(ctx, filepath.Join(t.TempDir(), "runs.db"))
		require.NoError(t, err)
		defer store.Close()

		var timeout int
		require.NoError(t, store.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout))
		assert.Equal(t, busyTimeout, timeout)
	})
}

func TestStore_Migrate(t *testing.T) {
	t.Run("creates run tables", func(t *testing.T) {
		store := newTestStore(t)
		ctx := context.Background()

		for _, table := range []string{"annotation_runs", "remote_annotations"} {
			var name string
			err := store.QueryRowContext(ctx,
				"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
			assert.NoError(t, err)
			assert.Equal(t, table, name)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		store := newTestStore(t)
		ctx := context.Background()

		require.NoError(t, store.Migrate(ctx))

		count, err := store.CountRuns(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), count)

		var recorded int
		require.NoError(t, store.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&recorded))
		assert.Equal(t, 1, recorded)
	})

	t.Run("records schema version", func(t *testing.T) {
		ctx := context.Background()
		store, err := NewStore(ctx, filepath.Join(t.TempDir(), "runs.db"))
		require.NoError(t, err)
		defer store.Close()

		require.NoError(t, store.Migrate(ctx))

		version, err := store.SchemaVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, version)

		var name string
		require.NoError(t, store.QueryRowContext(ctx, "SELECT name FROM schema_migrations WHERE version = 1").Scan(&name))
		assert.Equal(t, "annotation_runs", name)
	})
}

func TestLoadMigrations(t *testing.T) {
	list, err := loadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, migration{Version: 1, Name: "annotation_runs", File: "001_annotation_runs.sql"}, list[0])

	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Version, list[i].Version)
	}
}

func TestParseMigrationName(t *testing.T) {
	tests := []struct {
		file    string
		want    migration
		wantErr bool
	}{
		{"001_annotation_runs.sql", migration{Version: 1, Name: "annotation_runs", File: "001_annotation_runs.sql"}, false},
		{"012_add_index.sql", migration{Version: 12, Name: "add_index", File: "012_add_index.sql"}, false},
		{"annotation_runs.sql", migration{}, true},
		{"000_zero.sql", migration{}, true},
		{"002.sql", migration{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, err := parseMigrationName(tt.file)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueries_Runs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.CreateRun(ctx, CreateRunParams{
		ID:        "run-1",
		InputPath: "selected_speakers_hamlet.json",
		Provider:  "openai/gpt-4o-mini",
		Seed:      42,
		Requested: 3,
	})
	require.NoError(t, err)

	run, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "selected_speakers_hamlet.json", run.InputPath)
	assert.Equal(t, int64(3), run.Requested)
	assert.Equal(t, int64(42), run.Seed)
	assert.False(t, run.CompletedAt.Valid)

	require.NoError(t, store.SetRunRequested(ctx, SetRunRequestedParams{ID: "run-1", Requested: 5}))

	require.NoError(t, store.CompleteRun(ctx, "run-1"))
	run, err = store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.True(t, run.CompletedAt.Valid)
	assert.Equal(t, int64(5), run.Requested)

	runs, err := store.ListRecentRuns(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	_, err = store.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestQueries_RemoteAnnotations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateRun(ctx, CreateRunParams{ID: "run-1", InputPath: "in.json", Provider: "openai/gpt-4o-mini"}))

	failed := UpsertRemoteAnnotationParams{
		RunID:          "run-1",
		SentenceNumber: 4,
		Failure:        sql.NullString{String: "timeout", Valid: true},
		Attempts:       3,
	}
	require.NoError(t, store.UpsertRemoteAnnotation(ctx, failed))
	require.NoError(t, store.UpsertRemoteAnnotation(ctx, UpsertRemoteAnnotationParams{
		RunID:          "run-1",
		SentenceNumber: 2,
		MainEmotion:    sql.NullString{String: "joy", Valid: true},
		Sentiment:      sql.NullString{String: "positive", Valid: true},
		Attempts:       1,
	}))

	n, err := store.CountFailedAnnotations(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// a later success replaces the failure and accumulates attempts
	require.NoError(t, store.UpsertRemoteAnnotation(ctx, UpsertRemoteAnnotationParams{
		RunID:          "run-1",
		SentenceNumber: 4,
		MainEmotion:    sql.NullString{String: "fear", Valid: true},
		Sentiment:      sql.NullString{String: "negative", Valid: true},
		Attempts:       1,
	}))

	rows, err := store.ListRemoteAnnotations(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(2), rows[0].SentenceNumber)
	assert.Equal(t, int64(4), rows[1].SentenceNumber)
	assert.False(t, rows[1].Failure.Valid)
	assert.Equal(t, "fear", rows[1].MainEmotion.String)
	assert.Equal(t, int64(4), rows[1].Attempts)

	n, err = store.CountRemoteAnnotations(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestQueries_ForeignKey(t *testing.T) {
	store := newTestStore(t)

	err := store.UpsertRemoteAnnotation(context.Background(), UpsertRemoteAnnotationParams{
		RunID:          "no-such-run",
		SentenceNumber: 1,
	})
	assert.Error(t, err)
}

func TestExtractUpMigration(t *testing.T) {
	t.Run("extracts up portion", func(t *testing.T) {
		content := `-- +migrate Up
CREATE TABLE test (id INTEGER);

-- +migrate Down
DROP TABLE test;
`
		assert.Equal(t, "CREATE TABLE test (id INTEGER);", extractUpMigration(content))
	})

	t.Run("handles no down marker", func(t *testing.T) {
		content := "CREATE TABLE test (id INTEGER);"
		assert.Equal(t, content, extractUpMigration(content))
	})
}
