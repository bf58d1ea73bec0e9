// Package dbtest opens throwaway run databases for tests in other packages.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/abdulachik/playmood/internal/db"
)

// NewStore opens a migrated store in a temporary directory and closes it
// when the test ends.
func NewStore(t testing.TB) *db.Store {
	t.Helper()

	ctx := context.Background()
	store, err := db.NewStore(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		t.Fatalf("migrate test store: %v", err)
	}

	t.Cleanup(func() { store.Close() })
	return store
}
