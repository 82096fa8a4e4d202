// Package testutil provides shared test helpers for setting up state
// directories and stores.
package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/dalvah/planease/internal/storage"
)

// TestStateDir creates a temporary state directory with a file-backed
// storage.Provider.
func TestStateDir(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, fs
}

// TestSQLite creates a temporary SQLite-backed storage.Provider that is
// automatically cleaned up.
func TestSQLite(t *testing.T) storage.Provider {
	t.Helper()
	dbFile, err := os.CreateTemp("", "planease-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := storage.OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// FixedClock is a settable test clock.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c *FixedClock) Now() time.Time { return c.T }

// Advance moves the clock forward.
func (c *FixedClock) Advance(d time.Duration) { c.T = c.T.Add(d) }
