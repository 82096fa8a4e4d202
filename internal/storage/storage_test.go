package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dalvah/planease/internal/apperr"
)

// providers builds one instance of every backend for shared contract tests.
func providers(t *testing.T) map[string]Provider {
	t.Helper()

	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	dbFile, err := os.CreateTemp("", "planease-storage-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })
	db, err := OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	return map[string]Provider{"fs": fs, "sqlite": db}
}

func TestProviderContract(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			// Missing key.
			if _, err := p.Get("missing"); !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("Get(missing) = %v, want ErrNotFound", err)
			}

			// Set then get.
			if err := p.Set("state", []byte(`{"a":1}`)); err != nil {
				t.Fatal(err)
			}
			got, err := p.Get("state")
			if err != nil || string(got) != `{"a":1}` {
				t.Errorf("Get = %q, %v", got, err)
			}

			// Overwrite.
			if err := p.Set("state", []byte(`{"a":2}`)); err != nil {
				t.Fatal(err)
			}
			got, _ = p.Get("state")
			if string(got) != `{"a":2}` {
				t.Errorf("after overwrite = %q", got)
			}

			// Delete, then delete again (no-op).
			if err := p.Delete("state"); err != nil {
				t.Fatal(err)
			}
			if _, err := p.Get("state"); !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("Get after delete = %v, want ErrNotFound", err)
			}
			if err := p.Delete("state"); err != nil {
				t.Errorf("second delete = %v, want nil", err)
			}
		})
	}
}

func TestFSRejectsEscapingKeys(t *testing.T) {
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"", "../outside", "/etc/passwd", "a/../../b"} {
		if err := fs.Set(key, []byte("x")); err == nil {
			t.Errorf("Set(%q) should be rejected", key)
		}
		if _, err := fs.Get(key); err == nil {
			t.Errorf("Get(%q) should be rejected", key)
		}
	}
}

func TestFSWritesOneFilePerKey(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Set("planease_app_v1", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, KeyFile("planease_app_v1"))); err != nil {
		t.Errorf("state file missing: %v", err)
	}

	// No stray temp files after a successful write.
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	dbFile, err := os.CreateTemp("", "planease-reopen-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Set("state", []byte("persisted")); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db2, err := OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	defer db2.Close()
	got, err := db2.Get("state")
	if err != nil || string(got) != "persisted" {
		t.Errorf("after reopen = %q, %v", got, err)
	}
}
