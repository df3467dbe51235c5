package db

import (
	"path/filepath"
	"testing"
)

// newTestDB creates a database in a temp directory that is cleaned up when
// the test finishes.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	database, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	return database
}

func TestNewCreatesSchema(t *testing.T) {
	database := newTestDB(t)

	for _, table := range []string{"calls", "poll_cycles"} {
		var name string
		err := database.QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	database, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = database.Close() }()

	if database.Path() != path {
		t.Errorf("Path() = %q, want %q", database.Path(), path)
	}
}

func TestVacuum(t *testing.T) {
	database := newTestDB(t)
	if err := database.Vacuum(); err != nil {
		t.Errorf("Vacuum() error = %v", err)
	}
}
