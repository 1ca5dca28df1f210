// ABOUTME: Runs the shared repository suite against the SQLite and markdown backends.
// ABOUTME: Lives in an external test package so it can import storagetest.
package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/harperreed/trainer/internal/storage"
	"github.com/harperreed/trainer/internal/storage/storagetest"
)

func TestSQLiteRepository(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Repository {
		db, err := storage.Open(filepath.Join(t.TempDir(), storage.DBFileName))
		if err != nil {
			t.Fatalf("Failed to open database: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })
		return db
	})
}

func TestMarkdownRepository(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Repository {
		store, err := storage.NewMarkdownStore(t.TempDir())
		if err != nil {
			t.Fatalf("Failed to create markdown store: %v", err)
		}
		return store
	})
}
