// Package testutil provides shared helpers for tests that need a real
// storage layer.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/hmalvik/matchflow/internal/model"
	"github.com/hmalvik/matchflow/internal/service"
	"github.com/hmalvik/matchflow/internal/storage"
)

// TestDB wraps an in-memory SQLite storage for tests.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a migrated in-memory database and registers cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// SeedProducts inserts catalog products or fails the test.
func (db *TestDB) SeedProducts(products ...model.Product) {
	db.t.Helper()
	if err := db.Storage.SaveProducts(context.Background(), products); err != nil {
		db.t.Fatalf("failed to seed products: %v", err)
	}
}

// SeedMessages inserts messages or fails the test.
func (db *TestDB) SeedMessages(messages ...model.Message) {
	db.t.Helper()
	if err := db.Storage.SaveMessages(context.Background(), messages); err != nil {
		db.t.Fatalf("failed to seed messages: %v", err)
	}
}

// DatePtr returns a pointer to a UTC date, a convenience for fixtures.
func DatePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
