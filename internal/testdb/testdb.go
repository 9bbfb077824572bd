// Package testdb provides a shared test database helper for fast,
// realistic testing against an in-memory SQLite database.
package testdb

import (
	"context"
	"testing"

	"github.com/helixml/newsdesk/infrastructure/persistence"
	"github.com/helixml/newsdesk/internal/database"
)

// New creates an in-memory SQLite database with all migrations applied.
// The database is automatically closed when the test finishes.
func New(t *testing.T) database.Database {
	t.Helper()
	return open(t, "sqlite:///:memory:")
}

// NewFile creates a migrated SQLite database file inside t.TempDir().
func NewFile(t *testing.T) database.Database {
	t.Helper()
	return open(t, "sqlite:///"+t.TempDir()+"/newsdesk.db")
}

func open(t *testing.T, url string) database.Database {
	t.Helper()
	ctx := context.Background()
	db, err := database.NewDatabase(ctx, url)
	if err != nil {
		t.Fatalf("testdb: open database: %v", err)
	}
	if err := persistence.AutoMigrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("testdb: auto migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
