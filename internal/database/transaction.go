package database

import (
	"context"

	"gorm.io/gorm"
)

// WithTransaction runs fn inside a transaction that commits when fn returns
// nil and rolls back on an error or panic.
// With SQLite's single connection, fn must only use tx.
func WithTransaction(ctx context.Context, db Database, fn func(tx *gorm.DB) error) error {
	return db.Session(ctx).Transaction(fn)
}
