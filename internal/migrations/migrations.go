// Package migrations embeds the goose migrations that build the dev and test
// SQLite stores. Version 1 of each store is its schema, version 2 seeds it.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"mcpdemo/internal/storage"
)

//go:embed world/*.sql community/*.sql
var files embed.FS

// SchemaVersion is the last migration that only creates tables.
const SchemaVersion int64 = 1

// NewProvider returns a goose provider for the named store's migrations.
func NewProvider(db *sql.DB, store string) (*goose.Provider, error) {
	if store != storage.World && store != storage.Community {
		return nil, fmt.Errorf("no migrations for store %q", store)
	}
	fsys, err := fs.Sub(files, store)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s migrations: %w", store, err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Up applies every migration of the store, seeds included.
func Up(ctx context.Context, db *sql.DB, store string) error {
	provider, err := NewProvider(db, store)
	if err != nil {
		return err
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", store, err)
	}
	return nil
}

// Schema creates the store's tables without seed rows.
func Schema(ctx context.Context, db *sql.DB, store string) error {
	provider, err := NewProvider(db, store)
	if err != nil {
		return err
	}
	if _, err := provider.UpTo(ctx, SchemaVersion); err != nil {
		return fmt.Errorf("failed to create %s schema: %w", store, err)
	}
	return nil
}
