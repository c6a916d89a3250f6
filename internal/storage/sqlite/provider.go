// Package sqlite implements the world and community stores on SQLite files.
//
// Every operation opens its own handle through Provider, runs its statements
// and closes the handle before returning. Nothing is pooled between calls.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"mcpdemo/internal/storage"
)

// ErrUnknownStore is returned for a logical store name with no backing file.
var ErrUnknownStore = errors.New("unknown store")

// Provider opens handles to the SQLite files under a data directory
type Provider struct {
	dir       string
	readWrite bool
}

// Option configures a Provider
type Option func(*Provider)

// WithReadWrite opens stores read-write, creating missing files.
// Without it a missing file is an error.
func WithReadWrite() Option {
	return func(p *Provider) {
		p.readWrite = true
	}
}

// NewProvider creates a provider for the stores under dir
func NewProvider(dir string, opts ...Option) *Provider {
	p := &Provider{dir: dir}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Path returns the file backing the named store
func (p *Provider) Path(name string) (string, error) {
	switch name {
	case storage.World, storage.Community:
		return filepath.Join(p.dir, name+".db"), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStore, name)
	}
}

// Open returns a new handle bound to the named store.
// The caller owns the handle and must close it.
func (p *Provider) Open(ctx context.Context, name string) (*sqlx.DB, error) {
	path, err := p.Path(name)
	if err != nil {
		return nil, err
	}

	mode := "ro"
	if p.readWrite {
		mode = "rwc"
	}

	db, err := sqlx.Open("sqlite3", fmt.Sprintf("file:%s?mode=%s", path, mode))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", name, err)
	}
	db.SetMaxOpenConns(1)

	// sql.Open is lazy; ping so a missing or unreadable file fails here
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open %s store at %s: %w", name, path, err)
	}
	return db, nil
}

// with runs fn against a fresh handle and closes it on every path
func (p *Provider) with(ctx context.Context, name string, fn func(db *sqlx.DB) error) (err error) {
	db, err := p.Open(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s store: %w", name, cerr)
		}
	}()
	return fn(db)
}
