// internal/store/store.go

// Package store persists one row per completion attempt in SQLite.
package store

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
	"go.uber.org/zap"

	"github.com/mwiater/trocadilho/internal/logging"
)

// ParseErrorSentinel fills the predicted fields of a phrase row whose reply
// could not be parsed.
const ParseErrorSentinel = "PARSE_ERROR"

// ErrDuplicate is returned when an item id is already stored.
var ErrDuplicate = errors.New("store: item already recorded")

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Store wraps the SQLite handle. It is used by a single goroutine for the
// duration of one command.
type Store struct {
	db   *sqlx.DB
	path string
}

// Open opens (or creates) the database at path and applies pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate store %s: %w", path, err)
	}

	logging.L().Debug("store opened", zap.String("path", path))
	return &Store{db: db, path: path}, nil
}

// OpenReadOnly opens an existing database for reading. No migrations run and
// nothing is created, so stores written by older tools keep their schema.
func OpenReadOnly(ctx context.Context, path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", "file:"+path+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}

	logging.L().Debug("store opened read-only", zap.String("path", path))
	return &Store{db: db, path: path}, nil
}

// migrateUp runs the embedded migrations. The migrate instance is not closed
// because closing it would also close db.
func migrateUp(db *sqlx.DB) error {
	driver, err := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	if err != nil {
		return err
	}
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Path returns the file the store was opened from.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		return serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

func (s *Store) idSet(ctx context.Context, query string) (map[string]struct{}, error) {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
