// Package store implements the embedded sqlite library store: cached catalog
// songs and albums, user playlists and playlist membership.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/reewhy/musicplayer/internal/logger"
)

// ErrNotOpen is returned by queries issued before Open has completed.
var ErrNotOpen = errors.New("store: not open")

// ErrReservedPlaylist is returned when attempting to delete the Liked Songs
// playlist.
var ErrReservedPlaylist = errors.New("store: playlist 0 is reserved")

// Store owns the single persistent sqlite connection. Open must be called
// before any query; it is idempotent, reopening a live connection is a no-op.
type Store struct {
	mu  sync.Mutex
	db  *sqlx.DB
	dsn string
	log *logger.Logger
}

func New(dsn string, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Default()
	}
	return &Store{
		dsn: dsn,
		log: log.WithComponent("store"),
	}
}

// Open connects, applies pragmas and the schema, and seeds the Liked Songs
// playlist. Calling Open on an already-open store is a no-op.
func (s *Store) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	db, err := sqlx.Open("sqlite", s.dsn)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}

	// Set pragmas for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=30000"); err != nil {
		db.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping db: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	if _, err := db.Exec(Seed); err != nil {
		db.Close()
		return fmt.Errorf("failed to seed db: %w", err)
	}

	s.db = db
	s.log.Info("Database opened", "dsn", s.dsn)
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Reset drops all four tables and re-applies the schema. Debug operation,
// destroys all data.
func (s *Store) Reset() error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	if _, err := db.Exec(DropAll); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to re-apply schema: %w", err)
	}
	if _, err := db.Exec(Seed); err != nil {
		return fmt.Errorf("failed to re-seed db: %w", err)
	}

	s.log.Warn("All tables dropped and recreated")
	return nil
}

func (s *Store) conn() (*sqlx.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, ErrNotOpen
	}
	return s.db, nil
}
