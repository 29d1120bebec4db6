// Package sqlite keeps the leaderboard in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/scoundrel/internal/leaderboard"
	"github.com/cory-johannsen/scoundrel/internal/storage/sqlite/migrations"
)

// Store persists leaderboard entries in SQLite. It satisfies leaderboard.Store.
type Store struct {
	db *sql.DB
}

var _ leaderboard.Store = (*Store)(nil)

// Open opens the database at path and applies pending migrations.
//
// Precondition: path must be non-blank.
// Postcondition: Returns an open Store or a non-nil error; nothing is left open on error.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}
	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// migrateUp applies pending migrations from the embedded FS. The migrate
// instance is not closed because that would close db.
func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("opening embedded migrations: %w", err)
	}
	defer src.Close()

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating sqlite migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// Version returns the applied schema version.
func (s *Store) Version() (uint, error) {
	var v uint
	err := s.db.QueryRow(`SELECT version FROM schema_migrations LIMIT 1`).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts e and returns the number of entries ranked above it. Entries
// with an equal score rank by insertion order.
//
// Postcondition: Returns the 0-based position of e, or a non-nil error with nothing inserted.
func (s *Store) Record(ctx context.Context, e leaderboard.Entry) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning score insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO scores (name, score, won, run_id, recorded_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id`,
		e.Name, e.Score, e.Won, e.RunID, e.Timestamp,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting score: %w", err)
	}

	var pos int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM scores
		 WHERE score > ? OR (score = ? AND id < ?)`,
		e.Score, e.Score, id,
	).Scan(&pos)
	if err != nil {
		return 0, fmt.Errorf("ranking score: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing score: %w", err)
	}
	return pos, nil
}

// Top returns at most n entries ordered by descending score.
//
// Precondition: n >= 0.
func (s *Store) Top(ctx context.Context, n int) ([]leaderboard.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, score, won, recorded_at, run_id
		 FROM scores
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("listing scores: %w", err)
	}
	defer rows.Close()

	var out []leaderboard.Entry
	for rows.Next() {
		var e leaderboard.Entry
		if err := rows.Scan(&e.Name, &e.Score, &e.Won, &e.Timestamp, &e.RunID); err != nil {
			return nil, fmt.Errorf("scanning score: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scores: %w", err)
	}
	return out, nil
}
