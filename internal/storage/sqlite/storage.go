// Package sqlite provides a SQLite-backed skip store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristianoliveira/hnreader/internal/story"
	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS skipped_stories (
	id         INTEGER PRIMARY KEY,
	skipped_at TEXT NOT NULL
);
`

// SQLiteStorage stores skipped story ids in a single table.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage creates a SQLite-backed store at the provided path.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite storage: db path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite storage: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: open db: %w", err)
	}

	s := &SQLiteStorage{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying SQLite connection.
func (s *SQLiteStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStorage) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite storage: set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite storage: create schema: %w", err)
	}
	return nil
}

// LoadSkipSet returns every stored id.
func (s *SQLiteStorage) LoadSkipSet(ctx context.Context) (story.IDSet, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM skipped_stories")
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: load skip set: %w", err)
	}
	defer rows.Close()

	ids := story.NewIDSet()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite storage: scan id: %w", err)
		}
		ids.Add(story.ID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite storage: iterate ids: %w", err)
	}
	return ids, nil
}

// SaveSkipSet replaces the stored ids with ids in one transaction. Ids that
// were already stored keep their original skipped_at.
func (s *SQLiteStorage) SaveSkipSet(ctx context.Context, ids story.IDSet) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stale, err := staleIDs(ctx, tx, ids)
		if err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, "DELETE FROM skipped_stories WHERE id = ?")
		if err != nil {
			return fmt.Errorf("prepare delete: %w", err)
		}
		defer stmt.Close()
		for _, id := range stale {
			if _, err := stmt.ExecContext(ctx, int64(id)); err != nil {
				return fmt.Errorf("delete id %d: %w", id, err)
			}
		}
		return s.upsert(ctx, tx, ids)
	})
}

// Import adds ids without removing existing ones.
func (s *SQLiteStorage) Import(ctx context.Context, ids story.IDSet) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.upsert(ctx, tx, ids)
	})
}

// Count returns the number of stored ids.
func (s *SQLiteStorage) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM skipped_stories").Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite storage: count: %w", err)
	}
	return n, nil
}

// Clear removes every stored id.
func (s *SQLiteStorage) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM skipped_stories"); err != nil {
		return fmt.Errorf("sqlite storage: clear: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) upsert(ctx context.Context, tx *sql.Tx, ids story.IDSet) error {
	now := time.Now().UTC().Format(time.RFC3339)
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO skipped_stories (id, skipped_at) VALUES (?, ?) ON CONFLICT(id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids.Sorted() {
		if _, err := stmt.ExecContext(ctx, int64(id), now); err != nil {
			return fmt.Errorf("upsert id %d: %w", id, err)
		}
	}
	return nil
}

// staleIDs lists stored ids that are not in keep.
func staleIDs(ctx context.Context, tx *sql.Tx, keep story.IDSet) ([]story.ID, error) {
	rows, err := tx.QueryContext(ctx, "SELECT id FROM skipped_stories")
	if err != nil {
		return nil, fmt.Errorf("list stored ids: %w", err)
	}
	defer rows.Close()

	var stale []story.ID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		if !keep.Has(story.ID(id)) {
			stale = append(stale, story.ID(id))
		}
	}
	return stale, rows.Err()
}

func (s *SQLiteStorage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite storage: begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("sqlite storage: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite storage: commit: %w", err)
	}
	return nil
}
