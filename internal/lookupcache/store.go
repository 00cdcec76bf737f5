package lookupcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"tunetidy/internal/acoustid"
)

const schema = `
CREATE TABLE IF NOT EXISTS lookups (
    digest     TEXT PRIMARY KEY,
    matches    TEXT NOT NULL,
    created_at TEXT NOT NULL
);
`

// Store is a sqlite-backed cache of AcoustID lookup results.
type Store struct {
	db *sql.DB
}

// Open creates or opens the cache database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the cached matches for a fingerprint digest. The second return
// is false when the digest has never been stored.
func (s *Store) Get(ctx context.Context, digest string) ([]acoustid.Match, bool, error) {
	var payload string
	row := s.db.QueryRowContext(ctx, "SELECT matches FROM lookups WHERE digest = ?", digest)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cached lookup: %w", err)
	}

	var matches []acoustid.Match
	if err := json.Unmarshal([]byte(payload), &matches); err != nil {
		return nil, false, fmt.Errorf("decode cached lookup: %w", err)
	}
	return matches, true, nil
}

// Put stores the matches for a fingerprint digest, replacing any earlier
// entry. An empty match list is a valid cacheable result.
func (s *Store) Put(ctx context.Context, digest string, matches []acoustid.Match) error {
	if matches == nil {
		matches = []acoustid.Match{}
	}
	payload, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("encode lookup: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO lookups (digest, matches, created_at) VALUES (?, ?, ?) ON CONFLICT(digest) DO UPDATE SET matches = excluded.matches, created_at = excluded.created_at",
		digest, string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store lookup: %w", err)
	}
	return nil
}

// Purge removes every cached lookup and reports how many were deleted.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM lookups")
	if err != nil {
		return 0, fmt.Errorf("purge lookups: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge lookups: %w", err)
	}
	return deleted, nil
}

// Count reports how many lookups are cached.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lookups")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count lookups: %w", err)
	}
	return count, nil
}
