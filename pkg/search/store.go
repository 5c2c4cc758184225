package search

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store records which revision of each post the index has seen, so a reindex
// only refetches what changed. Only index bookkeeping lives here; post
// content is never cached outside the backing store.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the sync-state database.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS indexed_posts (
		slug TEXT PRIMARY KEY,
		revision TEXT NOT NULL,
		indexed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Revision returns the last-indexed revision for slug, or "" when the post
// has never been indexed.
func (s *Store) Revision(slug string) (string, error) {
	var rev string
	err := s.db.QueryRow("SELECT revision FROM indexed_posts WHERE slug = ?", slug).Scan(&rev)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query revision: %w", err)
	}
	return rev, nil
}

// SetRevision upserts the revision for slug.
func (s *Store) SetRevision(slug, revision string) error {
	_, err := s.db.Exec(`
	INSERT INTO indexed_posts (slug, revision, indexed_at)
	VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(slug) DO UPDATE SET
		revision = excluded.revision,
		indexed_at = excluded.indexed_at
	`, slug, revision)
	if err != nil {
		return fmt.Errorf("set revision: %w", err)
	}
	return nil
}

// DeleteRevision forgets the sync state for slug.
func (s *Store) DeleteRevision(slug string) error {
	if _, err := s.db.Exec("DELETE FROM indexed_posts WHERE slug = ?", slug); err != nil {
		return fmt.Errorf("delete revision: %w", err)
	}
	return nil
}
