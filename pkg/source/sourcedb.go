package source

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is a row from the registry_sources table.
type Entry struct {
	SourceID    string
	Description string
	SourceURL   string
	License     string
	LastCheck   *int64
	LastStatus  *int
	LastError   *string
	UpdatedAt   int64
}

// DB manages the registry_sources SQLite table: the current download URL
// per source plus the result of the last availability check.
type DB struct {
	db *sql.DB
}

// OpenDB opens (or creates) the SQLite database at path and ensures the
// registry_sources table exists.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open source db: %w", err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS registry_sources (
		source_id    TEXT PRIMARY KEY,
		description  TEXT NOT NULL,
		source_url   TEXT NOT NULL,
		license      TEXT NOT NULL DEFAULT '',
		last_check   INTEGER,
		last_status  INTEGER,
		last_error   TEXT,
		updated_at   INTEGER NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create registry_sources table: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the SQLite connection.
func (s *DB) Close() error {
	return s.db.Close()
}

// Seed inserts default rows for each source (INSERT OR IGNORE — existing
// rows are left untouched so that manual URL overrides survive reruns).
func (s *DB) Seed(srcs []Source) error {
	const q = `INSERT OR IGNORE INTO registry_sources
		(source_id, description, source_url, license, updated_at)
		VALUES (?, ?, ?, ?, ?)`

	now := time.Now().Unix()
	for _, src := range srcs {
		if _, err := s.db.Exec(q, src.ID(), src.Description(), src.DefaultURL(), src.License(), now); err != nil {
			return fmt.Errorf("seed %s: %w", src.ID(), err)
		}
	}
	return nil
}

// GetURL returns the current download URL for a given source ID.
func (s *DB) GetURL(sourceID string) (string, error) {
	var url string
	err := s.db.QueryRow(`SELECT source_url FROM registry_sources WHERE source_id = ?`, sourceID).Scan(&url)
	if err != nil {
		return "", fmt.Errorf("get url for %s: %w", sourceID, err)
	}
	return url, nil
}

// SetURL updates the download URL for a source and records the change time.
func (s *DB) SetURL(sourceID, url string) error {
	res, err := s.db.Exec(
		`UPDATE registry_sources SET source_url = ?, updated_at = ? WHERE source_id = ?`,
		url, time.Now().Unix(), sourceID,
	)
	if err != nil {
		return fmt.Errorf("set url for %s: %w", sourceID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("source %s not found in registry_sources", sourceID)
	}
	return nil
}

// UpdateCheck persists the result of an availability check.
func (s *DB) UpdateCheck(sourceID string, status int, checkErr string) error {
	now := time.Now().Unix()
	var errPtr *string
	if checkErr != "" {
		errPtr = &checkErr
	}
	_, err := s.db.Exec(
		`UPDATE registry_sources SET last_check = ?, last_status = ?, last_error = ? WHERE source_id = ?`,
		now, status, errPtr, sourceID,
	)
	if err != nil {
		return fmt.Errorf("update check for %s: %w", sourceID, err)
	}
	return nil
}

// List returns all rows from registry_sources ordered by source_id.
func (s *DB) List() ([]Entry, error) {
	rows, err := s.db.Query(`SELECT source_id, description, source_url, license,
		last_check, last_status, last_error, updated_at
		FROM registry_sources ORDER BY source_id`)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.SourceID, &e.Description, &e.SourceURL, &e.License,
			&e.LastCheck, &e.LastStatus, &e.LastError, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
