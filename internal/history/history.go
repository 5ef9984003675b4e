// Package history persists a bounded record of wake events in a local
// SQLite database, so runs on an unattended host can be inspected after
// the fact without scraping the text log.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Actions recorded for a run's terminal step.
const (
	ActionShutdown = "shutdown"
	ActionSkipped  = "skipped"
	ActionDryRun   = "dry-run"
)

// Event is one completed run: when it happened, which wake instant was
// chosen, what the alarm service answered, and how the run ended.
type Event struct {
	At       time.Time
	WakeAt   time.Time
	Response string
	Action   string
}

// Store is the SQLite-backed event log.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists. The parent directory is created if missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("error creating history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening history database: %w", err)
	}
	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS wake_events (
            id       INTEGER PRIMARY KEY AUTOINCREMENT,
            at       INTEGER NOT NULL,
            wake_at  INTEGER NOT NULL,
            response TEXT NOT NULL,
            action   TEXT NOT NULL
        )
    `)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record appends one event.
func (s *Store) Record(e Event) error {
	_, err := s.db.Exec(
		`INSERT INTO wake_events (at, wake_at, response, action) VALUES (?, ?, ?, ?)`,
		e.At.Unix(), e.WakeAt.Unix(), e.Response, e.Action,
	)
	if err != nil {
		return fmt.Errorf("error recording wake event: %w", err)
	}
	return nil
}

// Recent returns up to n events, newest first.
func (s *Store) Recent(n int) ([]Event, error) {
	rows, err := s.db.Query(
		`SELECT at, wake_at, response, action FROM wake_events ORDER BY id DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying wake events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var at, wakeAt int64
		var e Event
		if err := rows.Scan(&at, &wakeAt, &e.Response, &e.Action); err != nil {
			return nil, fmt.Errorf("error scanning wake event row: %w", err)
		}
		e.At = time.Unix(at, 0)
		e.WakeAt = time.Unix(wakeAt, 0)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wake event rows: %w", err)
	}
	return events, nil
}

// Prune deletes everything but the newest keep events, bounding the store.
func (s *Store) Prune(keep int) error {
	_, err := s.db.Exec(`
        DELETE FROM wake_events
        WHERE id NOT IN (SELECT id FROM wake_events ORDER BY id DESC LIMIT ?)
    `, keep)
	if err != nil {
		return fmt.Errorf("error pruning wake events: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
