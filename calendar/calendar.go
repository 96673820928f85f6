// Package calendar implements the assistant's event store: a SQLite-backed
// calendar with add and range-list operations, exposed to the model as the
// calendar_add_event and calendar_list_events tools.
package calendar

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nooriai/noori/core"
)

// Event is one calendar entry.
type Event struct {
	ID       string
	Title    string
	Start    time.Time
	End      time.Time
	Location string
	Notes    string
}

// Store persists events in a local SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at dbPath and migrates the
// schema.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("calendar: open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("calendar: migrate: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calendar_events (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		start_at TIMESTAMP NOT NULL,
		end_at TIMESTAMP NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_calendar_start ON calendar_events(start_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Add stores a new event. End defaults to one hour after Start.
func (s *Store) Add(ctx context.Context, ev Event) (Event, error) {
	ev.Title = strings.TrimSpace(ev.Title)
	if ev.Title == "" {
		return Event{}, fmt.Errorf("calendar: empty title")
	}
	if ev.Start.IsZero() {
		return Event{}, fmt.Errorf("calendar: missing start time")
	}
	if ev.End.IsZero() {
		ev.End = ev.Start.Add(time.Hour)
	}
	if ev.End.Before(ev.Start) {
		return Event{}, fmt.Errorf("calendar: event ends before it starts")
	}
	ev.ID = core.NewID()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calendar_events (id, title, start_at, end_at, location, notes)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Title, ev.Start.UTC(), ev.End.UTC(), ev.Location, ev.Notes)
	if err != nil {
		return Event{}, fmt.Errorf("calendar: insert: %w", err)
	}
	return ev, nil
}

// List returns events overlapping [from, until), ordered by start time.
func (s *Store) List(ctx context.Context, from, until time.Time) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, start_at, end_at, location, notes
		FROM calendar_events
		WHERE start_at < ? AND end_at > ?
		ORDER BY start_at`, until.UTC(), from.UTC())
	if err != nil {
		return nil, fmt.Errorf("calendar: list: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.Start, &ev.End, &ev.Location, &ev.Notes); err != nil {
			return nil, fmt.Errorf("calendar: scan: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Delete removes an event by id. Unknown ids are not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = ?`, id); err != nil {
		return fmt.Errorf("calendar: delete: %w", err)
	}
	return nil
}
