package knowledge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nooriai/noori/core"
)

// SQLiteStore is a persistent Store backed by a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dbPath and migrates the
// schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("knowledge: open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("knowledge: migrate: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS knowledge_entries (
		id TEXT PRIMARY KEY,
		topic_key TEXT NOT NULL UNIQUE,
		topic TEXT NOT NULL,
		content TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_knowledge_topic ON knowledge_entries(topic_key);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Search implements Store using LIKE over topic and content.
func (s *SQLiteStore) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, topic, content, updated_at
		FROM knowledge_entries
		WHERE topic_key LIKE ? OR lower(content) LIKE ?
		ORDER BY topic_key
		LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("knowledge: search: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Topic, &e.Content, &e.Updated); err != nil {
			return nil, fmt.Errorf("knowledge: scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Upsert implements Store with read-merge-write inside a transaction.
func (s *SQLiteStore) Upsert(ctx context.Context, topic, content string) (Entry, error) {
	topic = strings.TrimSpace(topic)
	content = strings.TrimSpace(content)
	if topic == "" {
		return Entry{}, fmt.Errorf("knowledge: empty topic")
	}
	key := strings.ToLower(topic)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("knowledge: begin: %w", err)
	}
	defer tx.Rollback()

	e := Entry{Topic: topic}
	err = tx.QueryRowContext(ctx, `
		SELECT id, topic, content FROM knowledge_entries WHERE topic_key = ?`, key).
		Scan(&e.ID, &e.Topic, &e.Content)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		e.ID = core.NewID()
	case err != nil:
		return Entry{}, fmt.Errorf("knowledge: lookup: %w", err)
	}

	e.Content = mergeContent(e.Content, content)
	e.Updated = time.Now()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO knowledge_entries (id, topic_key, topic, content, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(topic_key) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		e.ID, key, e.Topic, e.Content, e.Updated)
	if err != nil {
		return Entry{}, fmt.Errorf("knowledge: upsert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Entry{}, fmt.Errorf("knowledge: commit: %w", err)
	}
	return e, nil
}

// Delete implements Store. Deleting an unknown topic is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, topic string) error {
	key := strings.ToLower(strings.TrimSpace(topic))
	if _, err := s.db.ExecContext(ctx, `DELETE FROM knowledge_entries WHERE topic_key = ?`, key); err != nil {
		return fmt.Errorf("knowledge: delete: %w", err)
	}
	return nil
}
