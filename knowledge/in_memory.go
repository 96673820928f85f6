package knowledge

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nooriai/noori/core"
)

// InMemoryStore is a process-local Store backed by a map keyed on the
// lowercase topic. Search is a linear scan with case-insensitive substring
// matching. Suitable for tests and single-process setups; use SQLiteStore
// when notes must survive restarts.
//
// Concurrency: protected by RWMutex.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty in-memory knowledge base.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]Entry)}
}

// Search implements Store. Results are ordered by topic for determinism.
func (s *InMemoryStore) Search(_ context.Context, query string, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	matched := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if q == "" ||
			strings.Contains(strings.ToLower(e.Topic), q) ||
			strings.Contains(strings.ToLower(e.Content), q) {
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Topic < matched[j].Topic })

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Upsert implements Store. Existing topics accumulate content; the merge
// separates contributions with a blank line.
func (s *InMemoryStore) Upsert(_ context.Context, topic, content string) (Entry, error) {
	topic = strings.TrimSpace(topic)
	content = strings.TrimSpace(content)
	if topic == "" {
		return Entry{}, fmt.Errorf("knowledge: empty topic")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(topic)
	e, exists := s.entries[key]
	if !exists {
		e = Entry{ID: core.NewID(), Topic: topic}
	}
	e.Content = mergeContent(e.Content, content)
	e.Updated = time.Now()
	s.entries[key] = e
	return e, nil
}

// Delete implements Store. Deleting an unknown topic is not an error.
func (s *InMemoryStore) Delete(_ context.Context, topic string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, strings.ToLower(strings.TrimSpace(topic)))
	return nil
}

// mergeContent appends new content to existing notes without duplicating an
// identical note.
func mergeContent(existing, incoming string) string {
	if existing == "" {
		return incoming
	}
	if incoming == "" || strings.Contains(existing, incoming) {
		return existing
	}
	return existing + "\n\n" + incoming
}
