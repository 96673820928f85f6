package session

import (
	"sync"

	"github.com/nooriai/noori/core"
)

// InMemoryStore is a volatile HistoryStore keeping each session's
// conversation history in a process local map. Histories are created
// lazily on first access and handed out by pointer so every caller of one
// session shares the same append-only log. Safe for concurrent use across
// sessions; within one session the orchestration loop enforces sequential
// calls.
type InMemoryStore struct {
	mu        sync.RWMutex
	histories map[string]*core.History
}

var _ core.HistoryStore = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty in-memory history store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{histories: make(map[string]*core.History)}
}

// Get returns the history for sessionID, creating it on first use.
func (s *InMemoryStore) Get(sessionID string) (*core.History, error) {
	s.mu.RLock()
	if h, ok := s.histories[sessionID]; ok {
		s.mu.RUnlock()
		return h, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.histories[sessionID]; ok {
		return h, nil
	}
	h := core.NewHistory(sessionID)
	s.histories[sessionID] = h
	return h, nil
}

// Delete discards a session's history, ending the session.
func (s *InMemoryStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.histories, sessionID)
}

// Len returns the number of live sessions.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.histories)
}
