package core

import (
	"sync"
	"time"
)

// History is the append-only ordered log of exchange records for one
// session. Insertion order is significant: it is replayed verbatim to the
// completion service on every call. A History is owned by exactly one
// session and grows monotonically until the session ends.
//
// Contract:
//   - Append never reorders or rewrites existing records
//   - Records returns a copy, never the underlying slice
//   - All methods are safe for concurrent use, though the orchestration
//     loop itself issues strictly sequential calls per session.
type History struct {
	SessionID string
	Created   time.Time

	mu      sync.RWMutex
	records []Record
	updated time.Time
}

// NewHistory creates an empty history bound to a session.
func NewHistory(sessionID string) *History {
	now := time.Now().UTC()
	return &History{SessionID: sessionID, Created: now, updated: now}
}

// Append adds records to the end of the log in the given order.
func (h *History) Append(records ...Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, records...)
	h.updated = time.Now().UTC()
}

// Records returns a copy of the full record slice.
func (h *History) Records() []Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}

// Len returns the number of records appended so far.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// Updated returns the time of the most recent append.
func (h *History) Updated() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.updated
}

// HistoryStore hands out the conversation history owned by a session,
// creating it lazily on first access. Implementations decide persistence;
// the core requires none.
type HistoryStore interface {
	Get(sessionID string) (*History, error)
}
