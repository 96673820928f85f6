// Package knowledge implements the assistant's personal knowledge base: a
// topic-keyed store of free-text notes with substring search and
// merge-on-upsert semantics, exposed to the model as the knowledge_search
// and knowledge_upsert tools.
package knowledge

import (
	"context"
	"time"
)

// Entry is one stored note. Topic is the upsert key; Content accumulates
// across upserts of the same topic.
type Entry struct {
	ID      string
	Topic   string
	Content string
	Updated time.Time
}

// Store is the knowledge-base contract. Search matches query as a
// case-insensitive substring of topic or content; an empty query returns
// everything up to limit. Upsert merges content into an existing topic
// (appending, never overwriting) or creates the topic.
type Store interface {
	Search(ctx context.Context, query string, limit int) ([]Entry, error)
	Upsert(ctx context.Context, topic, content string) (Entry, error)
	Delete(ctx context.Context, topic string) error
}
