package calendar

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "calendar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddAndList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	start := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	ev, err := store.Add(ctx, Event{Title: "Dentist", Start: start})
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, start.Add(time.Hour), ev.End)

	events, err := store.List(ctx, start.Add(-time.Hour), start.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Dentist", events[0].Title)

	// Outside the range.
	events, err = store.List(ctx, start.Add(24*time.Hour), start.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestListOrderedByStart(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	_, err := store.Add(ctx, Event{Title: "later", Start: base.Add(2 * time.Hour)})
	require.NoError(t, err)
	_, err = store.Add(ctx, Event{Title: "earlier", Start: base})
	require.NoError(t, err)

	events, err := store.List(ctx, base.Add(-time.Hour), base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "earlier", events[0].Title)
	assert.Equal(t, "later", events[1].Title)
}

func TestAddValidation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Add(ctx, Event{Title: "  ", Start: time.Now()})
	require.Error(t, err)

	_, err = store.Add(ctx, Event{Title: "no start"})
	require.Error(t, err)

	start := time.Now()
	_, err = store.Add(ctx, Event{Title: "backwards", Start: start, End: start.Add(-time.Hour)})
	require.Error(t, err)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	ev, err := store.Add(ctx, Event{Title: "to remove", Start: start})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, ev.ID))
	events, err := store.List(ctx, start.Add(-time.Hour), start.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCalendarTools(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	add := AddEventTool(store)
	list := ListEventsTool(store)

	out, err := add.Call(ctx, map[string]any{
		"title": "Standup",
		"start": "2026-03-16 10:00",
	})
	require.NoError(t, err)
	assert.Contains(t, out.(string), "Standup")

	out, err = list.Call(ctx, map[string]any{
		"from":  "2026-03-16 00:00",
		"until": "2026-03-17 00:00",
	})
	require.NoError(t, err)
	assert.Contains(t, out.(string), "Standup")

	_, err = add.Call(ctx, map[string]any{
		"title": "Bad",
		"start": "not a time",
	})
	require.Error(t, err)
}
