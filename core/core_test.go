package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandle struct {
	name string
	desc string
}

func (s stubHandle) Name() string        { return s.name }
func (s stubHandle) Description() string { return s.desc }
func (s stubHandle) RunTask(_ context.Context, task string) (string, error) {
	return "ran: " + task, nil
}

func TestNewRecord(t *testing.T) {
	r := NewUserRecord("hello")
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, RoleUser, r.Role)
	assert.Equal(t, "hello", r.Text)
	assert.False(t, r.Timestamp.IsZero())

	tr := NewToolRecord("email_read", "2 unread")
	assert.Equal(t, RoleTool, tr.Role)
	assert.Equal(t, "email_read", tr.ToolName)
}

func TestHistoryAppendOrder(t *testing.T) {
	h := NewHistory("s1")
	h.Append(NewUserRecord("a"))
	h.Append(NewAssistantRecord("b"), NewToolRecord("t", "c"))

	records := h.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "a", records[0].Text)
	assert.Equal(t, "b", records[1].Text)
	assert.Equal(t, "c", records[2].Text)
}

func TestHistoryRecordsIsCopy(t *testing.T) {
	h := NewHistory("s1")
	h.Append(NewUserRecord("original"))

	records := h.Records()
	records[0].Text = "mutated"

	assert.Equal(t, "original", h.Records()[0].Text)
}

func TestRegistryLookup(t *testing.T) {
	reg, err := NewRegistry(
		stubHandle{name: "browser_agent", desc: "browses"},
		stubHandle{name: "planner_agent"},
	)
	require.NoError(t, err)

	h, ok := reg.Lookup("browser_agent")
	require.True(t, ok)
	assert.Equal(t, "browser_agent", h.Name())

	_, ok = reg.Lookup("nope")
	assert.False(t, ok)

	assert.Equal(t, []string{"browser_agent", "planner_agent"}, reg.Names())
}

func TestRegistryDescribeFallback(t *testing.T) {
	reg, err := NewRegistry(stubHandle{name: "planner_agent"})
	require.NoError(t, err)

	docs := reg.Describe()
	assert.Equal(t, "No documentation available.", docs["planner_agent"])
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(stubHandle{name: "a"}, stubHandle{name: "a"})
	assert.Error(t, err)
}

func TestRegistryRejectsEmptyName(t *testing.T) {
	_, err := NewRegistry(stubHandle{})
	assert.Error(t, err)
}
