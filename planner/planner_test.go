package planner

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooriai/noori/completion"
	"github.com/nooriai/noori/core"
)

func TestExtractSteps(t *testing.T) {
	t.Run("DocumentOrder", func(t *testing.T) {
		steps := ExtractSteps("<step>A</step><step>B</step>")
		assert.Equal(t, []string{"A", "B"}, steps)
	})

	t.Run("NoTags", func(t *testing.T) {
		assert.Empty(t, ExtractSteps("just prose, no tags"))
	})

	t.Run("TrimsAndDiscardsEmpty", func(t *testing.T) {
		steps := ExtractSteps("<step>  first  </step><step>   </step><step>second</step>")
		assert.Equal(t, []string{"first", "second"}, steps)
	})

	t.Run("CaseInsensitiveTags", func(t *testing.T) {
		steps := ExtractSteps("<STEP>upper</STEP><Step>mixed</step>")
		assert.Equal(t, []string{"upper", "mixed"}, steps)
	})

	t.Run("SurroundingProseIgnored", func(t *testing.T) {
		steps := ExtractSteps("Here is the plan:\n<step>go</step>\nThat is all.")
		assert.Equal(t, []string{"go"}, steps)
	})
}

func TestInfeasible(t *testing.T) {
	assert.True(t, Infeasible([]string{"Unable to generate a plan for this objective."}))
	assert.True(t, Infeasible([]string{"I am UNABLE to do this."}))
	assert.False(t, Infeasible([]string{"step one", "unable to continue"}))
	assert.False(t, Infeasible([]string{"check email"}))
	assert.False(t, Infeasible(nil))
}

func TestPlan(t *testing.T) {
	svc := completion.NewScriptedService().Enqueue("<step>Open calendar</step><step>Add event</step>")

	agent := New(svc, func(o *Options) {
		o.Capabilities = []Capability{
			{Name: "calendar_add_event", Description: "Adds an event to the calendar."},
			{Name: "mystery_tool"},
		}
	})

	steps, err := agent.Plan(context.Background(), "schedule a meeting")
	require.NoError(t, err)
	assert.Equal(t, []string{"Open calendar", "Add event"}, steps)

	// The prompt lists every capability and falls back for missing docs.
	prompts := svc.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "calendar_add_event: Adds an event to the calendar.")
	assert.Contains(t, prompts[0], "mystery_tool: "+NoDocumentation)
	assert.Contains(t, prompts[0], "Objective: schedule a meeting")
}

func TestRunTask(t *testing.T) {
	t.Run("NumberedList", func(t *testing.T) {
		svc := completion.NewScriptedService().Enqueue("<step>A</step><step>B</step>")
		agent := New(svc)

		out, err := agent.RunTask(context.Background(), "do things")
		require.NoError(t, err)
		assert.Equal(t, "Plan:\n1. A\n2. B", out)
	})

	t.Run("NoSteps", func(t *testing.T) {
		svc := completion.NewScriptedService().Enqueue("I have nothing to offer.")
		agent := New(svc)

		out, err := agent.RunTask(context.Background(), "do things")
		require.NoError(t, err)
		assert.True(t, strings.Contains(out, "No plan"))
	})
}

func TestCapabilitiesFromRegistry(t *testing.T) {
	registry, err := core.NewRegistry(
		&stubHandle{name: "zeta", desc: "last alphabetically"},
		&stubHandle{name: "alpha"},
	)
	require.NoError(t, err)

	caps := CapabilitiesFromRegistry(registry)
	require.Len(t, caps, 2)
	assert.Equal(t, "alpha", caps[0].Name)
	assert.Equal(t, NoDocumentation, caps[0].Description)
	assert.Equal(t, "zeta", caps[1].Name)
	assert.Equal(t, "last alphabetically", caps[1].Description)
}

type stubHandle struct {
	name string
	desc string
}

func (s *stubHandle) Name() string        { return s.name }
func (s *stubHandle) Description() string { return s.desc }

func (s *stubHandle) RunTask(context.Context, string) (string, error) {
	return "", nil
}
