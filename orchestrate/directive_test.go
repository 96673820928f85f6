package orchestrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	t.Run("CompletionMarker", func(t *testing.T) {
		d := ParseResponse("  <done>The answer is 42.</done>  ", "orig")
		done, ok := d.(Done)
		require.True(t, ok)
		assert.Equal(t, "The answer is 42.", done.Answer)
	})

	t.Run("MarkerCaseInsensitive", func(t *testing.T) {
		for _, resp := range []string{
			"<DONE>hi</DONE>",
			"<Done>hi</done>",
			"<done>hi</DoNe>",
		} {
			d := ParseResponse(resp, "orig")
			done, ok := d.(Done)
			require.True(t, ok, "response %q", resp)
			assert.Equal(t, "hi", done.Answer)
		}
	})

	t.Run("MarkerInnerTrimmed", func(t *testing.T) {
		d := ParseResponse("<done>\n  padded  \n</done>", "orig")
		done, ok := d.(Done)
		require.True(t, ok)
		assert.Equal(t, "padded", done.Answer)
	})

	t.Run("EmptyMarker", func(t *testing.T) {
		d := ParseResponse("<done></done>", "orig")
		done, ok := d.(Done)
		require.True(t, ok)
		assert.Equal(t, "", done.Answer)
	})

	t.Run("HalfWrapperIsNotMarker", func(t *testing.T) {
		for _, resp := range []string{
			"<done>missing close",
			"missing open</done>",
			"text <done>inner</done> text",
		} {
			d := ParseResponse(resp, "orig")
			_, ok := d.(Continue)
			assert.True(t, ok, "response %q", resp)
		}
	})

	t.Run("DelegationWithTask", func(t *testing.T) {
		d := ParseResponse("delegate_to: browser_agent\ntask: find X", "orig")
		del, ok := d.(Delegate)
		require.True(t, ok)
		assert.Equal(t, "browser_agent", del.Agent)
		assert.Equal(t, "find X", del.Task)
	})

	t.Run("DelegationKeywordsCaseInsensitive", func(t *testing.T) {
		d := ParseResponse("DELEGATE_TO: planner\nTASK: plan my day", "orig")
		del, ok := d.(Delegate)
		require.True(t, ok)
		assert.Equal(t, "planner", del.Agent)
		assert.Equal(t, "plan my day", del.Task)
	})

	t.Run("DelegationTaskFallsBackToUserInput", func(t *testing.T) {
		d := ParseResponse("delegate_to: browser_agent", "book a flight")
		del, ok := d.(Delegate)
		require.True(t, ok)
		assert.Equal(t, "book a flight", del.Task)

		// An empty task line also falls back.
		d = ParseResponse("delegate_to: browser_agent\ntask:   ", "book a flight")
		del, ok = d.(Delegate)
		require.True(t, ok)
		assert.Equal(t, "book a flight", del.Task)
	})

	t.Run("DirectiveOnlyOnFirstLine", func(t *testing.T) {
		d := ParseResponse("Consider this example:\ndelegate_to: browser_agent", "orig")
		_, ok := d.(Continue)
		assert.True(t, ok)
	})

	t.Run("EmptyAgentNameIsNotDirective", func(t *testing.T) {
		d := ParseResponse("delegate_to:   ", "orig")
		_, ok := d.(Continue)
		assert.True(t, ok)
	})

	t.Run("OrdinaryTextContinues", func(t *testing.T) {
		d := ParseResponse("  let me think about that  ", "orig")
		cont, ok := d.(Continue)
		require.True(t, ok)
		assert.Equal(t, "let me think about that", cont.Text)
	})
}
