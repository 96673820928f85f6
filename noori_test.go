package noori

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooriai/noori/completion"
	"github.com/nooriai/noori/orchestrate"
)

func TestAssistantRun(t *testing.T) {
	svc := completion.NewScriptedService().
		Respond("hello", "<done>Hi there.</done>")

	assistant, err := New(svc)
	require.NoError(t, err)

	answer, err := assistant.Run(context.Background(), "chat-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there.", answer)
}

func TestAssistantSessionsAreIsolated(t *testing.T) {
	svc := completion.NewScriptedService().Enqueue(
		"<done>first</done>",
		"<done>second</done>",
	)

	assistant, err := New(svc)
	require.NoError(t, err)

	_, err = assistant.Run(context.Background(), "alice", "q1")
	require.NoError(t, err)
	_, err = assistant.Run(context.Background(), "bob", "q2")
	require.NoError(t, err)

	aliceHist, err := assistant.opts.HistoryStore.Get("alice")
	require.NoError(t, err)
	bobHist, err := assistant.opts.HistoryStore.Get("bob")
	require.NoError(t, err)
	assert.Equal(t, 2, aliceHist.Len())
	assert.Equal(t, 2, bobHist.Len())
}

func TestAssistantHistoryPersistsAcrossCalls(t *testing.T) {
	svc := completion.NewScriptedService().Enqueue(
		"<done>one</done>",
		"<done>two</done>",
	)

	assistant, err := New(svc)
	require.NoError(t, err)

	_, err = assistant.Run(context.Background(), "chat", "first question")
	require.NoError(t, err)
	_, err = assistant.Run(context.Background(), "chat", "second question")
	require.NoError(t, err)

	hist, err := assistant.opts.HistoryStore.Get("chat")
	require.NoError(t, err)
	assert.Equal(t, 4, hist.Len())
}

func TestAssistantRunDetailedStatus(t *testing.T) {
	svc := completion.NewScriptedService().Enqueue("plain text", "more text", "even more")

	assistant, err := New(svc, func(o *Options) {
		o.MaxTurns = 3
	})
	require.NoError(t, err)

	res, err := assistant.RunDetailed(context.Background(), "chat", "q")
	require.NoError(t, err)
	assert.Equal(t, orchestrate.StatusExhausted, res.Status)
	assert.Equal(t, "even more", res.Answer)
}

func TestNewRejectsNilService(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}
