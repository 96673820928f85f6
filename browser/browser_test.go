package browser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	trace *Trace
	err   error
	tasks []string
}

func (s *stubRunner) RunSession(_ context.Context, task string) (*Trace, error) {
	s.tasks = append(s.tasks, task)
	return s.trace, s.err
}

func TestSummarize(t *testing.T) {
	t.Run("JoinsContent", func(t *testing.T) {
		out := Summarize(&Trace{ExtractedContent: []string{"first page", "second page"}})
		assert.Equal(t, "first page\nsecond page", out)
	})

	t.Run("ApologyAppendedOnErrors", func(t *testing.T) {
		out := Summarize(&Trace{
			ExtractedContent: []string{"partial content"},
			Errors:           []string{"timeout on page 2"},
		})
		assert.Equal(t, "partial content\n"+apologySentence, out)
	})

	t.Run("ErrorsOnly", func(t *testing.T) {
		out := Summarize(&Trace{Errors: []string{"everything failed"}})
		assert.Equal(t, apologySentence, out)
	})

	t.Run("EmptyTraceFallback", func(t *testing.T) {
		assert.Equal(t, fallbackSentence, Summarize(&Trace{}))
		assert.Equal(t, fallbackSentence, Summarize(nil))
	})

	t.Run("BlankContentDiscarded", func(t *testing.T) {
		out := Summarize(&Trace{ExtractedContent: []string{"  ", "real"}})
		assert.Equal(t, "real", out)
	})
}

func TestAgentRunTask(t *testing.T) {
	t.Run("NeverErrors", func(t *testing.T) {
		agent := New(&stubRunner{err: errors.New("chrome missing")})
		out, err := agent.RunTask(context.Background(), "find X")
		require.NoError(t, err)
		assert.Equal(t, apologySentence, out)
	})

	t.Run("TotalFailureFallback", func(t *testing.T) {
		agent := New(&stubRunner{trace: &Trace{}})
		out, err := agent.RunTask(context.Background(), "find X")
		require.NoError(t, err)
		assert.Equal(t, fallbackSentence, out)
	})

	t.Run("PassesTaskThrough", func(t *testing.T) {
		runner := &stubRunner{trace: &Trace{ExtractedContent: []string{"found it"}}}
		agent := New(runner)
		out, err := agent.RunTask(context.Background(), "find X")
		require.NoError(t, err)
		assert.Equal(t, "found it", out)
		assert.Equal(t, []string{"find X"}, runner.tasks)
	})
}

func TestAgentIdentity(t *testing.T) {
	agent := New(&stubRunner{trace: &Trace{}})
	assert.Equal(t, AgentName, agent.Name())
	assert.NotEmpty(t, agent.Description())
}
