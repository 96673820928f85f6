package completion

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooriai/noori/core"
	"github.com/nooriai/noori/model"
	"github.com/nooriai/noori/tool"
)

func TestModelServiceAsk(t *testing.T) {
	t.Run("PlainAnswer", func(t *testing.T) {
		m := model.NewMockModel("mock")
		m.Enqueue(model.Response{Text: "Paris", FinishReason: "stop"})

		svc := NewModelService(m)
		text, records, err := svc.Ask(context.Background(), "Capital of France?", nil)
		require.NoError(t, err)
		assert.Equal(t, "Paris", text)

		require.Len(t, records, 2)
		assert.Equal(t, core.RoleUser, records[0].Role)
		assert.Equal(t, "Capital of France?", records[0].Text)
		assert.Equal(t, core.RoleAssistant, records[1].Role)
		assert.Equal(t, "Paris", records[1].Text)
	})

	t.Run("ToolRound", func(t *testing.T) {
		echo := tool.NewFunctionTool("echo", "Echoes the input back.", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
			},
			"required": []string{"text"},
		}, func(_ context.Context, args map[string]any) (any, error) {
			return args["text"], nil
		})

		m := model.NewMockModel("mock")
		m.Enqueue(
			model.Response{
				ToolCalls: []model.ToolCall{{
					ID:        "call-1",
					Name:      "echo",
					Arguments: json.RawMessage(`{"text":"hello"}`),
				}},
				FinishReason: "tool_calls",
			},
			model.Response{Text: "The tool said hello.", FinishReason: "stop"},
		)

		svc := NewModelService(m, func(o *Options) {
			o.Tools = []tool.Tool{echo}
		})

		text, records, err := svc.Ask(context.Background(), "use the tool", nil)
		require.NoError(t, err)
		assert.Equal(t, "The tool said hello.", text)

		require.Len(t, records, 3)
		assert.Equal(t, core.RoleTool, records[1].Role)
		assert.Equal(t, "echo", records[1].ToolName)
		assert.Equal(t, "hello", records[1].Text)
		assert.Equal(t, core.RoleAssistant, records[2].Role)

		// The model must have seen the tool result on the second call.
		calls := m.Calls()
		require.Len(t, calls, 2)
		last := calls[1].Messages[len(calls[1].Messages)-1]
		assert.Equal(t, "tool", last.Role)
		assert.Equal(t, "call-1", last.ToolCallID)
	})

	t.Run("UnknownToolReportedToModel", func(t *testing.T) {
		m := model.NewMockModel("mock")
		m.Enqueue(
			model.Response{
				ToolCalls:    []model.ToolCall{{ID: "c1", Name: "missing", Arguments: json.RawMessage(`{}`)}},
				FinishReason: "tool_calls",
			},
			model.Response{Text: "recovered", FinishReason: "stop"},
		)

		svc := NewModelService(m)
		text, _, err := svc.Ask(context.Background(), "go", nil)
		require.NoError(t, err)
		assert.Equal(t, "recovered", text)

		calls := m.Calls()
		last := calls[1].Messages[len(calls[1].Messages)-1]
		assert.Contains(t, last.Text, "unknown tool")
	})

	t.Run("ModelErrorPropagates", func(t *testing.T) {
		m := model.NewMockModel("mock")
		m.FailWith(errors.New("rate limited"))

		svc := NewModelService(m)
		_, _, err := svc.Ask(context.Background(), "hi", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limited")
	})

	t.Run("HistoryReplayed", func(t *testing.T) {
		m := model.NewMockModel("mock")
		m.Enqueue(model.Response{Text: "ok", FinishReason: "stop"})

		svc := NewModelService(m)
		history := []core.Record{
			core.NewUserRecord("earlier question"),
			core.NewAssistantRecord("earlier answer"),
		}
		_, _, err := svc.Ask(context.Background(), "follow-up", history)
		require.NoError(t, err)

		calls := m.Calls()
		require.Len(t, calls, 1)
		require.Len(t, calls[0].Messages, 3)
		assert.Equal(t, "earlier question", calls[0].Messages[0].Text)
		assert.Equal(t, "assistant", calls[0].Messages[1].Role)
		assert.Equal(t, "follow-up", calls[0].Messages[2].Text)
	})
}

func TestScriptedService(t *testing.T) {
	svc := NewScriptedService().
		Respond("ping", "pong").
		Enqueue("first", "second")

	text, records, err := svc.Ask(context.Background(), "ping", nil)
	require.NoError(t, err)
	assert.Equal(t, "pong", text)
	require.Len(t, records, 2)

	text, _, err = svc.Ask(context.Background(), "anything", nil)
	require.NoError(t, err)
	assert.Equal(t, "first", text)

	text, _, err = svc.Ask(context.Background(), "else", nil)
	require.NoError(t, err)
	assert.Equal(t, "second", text)

	_, _, err = svc.Ask(context.Background(), "exhausted", nil)
	require.Error(t, err)

	assert.Equal(t, 4, svc.CallCount())
	assert.Equal(t, []string{"ping", "anything", "else", "exhausted"}, svc.Prompts())
}
