package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text":  map[string]any{"type": "string"},
			"count": map[string]any{"type": "integer"},
		},
		"required": []string{"text"},
	}
}

func TestFunctionToolCall(t *testing.T) {
	echo := NewFunctionTool("echo", "Echo text back", echoSchema(),
		func(_ context.Context, args map[string]any) (any, error) {
			return args["text"], nil
		})

	result, err := echo.Call(context.Background(), map[string]any{"text": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", result)
}

func TestFunctionToolMissingRequired(t *testing.T) {
	echo := NewFunctionTool("echo", "Echo text back", echoSchema(),
		func(_ context.Context, args map[string]any) (any, error) {
			return args["text"], nil
		})

	_, err := echo.Call(context.Background(), map[string]any{})
	require.Error(t, err)

	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "VALIDATION_ERROR", te.Code)
}

func TestFunctionToolTypeMismatch(t *testing.T) {
	echo := NewFunctionTool("echo", "Echo text back", echoSchema(),
		func(_ context.Context, args map[string]any) (any, error) {
			return args["text"], nil
		})

	_, err := echo.Call(context.Background(), map[string]any{"text": "hi", "count": "three"})
	require.Error(t, err)

	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "VALIDATION_ERROR", te.Code)
}

func TestFunctionToolWrapsExecutionError(t *testing.T) {
	failing := NewFunctionTool("boom", "Always fails", echoSchema(),
		func(_ context.Context, _ map[string]any) (any, error) {
			return nil, errors.New("backend unavailable")
		})

	_, err := failing.Call(context.Background(), map[string]any{"text": "hi"})
	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "EXECUTION_ERROR", te.Code)
	assert.Contains(t, te.Message, "backend unavailable")
}

func TestFunctionToolPreservesToolError(t *testing.T) {
	failing := NewFunctionTool("boom", "Always fails", echoSchema(),
		func(_ context.Context, _ map[string]any) (any, error) {
			return nil, NewToolError("boom", "rate limited", "RATE_LIMITED")
		})

	_, err := failing.Call(context.Background(), map[string]any{"text": "hi"})
	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "RATE_LIMITED", te.Code)
}

// JSON round-tripped schemas carry []any required lists.
func TestFunctionToolJSONRequiredList(t *testing.T) {
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"q": map[string]any{"type": "string"}},
		"required":   []any{"q"},
	}
	tl := NewFunctionTool("search", "Search", schema,
		func(_ context.Context, args map[string]any) (any, error) { return args["q"], nil })

	_, err := tl.Call(context.Background(), map[string]any{})
	assert.Error(t, err)
}
