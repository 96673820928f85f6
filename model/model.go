// Package model defines the provider-neutral language-model contract the
// completion service is built on, plus a deterministic MockModel for tests
// and examples. Vendor adapters live in the openai and anthropic
// subpackages.
package model

import (
	"context"
	"encoding/json"
	"fmt"
)

// ToolCall is a function invocation request surfaced by a model provider,
// unified across vendors so the completion service needs no per-provider
// branching.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"` // JSON argument payload
}

// ToolDefinition declaratively exposes a callable function to the model.
// Parameters is a minimal JSON Schema object.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Message is one provider-neutral conversation message.
//
// Exactly one flavor applies per message:
//   - plain text (user/assistant): Text set, ToolCalls/ToolCallID empty
//   - assistant tool request: ToolCalls set
//   - tool result: Role "tool", ToolCallID + Text set
type Message struct {
	Role       string     `json:"role"` // user, assistant, tool
	Text       string     `json:"text,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolName   string     `json:"tool_name,omitempty"`
}

// Request captures the normalized model input produced by the completion
// service.
type Request struct {
	Instructions string           `json:"instructions"` // system prompt
	Messages     []Message        `json:"messages"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// TokenUsage captures token accounting for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the final output of one model call. Text and ToolCalls may
// both be present when a provider emits commentary alongside tool requests.
type Response struct {
	Text         string      `json:"text"`
	ToolCalls    []ToolCall  `json:"tool_calls,omitempty"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", "tool_calls", ...
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", ...
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required to drive generation. Complete is
// synchronous and exactly-once: it blocks until the provider returns a full
// response or fails.
type Model interface {
	Complete(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Responses can be keyed by exact prompt text or queued in FIFO order;
// queued responses take precedence.
type MockModel struct {
	info      Info
	responses map[string]Response
	queue     []Response
	calls     []Request
	err       error
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock", SupportsTools: true},
		responses: make(map[string]Response),
	}
}

// AddResponse registers a canned text completion for an exact input prompt.
func (m *MockModel) AddResponse(prompt, text string) {
	m.responses[prompt] = Response{Text: text, FinishReason: "stop"}
}

// Enqueue appends responses returned in order regardless of the prompt.
func (m *MockModel) Enqueue(responses ...Response) {
	m.queue = append(m.queue, responses...)
}

// FailWith makes every subsequent Complete call return err.
func (m *MockModel) FailWith(err error) { m.err = err }

// Calls returns every request seen so far, in order.
func (m *MockModel) Calls() []Request { return m.calls }

// Complete implements Model.
func (m *MockModel) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	m.calls = append(m.calls, req)

	if len(m.queue) > 0 {
		resp := m.queue[0]
		m.queue = m.queue[1:]
		return &resp, nil
	}

	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("mock model: no messages provided")
	}
	last := req.Messages[len(req.Messages)-1]
	if resp, ok := m.responses[last.Text]; ok {
		return &resp, nil
	}
	return &Response{Text: "Mock response to: " + last.Text, FinishReason: "stop"}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
