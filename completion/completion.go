// Package completion implements the completion-service contract consumed by
// the orchestration loop: ask(prompt, history) -> (text, new records). The
// ModelService implementation drives a model.Model and transparently
// executes any tool calls the model requests before returning its final
// text; the orchestrator never sees tool execution, only the resulting
// exchange records.
package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nooriai/noori/core"
	"github.com/nooriai/noori/logging"
	"github.com/nooriai/noori/model"
	"github.com/nooriai/noori/tool"
)

// Service is the completion-service capability. Ask sends prompt with the
// full replayed history and returns the model's final text plus every
// exchange record produced along the way (the user prompt, intermediate
// tool results, and the final assistant output) in append order.
type Service interface {
	Ask(ctx context.Context, prompt string, history []core.Record) (string, []core.Record, error)
}

// Options configures a ModelService.
type Options struct {
	// Instructions is the system prompt sent with every request.
	Instructions string

	// Tools are the callable capabilities exposed to the model. Registered
	// at assembly time; never mutated afterwards.
	Tools []tool.Tool

	// MaxToolRounds bounds how many consecutive tool-call rounds one Ask
	// may perform before the service gives up and asks the model to answer
	// without further tool use.
	MaxToolRounds int

	// Logger receives structured diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// ModelService is the production Service implementation backed by a
// model.Model.
type ModelService struct {
	model model.Model
	tools map[string]tool.Tool
	defs  []model.ToolDefinition
	opts  Options
}

// NewModelService wraps a model with tool execution and history replay.
func NewModelService(m model.Model, optFns ...func(o *Options)) *ModelService {
	opts := Options{
		MaxToolRounds: 8,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	tools := make(map[string]tool.Tool, len(opts.Tools))
	defs := make([]model.ToolDefinition, 0, len(opts.Tools))
	for _, t := range opts.Tools {
		tools[t.Name()] = t
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return &ModelService{model: m, tools: tools, defs: defs, opts: opts}
}

// Ask implements Service. History is replayed verbatim; new records are
// returned in the order they must be appended.
func (s *ModelService) Ask(ctx context.Context, prompt string, history []core.Record) (string, []core.Record, error) {
	messages := make([]model.Message, 0, len(history)+1)
	for _, rec := range history {
		messages = append(messages, recordToMessage(rec))
	}
	messages = append(messages, model.Message{Role: "user", Text: prompt})

	newRecords := []core.Record{core.NewUserRecord(prompt)}

	for round := 0; ; round++ {
		start := time.Now()
		resp, err := s.model.Complete(ctx, model.Request{
			Instructions: s.opts.Instructions,
			Messages:     messages,
			Tools:        s.defs,
		})
		if err != nil {
			s.opts.Logger.Error("completion call failed", "error", err, "round", round)
			return "", nil, fmt.Errorf("completion: %w", err)
		}
		s.opts.Logger.Debug("completion call succeeded",
			"round", round, "duration", time.Since(start), "tool_calls", len(resp.ToolCalls))

		if len(resp.ToolCalls) == 0 || round >= s.opts.MaxToolRounds {
			newRecords = append(newRecords, core.NewAssistantRecord(resp.Text))
			return resp.Text, newRecords, nil
		}

		// Tool round: execute every requested call, feed results back and
		// ask again. Failures become result text so the model can react.
		messages = append(messages, model.Message{
			Role:      "assistant",
			Text:      resp.Text,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			resultText := s.executeToolCall(ctx, call)
			messages = append(messages, model.Message{
				Role:       "tool",
				Text:       resultText,
				ToolCallID: call.ID,
				ToolName:   call.Name,
			})
			newRecords = append(newRecords, core.NewToolRecord(call.Name, resultText))
		}
	}
}

// executeToolCall dispatches one tool call and renders its outcome as text.
// Unknown tools and execution failures are reported to the model rather
// than aborting the Ask.
func (s *ModelService) executeToolCall(ctx context.Context, call model.ToolCall) string {
	t, ok := s.tools[call.Name]
	if !ok {
		s.opts.Logger.Warn("model requested unknown tool", "tool", call.Name)
		return fmt.Sprintf("error: unknown tool %q", call.Name)
	}

	args := map[string]any{}
	if len(call.Arguments) > 0 {
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return fmt.Sprintf("error: invalid tool arguments: %v", err)
		}
	}

	start := time.Now()
	result, err := t.Call(ctx, args)
	s.opts.Logger.Debug("tool executed", "tool", call.Name, "duration", time.Since(start), "success", err == nil)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return renderToolResult(result)
}

// renderToolResult converts an arbitrary tool return value into text the
// model can consume.
func renderToolResult(result any) string {
	switch v := result.(type) {
	case nil:
		return "ok"
	case string:
		return v
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(raw)
	}
}

// recordToMessage maps an exchange record to its provider-neutral message.
func recordToMessage(rec core.Record) model.Message {
	switch rec.Role {
	case core.RoleAssistant:
		return model.Message{Role: "assistant", Text: rec.Text}
	case core.RoleTool:
		// Replayed tool results lose their call IDs; present them as user
		// context so providers accept the history shape.
		return model.Message{Role: "user", Text: fmt.Sprintf("[%s result] %s", rec.ToolName, rec.Text)}
	default:
		return model.Message{Role: "user", Text: rec.Text}
	}
}
