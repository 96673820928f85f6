package completion

import (
	"context"
	"fmt"
	"sync"

	"github.com/nooriai/noori/core"
)

// ScriptedService is a deterministic Service for tests and examples. It
// returns canned responses either keyed by prompt or in enqueue order.
type ScriptedService struct {
	mu        sync.Mutex
	byPrompt  map[string]string
	queue     []string
	asked     []string
	callCount int
}

// NewScriptedService creates an empty scripted service.
func NewScriptedService() *ScriptedService {
	return &ScriptedService{byPrompt: make(map[string]string)}
}

// Respond registers a canned response for an exact prompt.
func (s *ScriptedService) Respond(prompt, response string) *ScriptedService {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byPrompt[prompt] = response
	return s
}

// Enqueue appends responses returned in order when no prompt match exists.
func (s *ScriptedService) Enqueue(responses ...string) *ScriptedService {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, responses...)
	return s
}

// Ask implements Service.
func (s *ScriptedService) Ask(_ context.Context, prompt string, _ []core.Record) (string, []core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.asked = append(s.asked, prompt)
	s.callCount++

	if resp, ok := s.byPrompt[prompt]; ok {
		return resp, s.exchange(prompt, resp), nil
	}
	if len(s.queue) > 0 {
		resp := s.queue[0]
		s.queue = s.queue[1:]
		return resp, s.exchange(prompt, resp), nil
	}
	return "", nil, fmt.Errorf("scripted service: no response for prompt %q", prompt)
}

// Prompts returns every prompt asked so far, in order.
func (s *ScriptedService) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.asked))
	copy(out, s.asked)
	return out
}

// CallCount returns how many times Ask was invoked.
func (s *ScriptedService) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callCount
}

func (s *ScriptedService) exchange(prompt, response string) []core.Record {
	return []core.Record{
		core.NewUserRecord(prompt),
		core.NewAssistantRecord(response),
	}
}
