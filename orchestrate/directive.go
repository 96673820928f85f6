// Package orchestrate implements the bounded conversational loop that turns
// one user utterance into one final answer. The model's plain-text output is
// scanned for two textual protocols: a completion marker wrapping the final
// answer and a delegation directive handing a sub-task to a registered
// agent. Everything else is treated as an intermediate reasoning step and
// fed back as the next prompt.
package orchestrate

import (
	"strings"
)

const (
	doneOpenTag  = "<done>"
	doneCloseTag = "</done>"

	delegateKeyword = "delegate_to:"
	taskKeyword     = "task:"
)

// Directive is the parsed interpretation of one model response. It is a
// closed union: Done, Delegate and Continue are the only implementations.
type Directive interface {
	isDirective()
}

// Done carries the unwrapped final answer extracted from a completion
// marker.
type Done struct {
	Answer string
}

// Delegate names a sub-agent and the task description to hand it.
type Delegate struct {
	Agent string
	Task  string
}

// Continue wraps a response that matched neither grammar; its text becomes
// the next prompt.
type Continue struct {
	Text string
}

func (Done) isDirective()     {}
func (Delegate) isDirective() {}
func (Continue) isDirective() {}

// ParseResponse classifies a raw model response. fallbackTask is the
// original user input for this invocation; it becomes the delegated task
// when the directive omits its own task line.
//
// Grammar rules:
//   - Completion marker: after trimming, the response starts with <done>
//     and ends with </done>, both case-insensitive. The fixed-length tags
//     are stripped from both ends and the remainder trimmed. A wrapper
//     present at only one end is not a marker.
//   - Delegation: only the first line is inspected. It must begin with
//     "delegate_to:" (case-insensitive); the agent name is the trimmed text
//     after the colon. An optional second line beginning with "task:"
//     supplies the task; when absent or empty the fallback is used.
//     Directive text appearing later in the body is ordinary text.
func ParseResponse(response, fallbackTask string) Directive {
	trimmed := strings.TrimSpace(response)

	if answer, ok := parseMarker(trimmed); ok {
		return Done{Answer: answer}
	}
	if agent, task, ok := parseDelegation(trimmed, fallbackTask); ok {
		return Delegate{Agent: agent, Task: task}
	}
	return Continue{Text: trimmed}
}

func parseMarker(trimmed string) (string, bool) {
	if len(trimmed) < len(doneOpenTag)+len(doneCloseTag) {
		return "", false
	}
	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, doneOpenTag) || !strings.HasSuffix(lower, doneCloseTag) {
		return "", false
	}
	inner := trimmed[len(doneOpenTag) : len(trimmed)-len(doneCloseTag)]
	return strings.TrimSpace(inner), true
}

func parseDelegation(trimmed, fallbackTask string) (agent, task string, ok bool) {
	firstLine, rest, _ := strings.Cut(trimmed, "\n")
	firstLine = strings.TrimSpace(firstLine)
	if len(firstLine) < len(delegateKeyword) {
		return "", "", false
	}
	if !strings.EqualFold(firstLine[:len(delegateKeyword)], delegateKeyword) {
		return "", "", false
	}
	agent = strings.TrimSpace(firstLine[len(delegateKeyword):])
	if agent == "" {
		return "", "", false
	}

	task = fallbackTask
	secondLine, _, _ := strings.Cut(rest, "\n")
	secondLine = strings.TrimSpace(secondLine)
	if len(secondLine) >= len(taskKeyword) && strings.EqualFold(secondLine[:len(taskKeyword)], taskKeyword) {
		if t := strings.TrimSpace(secondLine[len(taskKeyword):]); t != "" {
			task = t
		}
	}
	return agent, task, true
}
