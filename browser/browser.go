// Package browser implements the browser task agent: it runs an autonomous
// multi-step browsing session for a free-form task and condenses the
// resulting trace into one text summary. Run failures never escape as
// errors; they are folded into the summary so the orchestration loop can
// always proceed to its synthesis call.
package browser

import (
	"context"
	"strings"

	"github.com/nooriai/noori/core"
	"github.com/nooriai/noori/logging"
)

// AgentName is the registry key under which the browser agent is registered.
const AgentName = "browser_agent"

const (
	apologySentence  = "Couldn't extract information from the browsing session."
	fallbackSentence = "No useful information could be extracted from the browsing session."
)

// Trace is the observable outcome of one browsing session.
type Trace struct {
	// ExtractedContent holds text snippets collected during the run, in
	// extraction order.
	ExtractedContent []string

	// Errors holds diagnostic messages for failed steps. A non-empty slice
	// does not make the run a failure.
	Errors []string

	// VisitedURLs records every page navigated to, for diagnostics.
	VisitedURLs []string
}

// TaskRunner executes one browsing session. Implementations may fail with
// an error only when no trace could be produced at all; partial failures
// belong in Trace.Errors.
type TaskRunner interface {
	RunSession(ctx context.Context, task string) (*Trace, error)
}

// Options configures a browser Agent.
type Options struct {
	// Description is the registry documentation for this agent.
	Description string

	// Logger receives structured diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Agent wraps a TaskRunner behind the core.Handle contract. RunTask always
// returns a string and a nil error.
type Agent struct {
	runner TaskRunner
	opts   Options
}

var _ core.Handle = (*Agent)(nil)

// New creates a browser agent around the given runner.
func New(runner TaskRunner, optFns ...func(o *Options)) *Agent {
	opts := Options{
		Description: "Performs autonomous web browsing for a task and returns a text summary of what it found.",
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Agent{runner: runner, opts: opts}
}

// Name implements core.Handle.
func (a *Agent) Name() string { return AgentName }

// Description implements core.Handle.
func (a *Agent) Description() string { return a.opts.Description }

// RunTask implements core.Handle. The summary composition, in priority
// order: extracted content joined by newlines; a fixed apology sentence
// appended whenever the trace carries errors; a fixed fallback sentence
// when there is neither content nor errors.
func (a *Agent) RunTask(ctx context.Context, task string) (string, error) {
	trace, err := a.runner.RunSession(ctx, task)
	if err != nil {
		a.opts.Logger.Error("browsing session failed", "task", task, "error", err)
		return apologySentence, nil
	}
	for _, msg := range trace.Errors {
		a.opts.Logger.Warn("browsing step failed", "task", task, "detail", msg)
	}
	return Summarize(trace), nil
}

// Summarize renders a trace as the agent's textual result.
func Summarize(trace *Trace) string {
	if trace == nil {
		return fallbackSentence
	}

	content := make([]string, 0, len(trace.ExtractedContent))
	for _, c := range trace.ExtractedContent {
		if c = strings.TrimSpace(c); c != "" {
			content = append(content, c)
		}
	}

	var parts []string
	if len(content) > 0 {
		parts = append(parts, strings.Join(content, "\n"))
	}
	if len(trace.Errors) > 0 {
		parts = append(parts, apologySentence)
	}
	if len(parts) == 0 {
		return fallbackSentence
	}
	return strings.Join(parts, "\n")
}
