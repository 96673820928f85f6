package orchestrate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nooriai/noori/completion"
	"github.com/nooriai/noori/core"
	"github.com/nooriai/noori/logging"
)

// DefaultMaxTurns bounds completion-service calls per invocation.
const DefaultMaxTurns = 10

// Status describes how an invocation terminated.
type Status string

const (
	// StatusDone means a completion marker ended the loop.
	StatusDone Status = "done"

	// StatusDelegated means a sub-agent handled the task and the answer is
	// the synthesis call's output, returned verbatim.
	StatusDelegated Status = "delegated"

	// StatusExhausted means the turn limit was reached and the answer is the
	// last raw response.
	StatusExhausted Status = "exhausted"
)

// Result is the detailed outcome of one invocation. Turns counts
// completion-service calls, including the delegation synthesis call.
type Result struct {
	Answer string
	Status Status
	Turns  int
}

// Options configures an Orchestrator.
type Options struct {
	// MaxTurns is the hard upper bound on completion-service calls per
	// invocation. Defaults to DefaultMaxTurns.
	MaxTurns int

	// Logger receives structured diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Orchestrator runs the bounded directive loop for one session. It holds no
// per-invocation state; the session's history carries everything between
// turns.
type Orchestrator struct {
	service  completion.Service
	registry *core.Registry
	history  *core.History
	opts     Options
}

// New creates an Orchestrator bound to one session's history. The registry
// is read-only from here on; assembly happens before construction.
func New(service completion.Service, registry *core.Registry, history *core.History, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		MaxTurns: DefaultMaxTurns,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxTurns < 1 {
		opts.MaxTurns = DefaultMaxTurns
	}
	return &Orchestrator{service: service, registry: registry, history: history, opts: opts}
}

// Run converts one user utterance into one final answer. Turn exhaustion is
// not an error; use RunDetailed to distinguish it from a marked answer.
func (o *Orchestrator) Run(ctx context.Context, userInput string) (string, error) {
	res, err := o.RunDetailed(ctx, userInput)
	if err != nil {
		return "", err
	}
	return res.Answer, nil
}

// RunDetailed is Run with an explicit termination status and turn count.
func (o *Orchestrator) RunDetailed(ctx context.Context, userInput string) (Result, error) {
	if userInput == "" {
		return Result{}, fmt.Errorf("orchestrate: empty user input")
	}

	prompt := userInput
	lastResponse := ""

	for turn := 1; turn <= o.opts.MaxTurns; turn++ {
		response, err := o.ask(ctx, prompt, turn)
		if err != nil {
			return Result{}, err
		}
		lastResponse = response

		switch d := ParseResponse(response, userInput).(type) {
		case Done:
			o.opts.Logger.Info("completion marker found", "turn", turn)
			return Result{Answer: d.Answer, Status: StatusDone, Turns: turn}, nil

		case Delegate:
			handle, ok := o.registry.Lookup(d.Agent)
			if !ok {
				// Unknown agent names are opaque text, not errors.
				o.opts.Logger.Debug("directive names unregistered agent", "agent", d.Agent)
				prompt = strings.TrimSpace(response)
				continue
			}
			return o.delegate(ctx, handle, d.Task, turn)

		case Continue:
			prompt = d.Text
		}
	}

	o.opts.Logger.Warn("turn limit reached", "max_turns", o.opts.MaxTurns)
	return Result{Answer: lastResponse, Status: StatusExhausted, Turns: o.opts.MaxTurns}, nil
}

// delegate runs the sub-agent and performs exactly one terminal synthesis
// call. The synthesis output is returned verbatim without re-entering the
// directive scan, so a literal wrapper in it survives to the caller.
func (o *Orchestrator) delegate(ctx context.Context, handle core.Handle, task string, turn int) (Result, error) {
	o.opts.Logger.Info("delegating task", "agent", handle.Name(), "turn", turn)

	start := time.Now()
	resultText, err := handle.RunTask(ctx, task)
	if err != nil {
		o.opts.Logger.Error("agent task failed", "agent", handle.Name(), "duration", time.Since(start), "error", err)
		return Result{}, fmt.Errorf("orchestrate: agent %q: %w", handle.Name(), err)
	}
	o.opts.Logger.Info("agent task completed", "agent", handle.Name(), "duration", time.Since(start))

	synthesis, err := o.ask(ctx, resultText, turn+1)
	if err != nil {
		return Result{}, err
	}
	return Result{Answer: synthesis, Status: StatusDelegated, Turns: turn + 1}, nil
}

// ask performs one completion-service call and appends its records.
func (o *Orchestrator) ask(ctx context.Context, prompt string, turn int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	o.opts.Logger.Debug("completion call", "turn", turn)

	response, records, err := o.service.Ask(ctx, prompt, o.history.Records())
	if err != nil {
		return "", fmt.Errorf("orchestrate: turn %d: %w", turn, err)
	}
	o.history.Append(records...)
	return response, nil
}
