// Package noori provides a high-level façade over the orchestration loop
// and its collaborators (completion service, agent registry, session
// histories and logging) enabling rapid construction of a personal
// assistant. Most applications interact with this package by:
//  1. Creating an Assistant via New() (optionally overriding the defaults)
//  2. Calling Run() with a session id and a user utterance
//
// The façade delegates control flow to orchestrate.Orchestrator while
// keeping setup ergonomics concise. All defaults are safe for local
// development and testing; production deployments supply a real completion
// service, registered agents and a structured logger.
package noori

import (
	"context"
	"fmt"

	"github.com/nooriai/noori/completion"
	"github.com/nooriai/noori/core"
	"github.com/nooriai/noori/logging"
	"github.com/nooriai/noori/orchestrate"
	"github.com/nooriai/noori/session"
)

// Options configures the Assistant.
type Options struct {
	// Registry holds the delegation targets. Defaults to an empty registry.
	Registry *core.Registry

	// HistoryStore provides per-session conversation histories. Defaults
	// to an in-memory store.
	HistoryStore core.HistoryStore

	// MaxTurns bounds completion-service calls per utterance.
	MaxTurns int

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Assistant is the high-level façade aggregating the completion service,
// agent registry and session store behind one entry point.
type Assistant struct {
	service completion.Service
	opts    Options
}

// New creates an Assistant around a completion service with optional
// overrides. Any unset collaborator is initialized with an in-memory or
// no-op implementation.
func New(service completion.Service, optFns ...func(o *Options)) (*Assistant, error) {
	emptyRegistry, err := core.NewRegistry()
	if err != nil {
		return nil, err
	}

	opts := Options{
		Registry:     emptyRegistry,
		HistoryStore: session.NewInMemoryStore(),
		MaxTurns:     orchestrate.DefaultMaxTurns,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if service == nil {
		return nil, fmt.Errorf("noori: nil completion service")
	}
	return &Assistant{service: service, opts: opts}, nil
}

// Run converts one user utterance into one final answer within the given
// session. Sessions are created on first use and keep their history across
// calls.
func (a *Assistant) Run(ctx context.Context, sessionID, input string) (string, error) {
	res, err := a.RunDetailed(ctx, sessionID, input)
	if err != nil {
		return "", err
	}
	return res.Answer, nil
}

// RunDetailed is Run with an explicit termination status and turn count.
func (a *Assistant) RunDetailed(ctx context.Context, sessionID, input string) (orchestrate.Result, error) {
	history, err := a.opts.HistoryStore.Get(sessionID)
	if err != nil {
		return orchestrate.Result{}, fmt.Errorf("noori: load session %q: %w", sessionID, err)
	}

	orc := orchestrate.New(a.service, a.opts.Registry, history, func(o *orchestrate.Options) {
		o.MaxTurns = a.opts.MaxTurns
		o.Logger = a.opts.Logger
	})
	return orc.RunDetailed(ctx, input)
}

// Registry exposes the delegation targets, e.g. for capability listings.
func (a *Assistant) Registry() *core.Registry { return a.opts.Registry }
