package core

import "context"

// Handle is the uniform capability exposed by any sub-agent: run a task
// description, return a text summary. Implementations (planner, browser)
// own their internal state but expose only this surface to the
// orchestration loop.
//
// RunTask may perform arbitrarily long-running, side-effecting work; it
// must respect ctx cancellation at every blocking step. Implementations
// that can fold their failures into useful text (e.g. a browsing agent
// reporting a partial trace) should do so and return a nil error; a
// returned error is treated like a completion-service transport failure
// and aborts the invocation.
type Handle interface {
	// Name is the identifier the delegation directive refers to.
	Name() string

	// Description is a human-readable capability summary shown to the
	// planner when it enumerates what the system can do.
	Description() string

	// RunTask executes the task and returns a text summary.
	RunTask(ctx context.Context, task string) (string, error)
}
