// Package planner implements the planning agent: given an objective it asks
// the model for an ordered step list, aware of every registered tool and
// agent capability but never invoking any of them. It is purely advisory.
package planner

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/nooriai/noori/completion"
	"github.com/nooriai/noori/core"
	"github.com/nooriai/noori/logging"
)

// AgentName is the registry key under which the planner is registered.
const AgentName = "planner"

// NoDocumentation is the capability description used for tools and agents
// that declare none.
const NoDocumentation = "No documentation available."

var stepPattern = regexp.MustCompile(`(?is)<step>(.*?)</step>`)

// Capability is one named, documented ability the plan may reference. The
// planner gathers these from the tool set and the agent registry at
// construction time.
type Capability struct {
	Name        string
	Description string
}

// Options configures a planner Agent.
type Options struct {
	// Description is the registry documentation for this agent.
	Description string

	// Capabilities lists the tools and agents the plan may build on.
	Capabilities []Capability

	// Logger receives structured diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Agent is the planner. It implements core.Handle.
type Agent struct {
	service completion.Service
	opts    Options
}

var _ core.Handle = (*Agent)(nil)

// New creates a planner backed by the given completion service.
func New(service completion.Service, optFns ...func(o *Options)) *Agent {
	opts := Options{
		Description: "Produces an ordered step-by-step plan for an objective. Never executes anything.",
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Agent{service: service, opts: opts}
}

// CapabilitiesFromRegistry converts registered agent handles into planner
// capabilities, applying the no-documentation fallback.
func CapabilitiesFromRegistry(registry *core.Registry) []Capability {
	docs := registry.Describe()
	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)

	caps := make([]Capability, 0, len(names))
	for _, name := range names {
		caps = append(caps, Capability{Name: name, Description: docs[name]})
	}
	return caps
}

// Name implements core.Handle.
func (a *Agent) Name() string { return AgentName }

// Description implements core.Handle.
func (a *Agent) Description() string { return a.opts.Description }

// RunTask implements core.Handle by planning the task and rendering the
// steps as a numbered list.
func (a *Agent) RunTask(ctx context.Context, task string) (string, error) {
	steps, err := a.Plan(ctx, task)
	if err != nil {
		return "", err
	}
	if len(steps) == 0 {
		return "No plan could be generated for this objective.", nil
	}

	var b strings.Builder
	b.WriteString("Plan:\n")
	for i, step := range steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// Plan asks the model for a step list toward the objective. Steps are
// extracted from <step>...</step> tags in document order; empty matches are
// discarded. An empty result means the model emitted no parseable steps.
func (a *Agent) Plan(ctx context.Context, objective string) ([]string, error) {
	prompt := a.buildPrompt(objective)

	text, _, err := a.service.Ask(ctx, prompt, nil)
	if err != nil {
		return nil, fmt.Errorf("planner: %w", err)
	}

	steps := ExtractSteps(text)
	a.opts.Logger.Debug("plan generated", "objective", objective, "steps", len(steps))
	return steps, nil
}

// ExtractSteps pulls trimmed, non-empty <step> contents out of model text,
// preserving document order. Tag matching is case-insensitive.
func ExtractSteps(text string) []string {
	matches := stepPattern.FindAllStringSubmatch(text, -1)
	steps := make([]string, 0, len(matches))
	for _, m := range matches {
		if step := strings.TrimSpace(m[1]); step != "" {
			steps = append(steps, step)
		}
	}
	return steps
}

// Infeasible reports whether a plan is the conventional failure signal:
// exactly one step whose lowercase form contains "unable". Callers must
// check this before treating a plan as executable.
func Infeasible(steps []string) bool {
	return len(steps) == 1 && strings.Contains(strings.ToLower(steps[0]), "unable")
}

func (a *Agent) buildPrompt(objective string) string {
	var b strings.Builder
	b.WriteString("You are a planning assistant. Break the objective below into an ordered sequence of concrete steps.\n")
	b.WriteString("Wrap every step in <step></step> tags. Use only the capabilities listed.\n")
	b.WriteString("If the objective cannot be achieved with these capabilities, emit exactly one step explaining that you are unable to plan it.\n\n")

	b.WriteString("Available capabilities:\n")
	if len(a.opts.Capabilities) == 0 {
		b.WriteString("- none registered\n")
	}
	for _, c := range a.opts.Capabilities {
		desc := c.Description
		if desc == "" {
			desc = NoDocumentation
		}
		fmt.Fprintf(&b, "- %s: %s\n", c.Name, desc)
	}

	b.WriteString("\nObjective: ")
	b.WriteString(objective)
	return b.String()
}
