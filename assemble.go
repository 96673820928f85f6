package noori

import (
	"fmt"
	"strings"

	"github.com/nooriai/noori/browser"
	"github.com/nooriai/noori/calendar"
	"github.com/nooriai/noori/completion"
	"github.com/nooriai/noori/config"
	"github.com/nooriai/noori/core"
	"github.com/nooriai/noori/email"
	"github.com/nooriai/noori/knowledge"
	"github.com/nooriai/noori/logging"
	"github.com/nooriai/noori/model"
	anthropicmodel "github.com/nooriai/noori/model/anthropic"
	openaimodel "github.com/nooriai/noori/model/openai"
	"github.com/nooriai/noori/planner"
	"github.com/nooriai/noori/tool"
	"github.com/nooriai/noori/transcribe"
)

// defaultInstructions is the system prompt used when the configuration
// supplies none. It teaches the model the delegation and completion
// protocols the orchestration loop polices.
const defaultInstructions = `You are Noori, a personal assistant. Use your tools when a task needs them.
When you have the final answer, wrap it as <done>your answer</done>.
To hand a task to a specialist agent, reply with exactly:
delegate_to: <agent_name>
task: <what the agent should do>
Available agents: planner (produces step-by-step plans), browser_agent (browses the web autonomously).`

// Runtime bundles everything NewFromConfig assembled, so callers can close
// resources when shutting down.
type Runtime struct {
	Assistant *Assistant
	Logger    *logging.AssistantLogger

	closers []func() error
}

// Close releases databases and network clients owned by the runtime.
func (r *Runtime) Close() error {
	var first error
	for _, fn := range r.closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NewFromConfig is the composition root: it builds the model, the tool set,
// the sub-agents and the registry from configuration and wires them into an
// Assistant. Capabilities with missing configuration are skipped, not
// errors; the assistant degrades to whatever is configured.
func NewFromConfig(cfg *config.Config) (*Runtime, error) {
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  parseLogLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
	})
	rt := &Runtime{Logger: logger}

	m, err := buildModel(cfg.Model)
	if err != nil {
		return nil, err
	}

	tools, err := buildTools(cfg, rt, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}

	instructions := cfg.Instructions
	if instructions == "" {
		instructions = defaultInstructions
	}
	service := completion.NewModelService(m, func(o *completion.Options) {
		o.Instructions = instructions
		o.Tools = tools
		o.Logger = logger.WithComponent("completion")
	})

	registry, err := buildRegistry(cfg, service, tools, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}

	assistant, err := New(service, func(o *Options) {
		o.Registry = registry
		o.MaxTurns = cfg.MaxTurns
		o.Logger = logger.WithComponent("orchestrator")
	})
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.Assistant = assistant
	return rt, nil
}

func buildModel(cfg config.ModelConfig) (model.Model, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			o.APIKey = cfg.APIKey
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
		}), nil
	case "anthropic":
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			o.APIKey = cfg.APIKey
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
		}), nil
	default:
		return nil, fmt.Errorf("noori: unknown model provider %q", cfg.Provider)
	}
}

func buildTools(cfg *config.Config, rt *Runtime, logger *logging.AssistantLogger) ([]tool.Tool, error) {
	var tools []tool.Tool

	knowledgeStore, err := knowledge.NewSQLiteStore(cfg.KnowledgePath())
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, knowledgeStore.Close)
	tools = append(tools, knowledge.SearchTool(knowledgeStore), knowledge.UpsertTool(knowledgeStore))

	calendarStore, err := calendar.NewStore(cfg.CalendarPath())
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, calendarStore.Close)
	tools = append(tools, calendar.AddEventTool(calendarStore), calendar.ListEventsTool(calendarStore))

	if cfg.IMAP.Configured() {
		client := email.NewClient(cfg.IMAP, logger.WithComponent("email"))
		rt.closers = append(rt.closers, client.Close)
		tools = append(tools, email.ListUnreadTool(client), email.MarkReadTool(client))
	}
	if cfg.SMTP.Configured() {
		tools = append(tools, email.SendTool(cfg.SMTP))
	}
	if cfg.WhisperURL != "" {
		tr := transcribe.New(cfg.WhisperURL, func(o *transcribe.Options) {
			o.Logger = logger.WithComponent("transcribe")
		})
		tools = append(tools, transcribe.Tool(tr))
	}
	return tools, nil
}

func buildRegistry(cfg *config.Config, service completion.Service, tools []tool.Tool, logger *logging.AssistantLogger) (*core.Registry, error) {
	var handles []core.Handle
	capabilities := make([]planner.Capability, 0, len(tools)+1)
	for _, t := range tools {
		capabilities = append(capabilities, planner.Capability{Name: t.Name(), Description: t.Description()})
	}

	if cfg.Browser.Enabled {
		runner := browser.NewRodRunner(service, func(o *browser.RodOptions) {
			o.Headless = cfg.Browser.Headless
			o.DebuggerURL = cfg.Browser.DebuggerURL
			o.Logger = logger.WithComponent("browser")
		})
		browserAgent := browser.New(runner, func(o *browser.Options) {
			o.Logger = logger.WithComponent("browser")
		})
		handles = append(handles, browserAgent)
		capabilities = append(capabilities, planner.Capability{
			Name:        browserAgent.Name(),
			Description: browserAgent.Description(),
		})
	}

	handles = append(handles, planner.New(service, func(o *planner.Options) {
		o.Capabilities = capabilities
		o.Logger = logger.WithComponent("planner")
	}))

	return core.NewRegistry(handles...)
}

func parseLogLevel(s string) logging.LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return logging.LogLevelDebug
	case "warn", "warning":
		return logging.LogLevelWarn
	case "error":
		return logging.LogLevelError
	default:
		return logging.LogLevelInfo
	}
}
