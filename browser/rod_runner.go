package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/nooriai/noori/completion"
	"github.com/nooriai/noori/logging"
)

// RodOptions configures a RodRunner.
type RodOptions struct {
	// Headless controls whether the launched browser shows a window.
	Headless bool

	// DebuggerURL attaches to an already running browser instead of
	// launching one.
	DebuggerURL string

	// MaxSteps bounds the model-guided action loop per session.
	MaxSteps int

	// NavigationTimeout bounds each page load.
	NavigationTimeout time.Duration

	// MaxExtractChars truncates each extracted page text.
	MaxExtractChars int

	// Logger receives structured diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// RodRunner drives a Chromium instance through go-rod, letting the
// completion service choose the next action each step. The action protocol
// mirrors the delegation grammar: one keyword-prefixed line per reply.
//
//	navigate: <url>   load a page
//	extract           capture the current page's visible text
//	finish            end the session
type RodRunner struct {
	service completion.Service
	opts    RodOptions
}

var _ TaskRunner = (*RodRunner)(nil)

// NewRodRunner creates a runner backed by the given completion service for
// action selection.
func NewRodRunner(service completion.Service, optFns ...func(o *RodOptions)) *RodRunner {
	opts := RodOptions{
		Headless:          true,
		MaxSteps:          12,
		NavigationTimeout: 30 * time.Second,
		MaxExtractChars:   4000,
		Logger:            logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &RodRunner{service: service, opts: opts}
}

// RunSession implements TaskRunner. Step failures are collected in the
// trace; an error is returned only when the browser itself cannot start.
func (r *RodRunner) RunSession(ctx context.Context, task string) (*Trace, error) {
	browser, cleanup, err := r.connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("browser: %w", err)
	}
	defer cleanup()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("browser: open page: %w", err)
	}
	defer page.Close()

	trace := &Trace{}
	observation := "No page loaded yet."

	for step := 0; step < r.opts.MaxSteps; step++ {
		action, err := r.nextAction(ctx, task, trace, observation)
		if err != nil {
			trace.Errors = append(trace.Errors, fmt.Sprintf("action selection failed: %v", err))
			break
		}
		r.opts.Logger.Debug("browser action", "step", step, "action", action)

		verb, arg, _ := strings.Cut(action, ":")
		switch strings.ToLower(strings.TrimSpace(verb)) {
		case "navigate":
			url := strings.TrimSpace(arg)
			if url == "" {
				trace.Errors = append(trace.Errors, "navigate action without a URL")
				observation = "Navigation failed: no URL given."
				continue
			}
			if err := page.Context(ctx).Timeout(r.opts.NavigationTimeout).Navigate(url); err != nil {
				trace.Errors = append(trace.Errors, fmt.Sprintf("navigate %s: %v", url, err))
				observation = fmt.Sprintf("Navigation to %s failed.", url)
				continue
			}
			if err := page.Context(ctx).Timeout(r.opts.NavigationTimeout).WaitLoad(); err != nil {
				trace.Errors = append(trace.Errors, fmt.Sprintf("wait load %s: %v", url, err))
			}
			trace.VisitedURLs = append(trace.VisitedURLs, url)
			observation = fmt.Sprintf("Loaded %s.", url)

		case "extract":
			text, err := r.extractText(ctx, page)
			if err != nil {
				trace.Errors = append(trace.Errors, fmt.Sprintf("extract: %v", err))
				observation = "Extraction failed."
				continue
			}
			trace.ExtractedContent = append(trace.ExtractedContent, text)
			observation = "Extracted page content."

		case "finish":
			return trace, nil

		default:
			trace.Errors = append(trace.Errors, fmt.Sprintf("unrecognized action %q", action))
			observation = "That action was not understood. Use navigate:, extract or finish."
		}
	}
	return trace, nil
}

func (r *RodRunner) connect(ctx context.Context) (*rod.Browser, func(), error) {
	controlURL := r.opts.DebuggerURL
	if controlURL == "" {
		url, err := launcher.New().Headless(r.opts.Headless).Launch()
		if err != nil {
			return nil, nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, nil, fmt.Errorf("connect to chrome: %w", err)
	}
	return browser, func() { _ = browser.Close() }, nil
}

func (r *RodRunner) extractText(ctx context.Context, page *rod.Page) (string, error) {
	result, err := page.Context(ctx).Eval(`() => document.body ? document.body.innerText : ""`)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(result.Value.Str())
	if r.opts.MaxExtractChars > 0 && len(text) > r.opts.MaxExtractChars {
		text = text[:r.opts.MaxExtractChars]
	}
	return text, nil
}

// nextAction asks the completion service for one protocol line describing
// the next browsing step.
func (r *RodRunner) nextAction(ctx context.Context, task string, trace *Trace, observation string) (string, error) {
	var b strings.Builder
	b.WriteString("You are controlling a web browser to complete a task. Reply with exactly one action line:\n")
	b.WriteString("navigate: <url>\nextract\nfinish\n\n")
	fmt.Fprintf(&b, "Task: %s\n", task)
	fmt.Fprintf(&b, "Pages visited so far: %d\n", len(trace.VisitedURLs))
	fmt.Fprintf(&b, "Content snippets collected: %d\n", len(trace.ExtractedContent))
	fmt.Fprintf(&b, "Last observation: %s\n", observation)

	text, _, err := r.service.Ask(ctx, b.String(), nil)
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	return strings.TrimSpace(line), nil
}
