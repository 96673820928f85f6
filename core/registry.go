package core

import (
	"fmt"
	"sort"
)

// Registry is the name-keyed mapping of agent handles consulted by the
// orchestration loop when it encounters a delegation directive. It is
// assembled once at startup and read-only afterwards, which makes it safe
// to share across concurrent sessions without locking.
type Registry struct {
	handles map[string]Handle
}

// NewRegistry builds a registry from the given handles. Registration
// happens only here, never during a loop; duplicate names are a
// configuration error.
func NewRegistry(handles ...Handle) (*Registry, error) {
	m := make(map[string]Handle, len(handles))
	for _, h := range handles {
		if h == nil {
			return nil, fmt.Errorf("registry: nil handle")
		}
		name := h.Name()
		if name == "" {
			return nil, fmt.Errorf("registry: handle with empty name")
		}
		if _, exists := m[name]; exists {
			return nil, fmt.Errorf("registry: duplicate agent name %q", name)
		}
		m[name] = h
	}
	return &Registry{handles: m}, nil
}

// Lookup returns the handle registered under name. The boolean reports
// whether the name is known; an unknown name is not an error; callers
// treat the text that referenced it as ordinary model output.
func (r *Registry) Lookup(name string) (Handle, bool) {
	h, ok := r.handles[name]
	return h, ok
}

// Names returns the registered agent names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handles))
	for name := range r.handles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns name → description for every registered handle. Used by
// the planner to enumerate delegation targets.
func (r *Registry) Describe() map[string]string {
	docs := make(map[string]string, len(r.handles))
	for name, h := range r.handles {
		desc := h.Description()
		if desc == "" {
			desc = "No documentation available."
		}
		docs[name] = desc
	}
	return docs
}

// Len returns the number of registered handles.
func (r *Registry) Len() int { return len(r.handles) }
