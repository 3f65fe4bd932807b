// Package tools defines the tool registry the agent dispatches through.
//
// The same registry list serves two purposes: it builds the model-facing
// function declarations, and it resolves names at dispatch time. Keeping
// both on one list guarantees that the set of names advertised to the
// model equals the set of names the loop can execute.
package tools

import (
	"context"
	"sort"
)

// Tool represents a callable tool.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
	Handler     func(ctx context.Context, args map[string]any) (string, error) `json:"-"`
}

// Registry holds the tools available to the agent.
type Registry struct {
	tools map[string]*Tool
}

// NewRegistry creates an empty registry. Builtins are registered by the
// caller, which owns the collaborator wiring (store, shell, search, ...).
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// Register adds a tool to the registry.
func (r *Registry) Register(t *Tool) {
	r.tools[t.Name] = t
}

// Get retrieves a tool by name, or nil if not registered.
func (r *Registry) Get(name string) *Tool {
	return r.tools[name]
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Declarations returns the tools in a stable order for building the
// model-facing schema.
func (r *Registry) Declarations() []*Tool {
	decls := make([]*Tool, 0, len(r.tools))
	for _, name := range r.Names() {
		decls = append(decls, r.tools[name])
	}
	return decls
}

// Execute runs a tool by name. An unregistered name returns
// [*ErrToolUnavailable]; handler failures pass through unchanged. The
// caller is responsible for converting errors into transcript text.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	tool := r.tools[name]
	if tool == nil {
		return "", &ErrToolUnavailable{ToolName: name}
	}
	return tool.Handler(ctx, args)
}
