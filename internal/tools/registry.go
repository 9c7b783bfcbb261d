package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HexSleeves/hrchat/internal/llm"
)

// Handler executes one tool. Required arguments have already been checked.
type Handler func(ctx context.Context, args Args) Result

// Tool couples a descriptor with its handler, so the catalog and the
// dispatch table cannot drift apart.
type Tool struct {
	Spec    mcp.Tool
	Handler Handler
}

// Registry is the immutable, ordered tool catalog.
type Registry struct {
	tools []Tool
	index map[string]int
}

// NewRegistry builds a registry in the given order. Names must be unique.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{index: make(map[string]int, len(tools))}
	for _, t := range tools {
		if t.Spec.Name == "" {
			return nil, fmt.Errorf("tool without a name")
		}
		if t.Handler == nil {
			return nil, fmt.Errorf("tool %q has no handler", t.Spec.Name)
		}
		if _, dup := r.index[t.Spec.Name]; dup {
			return nil, fmt.Errorf("duplicate tool %q", t.Spec.Name)
		}
		r.index[t.Spec.Name] = len(r.tools)
		r.tools = append(r.tools, t)
	}
	return r, nil
}

// Lookup finds a tool by its exact name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	i, ok := r.index[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

func (r *Registry) Len() int { return len(r.tools) }

// Names returns tool names in catalog order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Spec.Name
	}
	return names
}

// Descriptors returns a copy of the catalog in order.
func (r *Registry) Descriptors() []mcp.Tool {
	out := make([]mcp.Tool, len(r.tools))
	for i, t := range r.tools {
		out[i] = t.Spec
	}
	return out
}

// Definitions maps the catalog onto the LLM tool-declaration shape. The last
// definition is marked as a prompt-cache breakpoint since the catalog never
// changes.
func (r *Registry) Definitions() []llm.ToolDef {
	defs := make([]llm.ToolDef, len(r.tools))
	for i, t := range r.tools {
		props := t.Spec.InputSchema.Properties
		if props == nil {
			props = map[string]interface{}{}
		}
		schema := map[string]interface{}{
			"type":       "object",
			"properties": props,
		}
		if len(t.Spec.InputSchema.Required) > 0 {
			schema["required"] = append([]string(nil), t.Spec.InputSchema.Required...)
		}
		defs[i] = llm.ToolDef{
			Name:        t.Spec.Name,
			Description: t.Spec.Description,
			InputSchema: schema,
		}
	}
	if len(defs) > 0 {
		defs[len(defs)-1].Cache = true
	}
	return defs
}
