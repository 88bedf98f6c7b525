// Package tools holds the tool registry, the schema-validating invoker,
// and the built-in people tools.
package tools

import (
	"encoding/json"
	"errors"

	"github.com/peopled/peopled/internal/schema"
)

// ErrDuplicateTool is returned when a name is registered twice.
var ErrDuplicateTool = errors.New("tool already registered")

// Registry holds the set of registered tools. It is built once at startup
// via RegistryBuilder and never mutated afterwards, so concurrent lookups
// need no locking. List order is registration order, stable across calls.
type Registry struct {
	order []string
	tools map[string]schema.Tool
}

// Get returns the tool with the given name.
func (r *Registry) Get(name string) (schema.Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns all tools in registration order.
func (r *Registry) List() []schema.Tool {
	out := make([]schema.Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }

// Definitions returns all tool definitions in OpenAI function-calling
// format, in registration order.
func (r *Registry) Definitions() []map[string]any {
	out := make([]map[string]any, 0, len(r.order))
	for _, t := range r.List() {
		out = append(out, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name(),
				"description": t.Description(),
				"parameters":  schema.ObjectSchema(t.Params()),
			},
		})
	}
	return out
}

// MarshalDefinitions is a convenience for logging the tool surface.
func (r *Registry) MarshalDefinitions() ([]byte, error) {
	return json.Marshal(r.Definitions())
}
