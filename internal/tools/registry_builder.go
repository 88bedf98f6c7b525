package tools

import (
	"fmt"

	"github.com/peopled/peopled/internal/schema"
)

// RegistryBuilder accumulates tools during the construction phase.
// Call Build() to produce an immutable Registry ready for use.
type RegistryBuilder struct {
	order []string
	tools map[string]schema.Tool
	err   error
}

// NewRegistryBuilder returns a fresh RegistryBuilder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{tools: make(map[string]schema.Tool)}
}

// WithTool adds a tool and returns the builder, enabling chaining.
// A duplicate name is recorded as an error and reported by Build.
func (b *RegistryBuilder) WithTool(tool schema.Tool) *RegistryBuilder {
	name := tool.Name()
	if _, exists := b.tools[name]; exists {
		if b.err == nil {
			b.err = fmt.Errorf("%w: %s", ErrDuplicateTool, name)
		}
		return b
	}
	b.order = append(b.order, name)
	b.tools[name] = tool
	return b
}

// Build produces an immutable Registry from the accumulated tools, in
// the order they were added.
func (b *RegistryBuilder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	order := make([]string, len(b.order))
	copy(order, b.order)
	tools := make(map[string]schema.Tool, len(b.tools))
	for k, v := range b.tools {
		tools[k] = v
	}
	return &Registry{order: order, tools: tools}, nil
}
