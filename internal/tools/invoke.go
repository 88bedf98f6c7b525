package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/peopled/peopled/internal/schema"
)

// FailureKind classifies why an invocation did not produce a value.
type FailureKind string

const (
	FailUnknownTool      FailureKind = "unknown_tool"
	FailInvalidArguments FailureKind = "invalid_arguments"
	FailExecution        FailureKind = "execution_error"
)

// Failure describes a failed invocation.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
	Detail  any         `json:"detail,omitempty"`
}

// Result is the outcome of one tool invocation: either Value is set
// (success) or Failure is set, never both.
type Result struct {
	Value   any
	Failure *Failure
}

// OK reports whether the invocation succeeded.
func (r Result) OK() bool { return r.Failure == nil }

// Serialize renders the result as a JSON string suitable for feeding back
// to the model as a tool message. Failures serialise to an error object so
// the model can adapt.
func (r Result) Serialize() string {
	if r.OK() {
		data, err := json.Marshal(r.Value)
		if err != nil {
			return `{"error":"unserialisable tool result"}`
		}
		return string(data)
	}
	data, _ := json.Marshal(map[string]any{
		"error":   string(r.Failure.Kind),
		"message": r.Failure.Message,
		"detail":  r.Failure.Detail,
	})
	return string(data)
}

func failure(kind FailureKind, message string, detail any) Result {
	return Result{Failure: &Failure{Kind: kind, Message: message, Detail: detail}}
}

// Invoker validates arguments against a tool's declared parameters and
// executes it, normalising every outcome into a Result. Execution errors
// never propagate past Invoke.
type Invoker struct {
	registry *Registry
}

// NewInvoker creates an Invoker over the given registry.
func NewInvoker(registry *Registry) *Invoker {
	return &Invoker{registry: registry}
}

// Invoke looks up the named tool, validates args against its parameter
// schema (filling defaults), and executes it.
func (inv *Invoker) Invoke(ctx context.Context, name string, args map[string]any) Result {
	tool, ok := inv.registry.Get(name)
	if !ok {
		return failure(FailUnknownTool, fmt.Sprintf("no tool named %q", name), nil)
	}

	normalized, err := validateArgs(tool.Params(), args)
	if err != nil {
		return failure(FailInvalidArguments, err.Error(), map[string]any{"tool": name})
	}

	value, err := safeExecute(ctx, tool, normalized)
	if err != nil {
		slog.Warn("tool execution failed", "tool", name, "err", err)
		return failure(FailExecution, fmt.Sprintf("%s failed", name), err.Error())
	}
	return Result{Value: value}
}

// safeExecute runs the tool body, converting panics into errors so a
// misbehaving tool cannot take down the dispatch path.
func safeExecute(ctx context.Context, tool schema.Tool, args map[string]any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool panic: %v", r)
		}
	}()
	return tool.Execute(ctx, args)
}

// validateArgs checks args against the declared params: every required
// param present and type-compatible, unknown params rejected, absent
// optional params filled with their declared default.
func validateArgs(params []schema.Param, args map[string]any) (map[string]any, error) {
	byName := make(map[string]schema.Param, len(params))
	for _, p := range params {
		byName[p.Name] = p
	}
	for name := range args {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("unknown parameter %q", name)
		}
	}

	out := make(map[string]any, len(params))
	for _, p := range params {
		v, present := args[p.Name]
		if !present || v == nil {
			if p.Required {
				return nil, fmt.Errorf("missing required parameter %q", p.Name)
			}
			if p.Default != nil {
				out[p.Name] = p.Default
			}
			continue
		}
		coerced, err := coerce(p, v)
		if err != nil {
			return nil, err
		}
		out[p.Name] = coerced
	}
	return out, nil
}

// coerce checks that v matches the declared param type. JSON decoding
// yields float64 for every number, so integral floats are accepted for
// integer params and converted to int.
func coerce(p schema.Param, v any) (any, error) {
	switch p.Type {
	case schema.TypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case schema.TypeInteger:
		switch n := v.(type) {
		case int:
			return n, nil
		case float64:
			if n == float64(int(n)) {
				return int(n), nil
			}
		}
	case schema.TypeNumber:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		}
	case schema.TypeBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case schema.TypeObject:
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}
	case schema.TypeArray:
		if a, ok := v.([]any); ok {
			return a, nil
		}
	default:
		return nil, fmt.Errorf("parameter %q has unsupported type %q", p.Name, p.Type)
	}
	return nil, fmt.Errorf("parameter %q must be a %s", p.Name, p.Type)
}
