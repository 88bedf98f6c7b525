package schema

import "context"

// Param types understood by the argument validator. They mirror the JSON
// Schema primitive type names.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
)

// Param describes one declared tool parameter. Params are ordered: the
// slice order is the order parameters were declared and is stable across
// discovery responses.
type Param struct {
	Name        string
	Type        string // one of the Type* constants
	Description string
	Required    bool
	Default     any // filled in when an optional param is absent
}

// Tool is the interface all LLM-callable tools must satisfy.
// Execute receives arguments already validated against Params, with
// defaults filled in, and returns a JSON-serialisable value.
type Tool interface {
	Name() string
	Description() string
	Params() []Param
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// ObjectSchema projects an ordered Param list into a JSON Schema object
// of the shape {"type":"object","properties":{...},"required":[...]}.
// This is the parameterSchema form used by both the MCP discovery
// response and the OpenAI function-calling tool list.
func ObjectSchema(params []Param) map[string]any {
	props := make(map[string]any, len(params))
	required := make([]string, 0, len(params))
	for _, p := range params {
		prop := map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
