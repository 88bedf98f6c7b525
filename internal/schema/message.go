// Package schema contains the core data types shared across peopled packages:
// conversation messages, tool contracts, and the LLM provider contract.
// Concrete implementations live in their respective packages; this package is
// the single canonical source of truth for these definitions.
package schema

import "encoding/json"

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall represents one function call in an assistant message.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToWireMap serialises a ToolCall into the OpenAI wire-format map.
// Used by provider implementations when building the JSON request body.
func (tc ToolCall) ToWireMap() map[string]any {
	argsJSON, _ := json.Marshal(tc.Arguments)
	return map[string]any{
		"id":   tc.ID,
		"type": "function",
		"function": map[string]any{
			"name":      tc.Name,
			"arguments": string(argsJSON),
		},
	}
}

// Message is one entry in the conversation history.
//
// Role is one of: "system", "user", "assistant", "tool".
//
// Content holds the message text:
//   - system / user / tool: plain string
//   - assistant: *string (may be nil when only tool calls are present)
//
// ToolCalls is populated for assistant messages that invoke tools.
// ToolCallID and ToolName are set for tool-result messages.
type Message struct {
	Role       string     `json:"role"`
	Content    any        `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolName   string     `json:"tool_name,omitempty"`
}

// Text returns the message content as a plain string, resolving the
// *string form used for assistant messages. Nil content yields "".
func (m Message) Text() string {
	switch c := m.Content.(type) {
	case string:
		return c
	case *string:
		if c != nil {
			return *c
		}
	}
	return ""
}

func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func NewAssistantMessage(content *string, toolCalls []ToolCall) Message {
	return Message{Role: RoleAssistant, Content: content, ToolCalls: toolCalls}
}

func NewToolResultMessage(toolCallID, toolName, result string) Message {
	return Message{
		Role:       RoleTool,
		Content:    result,
		ToolCallID: toolCallID,
		ToolName:   toolName,
	}
}
