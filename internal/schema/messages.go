package schema

// Messages is the ordered list of messages exchanged with the LLM.
// It owns typed append methods so callers never construct raw maps.
type Messages struct {
	Messages []Message
}

// NewMessages returns a Messages initialised with the given messages.
// Called with no arguments it returns an empty Messages ready for use.
func NewMessages(msgs ...Message) Messages {
	if len(msgs) == 0 {
		return Messages{Messages: make([]Message, 0)}
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return Messages{Messages: out}
}

// AddSystem appends a system message.
func (mh *Messages) AddSystem(content string) {
	mh.Messages = append(mh.Messages, NewSystemMessage(content))
}

// AddUser appends a user message.
func (mh *Messages) AddUser(content string) {
	mh.Messages = append(mh.Messages, NewUserMessage(content))
}

// AddAssistant appends an assistant message with optional tool calls.
func (mh *Messages) AddAssistant(content *string, toolCalls []ToolCall) {
	mh.Messages = append(mh.Messages, NewAssistantMessage(content, toolCalls))
}

// AddToolResult appends a tool-result message.
func (mh *Messages) AddToolResult(toolCallID, toolName, result string) {
	mh.Messages = append(mh.Messages, NewToolResultMessage(toolCallID, toolName, result))
}

// Append copies all messages from other into mh.
func (mh *Messages) Append(msgs []Message) {
	mh.Messages = append(mh.Messages, msgs...)
}

// Clone returns a deep copy of mh with an independent backing slice.
func (mh *Messages) Clone() Messages {
	cloned := make([]Message, len(mh.Messages))
	copy(cloned, mh.Messages)
	return Messages{Messages: cloned}
}

// WithoutSystem returns the messages with every system entry removed.
// Used when handing the accumulated history back to API callers.
func (mh *Messages) WithoutSystem() []Message {
	out := make([]Message, 0, len(mh.Messages))
	for _, m := range mh.Messages {
		if m.Role == RoleSystem {
			continue
		}
		out = append(out, m)
	}
	return out
}
