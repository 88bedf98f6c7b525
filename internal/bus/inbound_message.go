package bus

import "time"

// InboundMessage is a message received from a chat channel.
type InboundMessage struct {
	channel   string         // "telegram", "slack", "cli"
	senderId  string         // user identifier within the channel
	chatId    string         // chat / channel / DM identifier
	content   string         // message text
	timestamp time.Time      // when the message was received
	metadata  map[string]any // channel-specific extra data (message_id, thread_ts, …)
}

// NewInboundMessage creates an InboundMessage with Timestamp set to now.
// Use SetMetadata to attach optional channel-specific fields.
func NewInboundMessage(channel, senderId, chatId, content string) InboundMessage {
	return InboundMessage{
		channel:   channel,
		senderId:  senderId,
		chatId:    chatId,
		content:   content,
		timestamp: time.Now(),
	}
}

func (m InboundMessage) Channel() string                { return m.channel }
func (m InboundMessage) SenderId() string               { return m.senderId }
func (m InboundMessage) ChatId() string                 { return m.chatId }
func (m InboundMessage) Content() string                { return m.content }
func (m InboundMessage) Timestamp() time.Time           { return m.timestamp }
func (m InboundMessage) Metadata() map[string]any       { return m.metadata }
func (m *InboundMessage) SetMetadata(md map[string]any) { m.metadata = md }

// SessionKey returns the key used to look up the chat's conversation history.
// Format: "channel:chat_id".
func (m InboundMessage) SessionKey() string {
	return m.channel + ":" + m.chatId
}

// Preview returns a short snippet of the message content for logging.
func (m InboundMessage) Preview() string {
	preview := m.content
	if len(preview) > 80 {
		preview = preview[:80] + "..."
	}
	return preview
}
