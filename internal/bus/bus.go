// Package bus defines the message types that flow between chat channels and
// the agent service, and the in-process bus carrying them.
package bus

// ChannelType names a chat channel kind.
type ChannelType string

const (
	ChannelTelegram ChannelType = "telegram"
	ChannelSlack    ChannelType = "slack"
	ChannelCLI      ChannelType = "cli"
)

// Bus is the contract between chat channels and the agent service.
type Bus interface {
	// PublishInbound delivers a message from a channel to the agent.
	PublishInbound(msg InboundMessage)
	// PublishOutbound delivers a response from the agent to a channel.
	PublishOutbound(msg OutboundMessage)
	// InboundChan returns a receive-only channel for the agent to consume.
	InboundChan() <-chan InboundMessage
	// OutboundChan returns a receive-only channel for the channel manager to consume.
	OutboundChan() <-chan OutboundMessage
}

// MessageBus is the default in-process Bus implementation backed by buffered
// Go channels. Channels push InboundMessages; the agent consumes them,
// processes, and pushes OutboundMessages back for the manager to route.
type MessageBus struct {
	inbound  chan InboundMessage
	outbound chan OutboundMessage
}

func NewMessageBus(bufSize int) Bus {
	return &MessageBus{
		inbound:  make(chan InboundMessage, bufSize),
		outbound: make(chan OutboundMessage, bufSize),
	}
}

func (b *MessageBus) PublishInbound(msg InboundMessage) { b.inbound <- msg }

func (b *MessageBus) PublishOutbound(msg OutboundMessage) { b.outbound <- msg }

func (b *MessageBus) InboundChan() <-chan InboundMessage { return b.inbound }

func (b *MessageBus) OutboundChan() <-chan OutboundMessage { return b.outbound }
