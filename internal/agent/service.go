package agent

import (
	"context"
	"log/slog"
	"sync"

	"github.com/peopled/peopled/internal/bus"
	"github.com/peopled/peopled/internal/schema"
)

// DefaultHistoryWindow caps per-chat history when no window is configured.
const DefaultHistoryWindow = 40

// Service reads InboundMessages from the bus, runs each through the
// orchestrator with that chat's history, and publishes OutboundMessages.
// Histories are kept in memory, one per session key, capped at the
// configured window.
type Service struct {
	bus           bus.Bus
	orchestrator  *Orchestrator
	historyWindow int

	mu        sync.Mutex
	histories map[string][]schema.Message
}

func NewService(b bus.Bus, orchestrator *Orchestrator, historyWindow int) *Service {
	if historyWindow <= 0 {
		historyWindow = DefaultHistoryWindow
	}
	return &Service{
		bus:           b,
		orchestrator:  orchestrator,
		historyWindow: historyWindow,
		histories:     make(map[string][]schema.Message),
	}
}

// Run consumes the inbound bus until ctx is cancelled.
// Each message is handled in its own goroutine.
func (s *Service) Run(ctx context.Context) error {
	slog.Info("Agent service started")
	for {
		select {
		case msg := <-s.bus.InboundChan():
			go s.handleMessage(ctx, msg)
		case <-ctx.Done():
			slog.Info("Agent service stopping")
			return ctx.Err()
		}
	}
}

// ProcessDirect handles a message outside the bus (CLI one-shot, REPL).
// Returns the final text response.
func (s *Service) ProcessDirect(ctx context.Context, content, sessionKey string) (string, error) {
	history := s.getHistory(sessionKey)
	res, err := s.orchestrator.Turn(ctx, content, history)
	if err != nil {
		return "", err
	}
	s.setHistory(sessionKey, res.History)
	return res.Response, nil
}

func (s *Service) handleMessage(ctx context.Context, msg bus.InboundMessage) {
	slog.Info("Processing message",
		"channel", msg.Channel(),
		"sender", msg.SenderId(),
		"content", msg.Preview(),
	)

	key := msg.SessionKey()
	res, err := s.orchestrator.Turn(ctx, msg.Content(), s.getHistory(key))
	if err != nil {
		slog.Error("Turn failed", "channel", msg.Channel(), "err", err)
		out := bus.NewOutboundMessage(msg.Channel(), msg.ChatId(), "Sorry, I encountered an error processing your message.")
		out.SetMetadata(msg.Metadata())
		s.bus.PublishOutbound(out)
		return
	}
	s.setHistory(key, res.History)

	out := bus.NewOutboundMessage(msg.Channel(), msg.ChatId(), res.Response)
	out.SetMetadata(msg.Metadata())
	s.bus.PublishOutbound(out)
}

func (s *Service) getHistory(key string) []schema.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.histories[key]
}

// setHistory stores the chat's history, trimming the oldest messages past the
// window. The trim never starts on a tool message so the remaining history
// keeps each tool result paired with its assistant tool-call turn.
func (s *Service) setHistory(key string, history []schema.Message) {
	if len(history) > s.historyWindow {
		history = history[len(history)-s.historyWindow:]
		for len(history) > 0 && history[0].Role == schema.RoleTool {
			history = history[1:]
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories[key] = history
}
