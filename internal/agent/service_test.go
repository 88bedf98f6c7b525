package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/peopled/peopled/internal/bus"
	"github.com/peopled/peopled/internal/schema"
)

func newTestService(t *testing.T, provider schema.LLMProvider, window int) (*Service, bus.Bus) {
	t.Helper()
	reg := newTestRegistry(t, &pingTool{})
	orch := NewOrchestrator(provider, reg, Settings{})
	b := bus.NewMessageBus(10)
	return NewService(b, orch, window), b
}

func TestServiceRepliesOnBus(t *testing.T) {
	provider := &scriptedProvider{responses: []schema.LLMResponse{textResponse("hi there")}}
	svc, b := newTestService(t, provider, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Run(ctx)

	msg := bus.NewInboundMessage("telegram", "42", "chat9", "hello")
	msg.SetMetadata(map[string]any{"message_id": 7})
	b.PublishInbound(msg)

	select {
	case out := <-b.OutboundChan():
		if out.Channel() != "telegram" || out.ChatId() != "chat9" {
			t.Errorf("reply misrouted: %s %s", out.Channel(), out.ChatId())
		}
		if out.Content() != "hi there" {
			t.Errorf("unexpected reply: %q", out.Content())
		}
		if out.Metadata()["message_id"] != 7 {
			t.Errorf("metadata not carried: %v", out.Metadata())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no reply published")
	}
}

func TestServiceTurnErrorBecomesApology(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("backend down")}
	svc, b := newTestService(t, provider, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Run(ctx)

	b.PublishInbound(bus.NewInboundMessage("slack", "U1", "C1", "hello"))

	select {
	case out := <-b.OutboundChan():
		if !strings.Contains(out.Content(), "Sorry") {
			t.Errorf("expected apology, got %q", out.Content())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no reply published")
	}
}

func TestProcessDirectKeepsHistoryPerSession(t *testing.T) {
	provider := &scriptedProvider{responses: []schema.LLMResponse{textResponse("answer")}}
	svc, _ := newTestService(t, provider, 0)

	if _, err := svc.ProcessDirect(context.Background(), "first", "cli:local"); err != nil {
		t.Fatalf("turn 1: %v", err)
	}
	if _, err := svc.ProcessDirect(context.Background(), "second", "cli:local"); err != nil {
		t.Fatalf("turn 2: %v", err)
	}

	history := svc.getHistory("cli:local")
	if len(history) != 4 {
		t.Fatalf("expected 4 messages after two turns, got %d", len(history))
	}
	if svc.getHistory("cli:other") != nil {
		t.Error("sessions must not share history")
	}
}

func TestSetHistoryWindowTrim(t *testing.T) {
	provider := &scriptedProvider{responses: []schema.LLMResponse{textResponse("x")}}
	svc, _ := newTestService(t, provider, 4)

	var history []schema.Message
	for i := 0; i < 5; i++ {
		history = append(history,
			schema.NewUserMessage(fmt.Sprintf("q%d", i)),
			schema.NewAssistantMessage(strPtr(fmt.Sprintf("a%d", i)), nil),
		)
	}
	svc.setHistory("k", history)

	got := svc.getHistory("k")
	if len(got) != 4 {
		t.Fatalf("expected window of 4, got %d", len(got))
	}
	if got[len(got)-1].Text() != "a4" {
		t.Errorf("trim must keep the newest messages, got %q", got[len(got)-1].Text())
	}
}

func TestSetHistoryNeverStartsOnToolMessage(t *testing.T) {
	provider := &scriptedProvider{responses: []schema.LLMResponse{textResponse("x")}}
	svc, _ := newTestService(t, provider, 2)

	content := "calling"
	history := []schema.Message{
		schema.NewUserMessage("q"),
		schema.NewAssistantMessage(&content, []schema.ToolCall{{ID: "c1", Name: "ping"}}),
		schema.NewToolResultMessage("c1", "ping", `{"ok":true}`),
		schema.NewAssistantMessage(strPtr("final"), nil),
	}
	svc.setHistory("k", history)

	got := svc.getHistory("k")
	if len(got) == 0 || got[0].Role == schema.RoleTool {
		t.Fatalf("trimmed history must not start on a tool message: %+v", got)
	}
}
