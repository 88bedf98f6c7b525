package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/peopled/peopled/internal/schema"
	"github.com/peopled/peopled/internal/tools"
)

// DefaultMaxToolRounds bounds the LLM ↔ tool loop when no limit is configured.
const DefaultMaxToolRounds = 5

// Settings hold the per-turn LLM parameters.
type Settings struct {
	Model         string
	MaxTokens     int
	Temperature   float64
	MaxToolRounds int
}

// TurnResult is the outcome of one orchestrated conversation turn.
type TurnResult struct {
	// Response is the assistant's final text answer.
	Response string
	// History is the full conversation after the turn, system prompt excluded,
	// suitable for feeding back into the next Turn call.
	History []schema.Message
	// ExhaustedBudget is true when the turn ended because the tool-round
	// limit was reached rather than because the model produced a final answer.
	ExhaustedBudget bool
}

// Orchestrator runs the bounded LLM ↔ tool conversation loop.
//
// Each round sends the conversation plus tool definitions to the provider.
// Tool failures are serialized and fed back to the model as tool results;
// provider failures abort the turn.
type Orchestrator struct {
	provider     schema.LLMProvider
	registry     *tools.Registry
	invoker      *tools.Invoker
	settings     Settings
	systemPrompt string
}

// NewOrchestrator wires an orchestrator over the given provider and registry.
func NewOrchestrator(provider schema.LLMProvider, registry *tools.Registry, settings Settings) *Orchestrator {
	if settings.Model == "" {
		settings.Model = provider.DefaultModel()
	}
	if settings.MaxToolRounds <= 0 {
		settings.MaxToolRounds = DefaultMaxToolRounds
	}
	return &Orchestrator{
		provider:     provider,
		registry:     registry,
		invoker:      tools.NewInvoker(registry),
		settings:     settings,
		systemPrompt: tools.BuildSystemPrompt(registry),
	}
}

// Turn runs one user query through the loop. history is the prior
// conversation (without system prompt); it is not mutated.
func (o *Orchestrator) Turn(ctx context.Context, userQuery string, history []schema.Message) (TurnResult, error) {
	conversation := schema.NewMessages(schema.NewSystemMessage(o.systemPrompt))
	conversation.Append(history)
	conversation.AddUser(userQuery)

	defs := o.registry.Definitions()

	for round := 0; round < o.settings.MaxToolRounds; round++ {
		resp, err := o.provider.Chat(ctx, conversation, defs,
			schema.NewChatOptions(o.settings.Model, o.settings.MaxTokens, o.settings.Temperature))
		if err != nil {
			return TurnResult{}, fmt.Errorf("llm chat: %w", err)
		}

		if !resp.HasToolCalls() {
			final := ""
			if resp.Content != nil {
				final = *resp.Content
			}
			conversation.AddAssistant(resp.Content, nil)
			return TurnResult{Response: final, History: conversation.WithoutSystem()}, nil
		}

		var calls []schema.ToolCall
		for _, tc := range resp.ToolCalls {
			calls = append(calls, schema.ToolCall{ID: tc.ID, Name: tc.Name, Arguments: tc.Arguments})
		}
		conversation.AddAssistant(resp.Content, calls)

		for _, tc := range resp.ToolCalls {
			slog.Info("Tool call", "name", tc.Name, "round", round)
			result := o.invoker.Invoke(ctx, tc.Name, tc.Arguments)
			if !result.OK() {
				slog.Warn("Tool call failed", "name", tc.Name, "kind", result.Failure.Kind)
			}
			conversation.AddToolResult(tc.ID, tc.Name, result.Serialize())
		}
	}

	const exhausted = "I've reached the maximum number of tool rounds without a final answer."
	conversation.AddAssistant(strPtr(exhausted), nil)
	return TurnResult{
		Response:        exhausted,
		History:         conversation.WithoutSystem(),
		ExhaustedBudget: true,
	}, nil
}

func strPtr(s string) *string { return &s }
