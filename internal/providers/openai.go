// Package providers implements LLM completion-service clients.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/peopled/peopled/internal/schema"
)

// Params carries the raw config values for constructing a provider.
// The caller extracts these from config.Config to avoid an import cycle.
type Params struct {
	APIKey       string
	APIBase      string
	DefaultModel string
	ExtraHeaders map[string]string
}

// New constructs the provider for the given params.
func New(p Params) schema.LLMProvider {
	return NewOpenAIProvider(p)
}

// OpenAIProvider makes direct HTTP calls to any OpenAI-compatible
// chat-completions endpoint.
type OpenAIProvider struct {
	apiKey       string
	apiBase      string
	defaultModel string
	extraHeaders map[string]string
	httpClient   *http.Client
}

// NewOpenAIProvider constructs a provider from raw config values.
func NewOpenAIProvider(p Params) *OpenAIProvider {
	base := strings.TrimRight(p.APIBase, "/")
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	return &OpenAIProvider{
		apiKey:       p.APIKey,
		apiBase:      base,
		defaultModel: p.DefaultModel,
		extraHeaders: p.ExtraHeaders,
		httpClient:   &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *OpenAIProvider) DefaultModel() string { return p.defaultModel }

// Chat implements schema.LLMProvider.
func (p *OpenAIProvider) Chat(
	ctx context.Context,
	messages schema.Messages,
	tools []map[string]any,
	opts schema.ChatOptions,
) (schema.LLMResponse, error) {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	body := map[string]any{
		"model":       model,
		"messages":    wireMessages(messages),
		"max_tokens":  maxTokens,
		"temperature": opts.Temperature,
	}
	if len(tools) > 0 {
		body["tools"] = tools
		body["tool_choice"] = "auto"
	}

	data, err := json.Marshal(body)
	if err != nil {
		return schema.LLMResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.apiBase+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return schema.LLMResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	for k, v := range p.extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return schema.LLMResponse{}, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return schema.LLMResponse{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return schema.LLMResponse{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, friendlyHTTPError(resp.StatusCode, raw))
	}

	return parseOpenAIResponse(raw)
}

// messageToWireMap converts a typed Message to the OpenAI wire-format map.
func messageToWireMap(m schema.Message) map[string]any {
	wire := map[string]any{
		"role":    m.Role,
		"content": m.Content,
	}
	if m.Role == schema.RoleAssistant {
		// Strict providers require "content" even for tool-call-only messages.
		if m.Content == nil {
			wire["content"] = nil
		}
		if len(m.ToolCalls) > 0 {
			raw := make([]map[string]any, len(m.ToolCalls))
			for i, tc := range m.ToolCalls {
				raw[i] = tc.ToWireMap()
			}
			wire["tool_calls"] = raw
		}
	}
	if m.Role == schema.RoleTool {
		wire["tool_call_id"] = m.ToolCallID
		wire["name"] = m.ToolName
	}
	return wire
}

func wireMessages(messages schema.Messages) []map[string]any {
	out := make([]map[string]any, 0, len(messages.Messages))
	for _, m := range messages.Messages {
		out = append(out, messageToWireMap(m))
	}
	return out
}

// openAIRespBody is the subset of the chat completion response we care about.
type openAIRespBody struct {
	Choices []struct {
		Message struct {
			Content   any `json:"content"`
			ToolCalls []struct {
				ID       string `json:"id"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func parseOpenAIResponse(raw []byte) (schema.LLMResponse, error) {
	var body openAIRespBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return schema.LLMResponse{}, fmt.Errorf("parse OpenAI response: %w", err)
	}
	if len(body.Choices) == 0 {
		return schema.LLMResponse{}, fmt.Errorf("empty choices in response")
	}

	msg := body.Choices[0].Message

	var content *string
	if c, ok := msg.Content.(string); ok && c != "" {
		content = &c
	}

	var toolCalls []schema.ToolCallRequest
	for _, tc := range msg.ToolCalls {
		args, err := repairJSON(tc.Function.Arguments)
		if err != nil {
			slog.Warn("failed to parse tool arguments", "tool", tc.Function.Name, "err", err)
			args = map[string]any{}
		}
		toolCalls = append(toolCalls, schema.ToolCallRequest{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}

	finish := body.Choices[0].FinishReason
	if finish == "" {
		finish = "stop"
	}

	return schema.LLMResponse{
		Content:      content,
		ToolCalls:    toolCalls,
		FinishReason: finish,
		Usage: map[string]int{
			"prompt_tokens":     body.Usage.PromptTokens,
			"completion_tokens": body.Usage.CompletionTokens,
			"total_tokens":      body.Usage.TotalTokens,
		},
	}, nil
}

// repairJSON attempts to unmarshal JSON, retrying after stripping trailing
// garbage characters. This handles some LLMs that emit truncated tool arguments.
func repairJSON(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}, nil
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return out, nil
	}

	// Attempt 1: trim trailing non-JSON characters.
	stripped := strings.TrimRight(raw, " \t\n\r}]")
	if !strings.HasSuffix(stripped, "}") {
		stripped += "}"
	}
	if err := json.Unmarshal([]byte(stripped), &out); err == nil {
		return out, nil
	}

	// Attempt 2: find the last complete JSON object.
	if i := strings.LastIndex(raw, "}"); i >= 0 {
		if err := json.Unmarshal([]byte(raw[:i+1]), &out); err == nil {
			return out, nil
		}
	}

	return map[string]any{}, fmt.Errorf("cannot repair JSON: %s", raw)
}

func friendlyHTTPError(code int, body []byte) string {
	if code == http.StatusTooManyRequests {
		return "rate limit exceeded"
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 300 {
		s = s[:300]
	}
	return s
}
