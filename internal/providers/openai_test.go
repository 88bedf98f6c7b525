package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/peopled/peopled/internal/schema"
)

func TestParseTextResponse(t *testing.T) {
	raw := `{
		"choices": [{"message": {"content": "Hello"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12}
	}`
	resp, err := parseOpenAIResponse([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if resp.Content == nil || *resp.Content != "Hello" {
		t.Errorf("unexpected content: %v", resp.Content)
	}
	if resp.HasToolCalls() {
		t.Error("expected no tool calls")
	}
	if resp.FinishReason != "stop" {
		t.Errorf("unexpected finish reason: %s", resp.FinishReason)
	}
	if resp.Usage["total_tokens"] != 12 {
		t.Errorf("unexpected usage: %v", resp.Usage)
	}
}

func TestParseToolCallResponse(t *testing.T) {
	raw := `{
		"choices": [{
			"message": {
				"content": null,
				"tool_calls": [{
					"id": "call_1",
					"function": {"name": "get_person_by_id", "arguments": "{\"person_id\": 1}"}
				}]
			},
			"finish_reason": "tool_calls"
		}]
	}`
	resp, err := parseOpenAIResponse([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if resp.Content != nil {
		t.Errorf("expected nil content, got %v", *resp.Content)
	}
	if len(resp.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(resp.ToolCalls))
	}
	tc := resp.ToolCalls[0]
	if tc.ID != "call_1" || tc.Name != "get_person_by_id" {
		t.Errorf("unexpected tool call: %+v", tc)
	}
	if tc.Arguments["person_id"] != float64(1) {
		t.Errorf("arguments not decoded: %v", tc.Arguments)
	}
}

func TestParseEmptyChoices(t *testing.T) {
	if _, err := parseOpenAIResponse([]byte(`{"choices": []}`)); err == nil {
		t.Error("expected error for empty choices")
	}
	if _, err := parseOpenAIResponse([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed body")
	}
}

func TestParseFinishReasonDefaultsToStop(t *testing.T) {
	resp, err := parseOpenAIResponse([]byte(`{"choices": [{"message": {"content": "x"}}]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if resp.FinishReason != "stop" {
		t.Errorf("expected default finish reason stop, got %s", resp.FinishReason)
	}
}

func TestRepairJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want map[string]any
	}{
		{"empty", "", map[string]any{}},
		{"valid", `{"a": 1}`, map[string]any{"a": float64(1)}},
		{"trailing garbage", `{"a": 1}}}`, map[string]any{"a": float64(1)}},
		{"trailing whitespace", "{\"a\": 1}\n\n", map[string]any{"a": float64(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repairJSON(tc.raw)
			if err != nil {
				t.Fatalf("repairJSON(%q): %v", tc.raw, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("repairJSON(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestRepairJSONUnrepairable(t *testing.T) {
	got, err := repairJSON(`[1, 2`)
	if err == nil {
		t.Error("expected error for unrepairable input")
	}
	if len(got) != 0 {
		t.Errorf("expected empty map on failure, got %v", got)
	}
}

func TestChatRequestWireFormat(t *testing.T) {
	var captured struct {
		auth string
		body map[string]any
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured.body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"content": "hi"}, "finish_reason": "stop"}]}`))
	}))
	defer ts.Close()

	p := NewOpenAIProvider(Params{APIKey: "test-key", APIBase: ts.URL, DefaultModel: "test-model"})

	messages := schema.NewMessages(
		schema.NewSystemMessage("You are helpful."),
		schema.NewUserMessage("hello"),
	)
	tools := []map[string]any{{"type": "function", "function": map[string]any{"name": "noop"}}}

	resp, err := p.Chat(context.Background(), messages, tools, schema.NewChatOptions("", 128, 0.5))
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if resp.Content == nil || *resp.Content != "hi" {
		t.Errorf("unexpected response: %+v", resp)
	}

	if captured.auth != "Bearer test-key" {
		t.Errorf("missing auth header: %q", captured.auth)
	}
	if captured.body["model"] != "test-model" {
		t.Errorf("empty model should fall back to default, got %v", captured.body["model"])
	}
	if captured.body["tool_choice"] != "auto" {
		t.Errorf("tools present but tool_choice missing: %v", captured.body)
	}
	wire := captured.body["messages"].([]any)
	if len(wire) != 2 {
		t.Fatalf("expected 2 wire messages, got %d", len(wire))
	}
	first := wire[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "You are helpful." {
		t.Errorf("unexpected first message: %v", first)
	}
}

func TestChatToolResultOnWire(t *testing.T) {
	var wire []any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		wire = body["messages"].([]any)
		w.Write([]byte(`{"choices": [{"message": {"content": "done"}}]}`))
	}))
	defer ts.Close()

	p := NewOpenAIProvider(Params{APIKey: "k", APIBase: ts.URL, DefaultModel: "m"})

	content := "checking"
	messages := schema.NewMessages(
		schema.NewUserMessage("look someone up"),
		schema.NewAssistantMessage(&content, []schema.ToolCall{
			{ID: "call_1", Name: "get_person_by_id", Arguments: map[string]any{"person_id": 1}},
		}),
		schema.NewToolResultMessage("call_1", "get_person_by_id", `{"id": 1}`),
	)

	if _, err := p.Chat(context.Background(), messages, nil, schema.NewChatOptions("m", 0, 0)); err != nil {
		t.Fatalf("chat: %v", err)
	}

	assistant := wire[1].(map[string]any)
	calls := assistant["tool_calls"].([]any)
	fn := calls[0].(map[string]any)["function"].(map[string]any)
	if fn["name"] != "get_person_by_id" {
		t.Errorf("unexpected wire tool call: %v", calls)
	}
	if args, ok := fn["arguments"].(string); !ok || !strings.Contains(args, "person_id") {
		t.Errorf("arguments must be a JSON string: %v", fn["arguments"])
	}

	toolMsg := wire[2].(map[string]any)
	if toolMsg["role"] != "tool" || toolMsg["tool_call_id"] != "call_1" || toolMsg["name"] != "get_person_by_id" {
		t.Errorf("unexpected tool message on wire: %v", toolMsg)
	}
}

func TestChatHTTPErrors(t *testing.T) {
	status := http.StatusInternalServerError
	body := `{"error": {"message": "boom"}}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	defer ts.Close()

	p := NewOpenAIProvider(Params{APIKey: "k", APIBase: ts.URL, DefaultModel: "m"})
	msgs := schema.NewMessages(schema.NewUserMessage("hi"))

	_, err := p.Chat(context.Background(), msgs, nil, schema.NewChatOptions("m", 0, 0))
	if err == nil || !strings.Contains(err.Error(), "HTTP 500") {
		t.Fatalf("expected HTTP 500 error, got %v", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error should carry body excerpt: %v", err)
	}

	status = http.StatusTooManyRequests
	_, err = p.Chat(context.Background(), msgs, nil, schema.NewChatOptions("m", 0, 0))
	if err == nil || !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Fatalf("expected friendly rate limit error, got %v", err)
	}
}

func TestFriendlyHTTPErrorTruncates(t *testing.T) {
	long := strings.Repeat("x", 500)
	if got := friendlyHTTPError(http.StatusBadRequest, []byte(long)); len(got) != 300 {
		t.Errorf("expected 300-char truncation, got %d", len(got))
	}
}
