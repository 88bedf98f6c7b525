package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/peopled/peopled/internal/schema"
	"github.com/peopled/peopled/internal/tools"
)

const notificationPrefix = "notifications/"

// ServerInfo identifies this server in initialize responses.
type ServerInfo struct {
	Name    string
	Version string
}

// Dispatcher parses JSON-RPC payloads and routes them to the tool registry.
//
// It is stateless across messages except for the in-flight table used to
// honor notifications/cancelled. Safe for concurrent use.
type Dispatcher struct {
	info     ServerInfo
	registry *tools.Registry
	invoker  *tools.Invoker

	// inflight maps a request's raw id to the cancel func of its context.
	inflight sync.Map
}

func NewDispatcher(info ServerInfo, registry *tools.Registry) *Dispatcher {
	return &Dispatcher{
		info:     info,
		registry: registry,
		invoker:  tools.NewInvoker(registry),
	}
}

// Dispatch handles one transport payload, which may be a single message or a
// batch array. The returned bytes are the serialized response, or nil when
// the payload produced no response (notifications only).
func (d *Dispatcher) Dispatch(ctx context.Context, payload []byte) []byte {
	trimmed := bytes.TrimLeft(payload, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return d.dispatchBatch(ctx, trimmed)
	}

	resp := d.dispatchOne(ctx, payload)
	if resp == nil {
		return nil
	}
	return marshalResponse(resp)
}

func (d *Dispatcher) dispatchBatch(ctx context.Context, payload []byte) []byte {
	var batch []json.RawMessage
	if err := json.Unmarshal(payload, &batch); err != nil {
		return marshalResponse(NewError(nil, CodeParseError, "Parse error", nil))
	}

	responses := make([]*Response, 0, len(batch))
	for _, raw := range batch {
		if resp := d.dispatchOne(ctx, raw); resp != nil {
			responses = append(responses, resp)
		}
	}
	if len(responses) == 0 {
		return nil
	}
	out, err := json.Marshal(responses)
	if err != nil {
		slog.Error("Failed to marshal batch response", "err", err)
		return marshalResponse(NewError(nil, CodeInternalError, "Internal error", nil))
	}
	return out
}

// dispatchOne handles a single decoded message. Returns nil for
// notifications; requests always get a response.
func (d *Dispatcher) dispatchOne(ctx context.Context, payload []byte) *Response {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewError(nil, CodeParseError, "Parse error", nil)
	}

	// A message with no id whose method lives in the notification namespace
	// is fire-and-forget: handled if known, never answered.
	if len(req.ID) == 0 && strings.HasPrefix(req.Method, notificationPrefix) {
		d.handleNotification(req)
		return nil
	}

	return d.handleRequest(ctx, req)
}

func (d *Dispatcher) handleNotification(req Request) {
	switch req.Method {
	case "notifications/initialized":
		slog.Info("Client initialized")
	case "notifications/cancelled":
		var params struct {
			ID json.RawMessage `json:"id"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			slog.Warn("Malformed cancellation notification", "err", err)
			return
		}
		d.cancelInflight(params.ID)
	default:
		slog.Debug("Ignoring unknown notification", "method", req.Method)
	}
}

func (d *Dispatcher) handleRequest(ctx context.Context, req Request) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic in request handler", "method", req.Method, "panic", r)
			resp = NewError(req.ID, CodeInternalError, "Internal error", nil)
		}
	}()

	if len(req.ID) > 0 {
		reqCtx, cancel := context.WithCancel(ctx)
		ctx = reqCtx
		key := string(req.ID)
		d.inflight.Store(key, cancel)
		defer func() {
			d.inflight.Delete(key)
			cancel()
		}()
	}

	switch req.Method {
	case "initialize":
		return NewResult(req.ID, d.initializeResult())
	case "tools/list":
		return NewResult(req.ID, map[string]any{"tools": d.toolDescriptors()})
	case "tools/call":
		return d.handleToolsCall(ctx, req)
	case "resources/list":
		return NewResult(req.ID, map[string]any{"resources": []any{}})
	case "prompts/list":
		return NewResult(req.ID, map[string]any{"prompts": []any{}})
	default:
		return NewError(req.ID, CodeMethodNotFound, "Method not found: "+req.Method, nil)
	}
}

func (d *Dispatcher) initializeResult() InitializeResult {
	return InitializeResult{
		Name:            d.info.Name,
		Version:         d.info.Version,
		ProtocolVersion: ProtocolVersion,
		Capabilities: Capabilities{
			Tools:     true,
			Resources: true,
			Prompts:   true,
		},
	}
}

// toolDescriptors projects the registry into the tools/list shape, in
// registration order.
func (d *Dispatcher) toolDescriptors() []ToolDescriptor {
	out := make([]ToolDescriptor, 0, d.registry.Len())
	for _, t := range d.registry.List() {
		out = append(out, ToolDescriptor{
			Name:            t.Name(),
			Description:     t.Description(),
			ParameterSchema: schema.ObjectSchema(t.Params()),
		})
	}
	return out
}

// Discovery returns the GET-probe payload: server identity plus tool
// summaries, for clients checking availability before speaking JSON-RPC.
func (d *Dispatcher) Discovery() map[string]any {
	names := make([]string, 0, d.registry.Len())
	for _, t := range d.registry.List() {
		names = append(names, t.Name())
	}
	return map[string]any{
		"name":            d.info.Name,
		"version":         d.info.Version,
		"protocolVersion": ProtocolVersion,
		"tools":           names,
	}
}

func (d *Dispatcher) handleToolsCall(ctx context.Context, req Request) *Response {
	var params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return NewError(req.ID, CodeInvalidParams, "Invalid params", nil)
		}
	}
	if params.Name == "" {
		return NewError(req.ID, CodeInvalidParams, "Missing tool name", nil)
	}

	result := d.invoker.Invoke(ctx, params.Name, params.Arguments)
	if !result.OK() {
		return NewError(req.ID, failureCode(result.Failure.Kind), result.Failure.Message, result.Failure.Detail)
	}
	return NewResult(req.ID, map[string]any{"content": result.Value})
}

// failureCode maps an invocation failure kind to its application error code.
func failureCode(kind tools.FailureKind) int {
	switch kind {
	case tools.FailUnknownTool:
		return CodeUnknownTool
	case tools.FailInvalidArguments:
		return CodeInvalidArguments
	default:
		return CodeExecutionError
	}
}

// cancelInflight stops the in-flight request with the given id, if any.
// Late cancellations for completed requests are a no-op.
func (d *Dispatcher) cancelInflight(id json.RawMessage) {
	if len(id) == 0 {
		return
	}
	if v, ok := d.inflight.Load(string(id)); ok {
		v.(context.CancelFunc)()
		slog.Info("Cancelled in-flight request", "id", string(id))
	}
}

func marshalResponse(resp *Response) []byte {
	out, err := json.Marshal(resp)
	if err != nil {
		slog.Error("Failed to marshal response", "err", err)
		return []byte(`{"jsonrpc":"2.0","id":null,"error":{"code":-32603,"message":"Internal error"}}`)
	}
	return out
}
