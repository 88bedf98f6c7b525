// Package mcp implements the JSON-RPC 2.0 protocol layer: message shapes,
// error codes, and the dispatcher routing requests to the tool registry.
package mcp

import "encoding/json"

// Version is the JSON-RPC protocol version carried on every message.
const Version = "2.0"

// ProtocolVersion is the MCP revision this server speaks.
const ProtocolVersion = "2024-11-05"

// Reserved JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Application error codes for tool invocation failures.
const (
	CodeUnknownTool      = 1001
	CodeInvalidArguments = 1002
	CodeExecutionError   = 1003
)

// Request is an incoming JSON-RPC request or notification.
// ID is kept raw so responses echo it byte-for-byte; a nil ID means the
// field was absent.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// RPCError is the error member of a failed Response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Response is an outgoing JSON-RPC response. Exactly one of Result and Error
// is set. ID has no omitempty: a nil RawMessage marshals as null, which is
// what parse errors require.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// NewResult builds a success response echoing id.
func NewResult(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: Version, ID: id, Result: result}
}

// NewError builds an error response echoing id.
func NewError(id json.RawMessage, code int, message string, data any) *Response {
	return &Response{JSONRPC: Version, ID: id, Error: &RPCError{Code: code, Message: message, Data: data}}
}

// Capabilities advertises which endpoint families are meaningful to call.
type Capabilities struct {
	Tools       bool `json:"tools"`
	Resources   bool `json:"resources"`
	Prompts     bool `json:"prompts"`
	Completions bool `json:"completions"`
	Embeddings  bool `json:"embeddings"`
}

// InitializeResult is the payload returned by the initialize method.
type InitializeResult struct {
	Name            string       `json:"name"`
	Version         string       `json:"version"`
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
}

// ToolDescriptor is one entry of the tools/list result.
type ToolDescriptor struct {
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	ParameterSchema map[string]any `json:"parameterSchema"`
}
