package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/peopled/peopled/internal/schema"
)

func echoTool() *fakeTool {
	return &fakeTool{
		name: "echo",
		params: []schema.Param{
			{Name: "text", Type: schema.TypeString, Required: true},
			{Name: "repeat", Type: schema.TypeInteger, Default: 1},
		},
		execute: func(_ context.Context, args map[string]any) (any, error) {
			n := args["repeat"].(int)
			return strings.Repeat(args["text"].(string), n), nil
		},
	}
}

func TestInvokeSuccess(t *testing.T) {
	reg := mustRegistry(t, echoTool())
	inv := NewInvoker(reg)

	res := inv.Invoke(context.Background(), "echo", map[string]any{"text": "hi", "repeat": 2})
	if !res.OK() {
		t.Fatalf("expected success, got %+v", res.Failure)
	}
	if res.Value != "hihi" {
		t.Errorf("expected hihi, got %v", res.Value)
	}
}

func TestInvokeFillsDefaults(t *testing.T) {
	reg := mustRegistry(t, echoTool())
	inv := NewInvoker(reg)

	res := inv.Invoke(context.Background(), "echo", map[string]any{"text": "x"})
	if !res.OK() {
		t.Fatalf("expected success, got %+v", res.Failure)
	}
	if res.Value != "x" {
		t.Errorf("expected default repeat=1, got %v", res.Value)
	}
}

func TestInvokeUnknownTool(t *testing.T) {
	reg := mustRegistry(t, echoTool())
	inv := NewInvoker(reg)

	res := inv.Invoke(context.Background(), "nope", nil)
	if res.OK() || res.Failure.Kind != FailUnknownTool {
		t.Fatalf("expected unknown_tool failure, got %+v", res)
	}
}

func TestInvokeArgumentValidation(t *testing.T) {
	reg := mustRegistry(t, echoTool())
	inv := NewInvoker(reg)

	cases := []struct {
		name string
		args map[string]any
	}{
		{"missing required", map[string]any{"repeat": 1}},
		{"nil required", map[string]any{"text": nil}},
		{"wrong type", map[string]any{"text": 42}},
		{"unknown param", map[string]any{"text": "x", "bogus": true}},
		{"fractional integer", map[string]any{"text": "x", "repeat": 1.5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := inv.Invoke(context.Background(), "echo", tc.args)
			if res.OK() || res.Failure.Kind != FailInvalidArguments {
				t.Fatalf("expected invalid_arguments failure, got %+v", res)
			}
		})
	}
}

func TestInvokeIntegralFloatCoercion(t *testing.T) {
	// JSON decodes every number as float64; whole floats must reach the
	// tool as int.
	reg := mustRegistry(t, echoTool())
	inv := NewInvoker(reg)

	res := inv.Invoke(context.Background(), "echo", map[string]any{"text": "a", "repeat": float64(3)})
	if !res.OK() {
		t.Fatalf("expected success, got %+v", res.Failure)
	}
	if res.Value != "aaa" {
		t.Errorf("expected aaa, got %v", res.Value)
	}
}

func TestInvokeExecutionError(t *testing.T) {
	boom := &fakeTool{
		name: "boom",
		execute: func(context.Context, map[string]any) (any, error) {
			return nil, errors.New("collaborator exploded")
		},
	}
	inv := NewInvoker(mustRegistry(t, boom))

	res := inv.Invoke(context.Background(), "boom", nil)
	if res.OK() || res.Failure.Kind != FailExecution {
		t.Fatalf("expected execution_error failure, got %+v", res)
	}
	if res.Failure.Detail != "collaborator exploded" {
		t.Errorf("expected original detail, got %v", res.Failure.Detail)
	}
}

func TestInvokeRecoversPanic(t *testing.T) {
	panicky := &fakeTool{
		name: "panicky",
		execute: func(context.Context, map[string]any) (any, error) {
			panic("oh no")
		},
	}
	inv := NewInvoker(mustRegistry(t, panicky))

	res := inv.Invoke(context.Background(), "panicky", nil)
	if res.OK() || res.Failure.Kind != FailExecution {
		t.Fatalf("expected execution_error failure, got %+v", res)
	}
}

func TestResultSerialize(t *testing.T) {
	ok := Result{Value: map[string]any{"id": 1}}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(ok.Serialize()), &decoded); err != nil {
		t.Fatalf("success serialisation not JSON: %v", err)
	}

	fail := failure(FailExecution, "boom failed", "detail")
	if err := json.Unmarshal([]byte(fail.Serialize()), &decoded); err != nil {
		t.Fatalf("failure serialisation not JSON: %v", err)
	}
	if decoded["error"] != string(FailExecution) {
		t.Errorf("expected error kind in payload, got %v", decoded["error"])
	}
}

func mustRegistry(t *testing.T, tools ...schema.Tool) *Registry {
	t.Helper()
	b := NewRegistryBuilder()
	for _, tool := range tools {
		b = b.WithTool(tool)
	}
	reg, err := b.Build()
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return reg
}
