package tools

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/peopled/peopled/internal/schema"
)

// fakeTool is a configurable schema.Tool for registry and invoker tests.
type fakeTool struct {
	name    string
	params  []schema.Param
	execute func(ctx context.Context, args map[string]any) (any, error)
}

func (f *fakeTool) Name() string          { return f.name }
func (f *fakeTool) Description() string   { return "fake " + f.name }
func (f *fakeTool) Params() []schema.Param { return f.params }

func (f *fakeTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	if f.execute == nil {
		return "ok", nil
	}
	return f.execute(ctx, args)
}

func buildRegistry(t *testing.T, names ...string) *Registry {
	t.Helper()
	b := NewRegistryBuilder()
	for _, n := range names {
		b = b.WithTool(&fakeTool{name: n})
	}
	reg, err := b.Build()
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return reg
}

func TestRegistryOrderStable(t *testing.T) {
	reg := buildRegistry(t, "zebra", "apple", "mango")

	want := []string{"zebra", "apple", "mango"}
	for i := 0; i < 3; i++ {
		var got []string
		for _, tool := range reg.List() {
			got = append(got, tool.Name())
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("call %d: expected registration order %v, got %v", i, want, got)
		}
	}
}

func TestRegistryDuplicateName(t *testing.T) {
	_, err := NewRegistryBuilder().
		WithTool(&fakeTool{name: "dup"}).
		WithTool(&fakeTool{name: "dup"}).
		Build()
	if !errors.Is(err, ErrDuplicateTool) {
		t.Fatalf("expected ErrDuplicateTool, got %v", err)
	}
}

func TestRegistryGet(t *testing.T) {
	reg := buildRegistry(t, "one")

	if _, ok := reg.Get("one"); !ok {
		t.Error("expected to find registered tool")
	}
	if _, ok := reg.Get("two"); ok {
		t.Error("expected miss for unregistered tool")
	}
}

func TestDefinitionsShape(t *testing.T) {
	b := NewRegistryBuilder().WithTool(&fakeTool{
		name: "greet",
		params: []schema.Param{
			{Name: "who", Type: schema.TypeString, Description: "target", Required: true},
			{Name: "times", Type: schema.TypeInteger, Default: 1},
		},
	})
	reg, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	defs := reg.Definitions()
	if len(defs) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(defs))
	}
	fn, ok := defs[0]["function"].(map[string]any)
	if !ok {
		t.Fatalf("missing function object: %+v", defs[0])
	}
	if fn["name"] != "greet" {
		t.Errorf("expected name greet, got %v", fn["name"])
	}
	params, ok := fn["parameters"].(map[string]any)
	if !ok || params["type"] != "object" {
		t.Fatalf("unexpected parameters: %+v", fn["parameters"])
	}
	required, _ := params["required"].([]string)
	if len(required) != 1 || required[0] != "who" {
		t.Errorf("unexpected required list: %v", params["required"])
	}
}
