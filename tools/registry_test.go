package tools_test

import (
	"testing"

	"github.com/printforge/cadbridge/internal/resolve"
	"github.com/printforge/cadbridge/tools"
)

func TestRegistry_ToolNames(t *testing.T) {
	r, err := resolve.New(t.TempDir(), ".py")
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	defs := tools.Registry(tools.Deps{Resolver: r, Logger: testLogger()})

	want := map[string]bool{
		"verify_cad_query":   false,
		"cad_verify":         true, // deprecated alias
		"generate_cad_query": false,
	}
	if len(defs) != len(want) {
		t.Fatalf("unexpected number of tools: got %d want %d", len(defs), len(want))
	}
	for _, d := range defs {
		deprecated, ok := want[d.Name]
		if !ok {
			t.Fatalf("unexpected tool in registry: %q", d.Name)
		}
		if d.Deprecated != deprecated {
			t.Errorf("tool %q: deprecated=%t want %t", d.Name, d.Deprecated, deprecated)
		}
		if d.InputSchema == nil {
			t.Errorf("tool %q: missing input schema", d.Name)
		}
		if d.Handler == nil {
			t.Errorf("tool %q: missing handler", d.Name)
		}
	}
}

func TestRegistry_AliasSharesSchema(t *testing.T) {
	r, err := resolve.New(t.TempDir(), ".py")
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	defs := tools.Registry(tools.Deps{Resolver: r, Logger: testLogger()})

	byName := map[string]tools.ToolDefinition{}
	for _, d := range defs {
		byName[d.Name] = d
	}
	if byName["cad_verify"].InputSchema != byName["verify_cad_query"].InputSchema {
		t.Fatal("alias should share the canonical tool's schema")
	}
}
