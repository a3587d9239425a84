package syntax

import (
	"context"
	"testing"
)

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Lookup("python"); !ok {
		t.Error("python checker should be registered")
	}
	if _, ok := r.Lookup("py"); !ok {
		t.Error("py alias should resolve")
	}
	if _, ok := r.Lookup("JSON"); !ok {
		t.Error("lookup should be case-insensitive")
	}
	if _, ok := r.Lookup("mermaid"); ok {
		t.Error("unknown language should not resolve")
	}
}

func TestCheckPython(t *testing.T) {
	ctx := context.Background()
	if err := CheckPython(ctx, []byte("def greet(name):\n    return f\"hi {name}\"\n")); err != nil {
		t.Errorf("valid python rejected: %v", err)
	}
	if err := CheckPython(ctx, []byte("def broken(:\n    pass\n")); err == nil {
		t.Error("invalid python accepted")
	}
}

func TestCheckJavaScript(t *testing.T) {
	ctx := context.Background()
	if err := CheckJavaScript(ctx, []byte("const x = await client.search({ top: 5 });\n")); err != nil {
		t.Errorf("valid javascript rejected: %v", err)
	}
	if err := CheckJavaScript(ctx, []byte("const = ;;;(\n")); err == nil {
		t.Error("invalid javascript accepted")
	}
}

func TestCheckJSON(t *testing.T) {
	ctx := context.Background()
	if err := CheckJSON(ctx, []byte(`{"vector": [0.1, 0.2], "k": 5}`)); err != nil {
		t.Errorf("valid json rejected: %v", err)
	}
	if err := CheckJSON(ctx, []byte(`{"trailing": }`)); err == nil {
		t.Error("invalid json accepted")
	}
	if err := CheckJSON(ctx, []byte("  \n")); err == nil {
		t.Error("empty json block accepted")
	}
}

func TestCheckYAML(t *testing.T) {
	ctx := context.Background()
	if err := CheckYAML(ctx, []byte("nodes:\n  - name: webhook\n    type: trigger\n")); err != nil {
		t.Errorf("valid yaml rejected: %v", err)
	}
	if err := CheckYAML(ctx, []byte("key: [unclosed\n  bad")); err == nil {
		t.Error("invalid yaml accepted")
	}
}
