package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/printforge/cadbridge/internal/dispatch"
	"github.com/printforge/cadbridge/internal/resolve"
	"github.com/printforge/cadbridge/internal/telemetry"
	"github.com/printforge/cadbridge/tools"
)

func newStdioDispatcher(t *testing.T) (*dispatch.Dispatcher, string) {
	t.Helper()
	dir := t.TempDir()
	resolver, err := resolve.New(dir, ".py")
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	log := telemetry.New("test", &bytes.Buffer{})
	d, err := dispatch.New(log, tools.Registry(tools.Deps{Resolver: resolver, Logger: log}))
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}
	return d, resolver.Workdir()
}

func TestServeStdio_OneResultPerLine(t *testing.T) {
	d, dir := newStdioDispatcher(t)
	if err := os.WriteFile(filepath.Join(dir, "box.py"), []byte("show_object(result)\n"), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	in := strings.Join([]string{
		`{"tool_name": "verify_cad_query", "arguments": {"file_path": "box.py", "verification_criteria": "a box"}}`,
		`{"tool_name": "unknown_tool", "arguments": {}}`,
		`not json at all`,
		``,
		`{"tool_name": "generate_cad_query", "arguments": {"description": "simple box"}}`,
	}, "\n") + "\n"

	var out bytes.Buffer
	if err := serveStdio(context.Background(), d, strings.NewReader(in), &out); err != nil {
		t.Fatalf("serveStdio: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 results (blank line skipped), got %d: %q", len(lines), out.String())
	}

	want := []tools.Status{tools.StatusPass, tools.StatusError, tools.StatusError, tools.StatusNotImplemented}
	for i, line := range lines {
		var res tools.Result
		if err := json.Unmarshal([]byte(line), &res); err != nil {
			t.Fatalf("line %d is not JSON: %v", i, err)
		}
		if res.Status != want[i] {
			t.Fatalf("line %d status: got %s want %s", i, res.Status, want[i])
		}
	}
}

func TestServeStdio_StopsOnCancel(t *testing.T) {
	d, _ := newStdioDispatcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context stops the loop even with input pending.
	r := strings.NewReader(`{"tool_name": "verify_cad_query", "arguments": {}}` + "\n")
	var out bytes.Buffer
	if err := serveStdio(ctx, d, r, &out); err != nil {
		t.Fatalf("serveStdio: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]telemetry.Level{
		"debug": telemetry.LevelDebug,
		"info":  telemetry.LevelInfo,
		"error": telemetry.LevelError,
		"":      telemetry.LevelInfo,
		"junk":  telemetry.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q): got %v want %v", in, got, want)
		}
	}
}
