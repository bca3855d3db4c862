package tools_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/printforge/cadbridge/internal/telemetry"
	"github.com/printforge/cadbridge/tools"
)

type fakeGenerator struct {
	out     string
	err     error
	prompts []string
}

func (f *fakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

func callGenerate(t *testing.T, def tools.ToolDefinition, in tools.GenerateInput) (*tools.Result, error) {
	t.Helper()
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal input: %v", err)
	}
	return def.Handler(context.Background(), raw)
}

func testLogger() *telemetry.Logger {
	return telemetry.New("test", &bytes.Buffer{})
}

func TestGenerate_NotImplementedWithoutGenerator(t *testing.T) {
	def := tools.NewGenerateTool(nil, testLogger())

	res, err := callGenerate(t, def, tools.GenerateInput{
		Description: "simple box",
		Parameters:  "10x10x10 mm",
	})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.Status != tools.StatusNotImplemented {
		t.Fatalf("status: got %s want NOT_IMPLEMENTED", res.Status)
	}
	if res.Payload["description"] != "simple box" || res.Payload["parameters"] != "10x10x10 mm" {
		t.Fatalf("inputs not echoed: %v", res.Payload)
	}
}

func TestGenerate_PassThroughSuccess(t *testing.T) {
	gen := &fakeGenerator{out: "import cadquery as cq\nshow_object(result)\n"}
	def := tools.NewGenerateTool(gen, testLogger())

	res, err := callGenerate(t, def, tools.GenerateInput{
		Description: "simple box",
		Parameters:  "10x10x10 mm",
	})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.Status != tools.StatusSuccess {
		t.Fatalf("status: got %s want SUCCESS", res.Status)
	}
	// Pass-through: the model output lands in generated_code unmodified.
	if res.Payload["generated_code"] != gen.out {
		t.Fatalf("generated_code: got %q", res.Payload["generated_code"])
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("expected one model call, got %d", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "simple box") || !strings.Contains(gen.prompts[0], "10x10x10 mm") {
		t.Fatalf("prompt missing inputs: %q", gen.prompts[0])
	}
	if !strings.Contains(gen.prompts[0], "show_object(result)") {
		t.Fatalf("prompt must state the show-result convention: %q", gen.prompts[0])
	}
}

func TestGenerate_ExternalFailureBecomesErrorResult(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("rate limited")}
	def := tools.NewGenerateTool(gen, testLogger())

	res, err := callGenerate(t, def, tools.GenerateInput{Description: "simple box"})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if res.Status != tools.StatusError {
		t.Fatalf("status: got %s want ERROR", res.Status)
	}
	if !strings.Contains(res.Message, "rate limited") {
		t.Fatalf("message should carry the caught error: %q", res.Message)
	}
	if _, ok := res.Payload["generated_code"]; ok {
		t.Fatal("generated_code must be absent on ERROR")
	}
}

func TestGenerate_EmptyDescriptionNeverReachesModel(t *testing.T) {
	gen := &fakeGenerator{out: "code"}
	def := tools.NewGenerateTool(gen, testLogger())

	_, err := callGenerate(t, def, tools.GenerateInput{Description: "   "})
	if err == nil {
		t.Fatal("expected error for blank description")
	}
	if len(gen.prompts) != 0 {
		t.Fatalf("model must not be called with an empty prompt, got %d calls", len(gen.prompts))
	}
}
