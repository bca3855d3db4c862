package provider

import (
	"context"
	"errors"
	"testing"
)

type scriptedGenerator struct {
	out string
	err error
}

func (g scriptedGenerator) GenerateText(context.Context, string) (string, error) {
	return g.out, g.err
}

func TestModelVerdict_Pass(t *testing.T) {
	v := NewModelVerdict(scriptedGenerator{out: "PASS\nAll dimensions match."})
	pass, analysis, err := v.Judge(context.Background(), "code", "10x10x10 box")
	if err != nil {
		t.Fatalf("Judge: %v", err)
	}
	if !pass {
		t.Fatal("expected pass verdict")
	}
	if analysis != "All dimensions match." {
		t.Fatalf("analysis: got %q", analysis)
	}
}

func TestModelVerdict_FailWithLowercaseToken(t *testing.T) {
	v := NewModelVerdict(scriptedGenerator{out: "fail\nNo handle found."})
	pass, analysis, err := v.Judge(context.Background(), "code", "mug with handle")
	if err != nil {
		t.Fatalf("Judge: %v", err)
	}
	if pass {
		t.Fatal("expected fail verdict")
	}
	if analysis != "No handle found." {
		t.Fatalf("analysis: got %q", analysis)
	}
}

func TestModelVerdict_UnparseableOutput(t *testing.T) {
	v := NewModelVerdict(scriptedGenerator{out: "maybe?"})
	_, _, err := v.Judge(context.Background(), "code", "criteria")
	var ese *ExternalServiceError
	if !errors.As(err, &ese) {
		t.Fatalf("expected ExternalServiceError, got %T: %v", err, err)
	}
}

func TestModelVerdict_NilGenerator(t *testing.T) {
	v := NewModelVerdict(nil)
	_, _, err := v.Judge(context.Background(), "code", "criteria")
	var ese *ExternalServiceError
	if !errors.As(err, &ese) {
		t.Fatalf("expected ExternalServiceError, got %T: %v", err, err)
	}
}

func TestModelVerdict_GeneratorError(t *testing.T) {
	want := errors.New("timeout")
	v := NewModelVerdict(scriptedGenerator{err: want})
	_, _, err := v.Judge(context.Background(), "code", "criteria")
	if !errors.Is(err, want) {
		t.Fatalf("expected wrapped generator error, got %v", err)
	}
}

func TestFromName_NoneDisablesGeneration(t *testing.T) {
	for _, name := range []string{"", "none", "NONE"} {
		gen, err := FromName(context.Background(), name, "")
		if err != nil {
			t.Fatalf("FromName(%q): %v", name, err)
		}
		if gen != nil {
			t.Fatalf("FromName(%q): expected nil generator", name)
		}
	}
}

func TestFromName_UnknownProvider(t *testing.T) {
	if _, err := FromName(context.Background(), "delphi", ""); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
