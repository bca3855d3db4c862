// Package provider wraps external text-generation services behind a single
// narrow interface so the rest of the system is agnostic to which vendor is
// configured, and tests can substitute a deterministic stand-in.
package provider

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// TextGenerator is the pass-through contract: one prompt in, raw text out.
// No retry, validation, or post-processing happens behind it.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ExternalServiceError marks a failed call to an external inference service.
type ExternalServiceError struct {
	Provider string
	Err      error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: external service call failed: %v", e.Provider, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// FromName builds the generator named by provider ("anthropic", "openai",
// "gemini"). Empty or "none" disables generation and returns a nil generator,
// which callers treat as the not-implemented variant. API keys come from the
// conventional environment variables.
func FromName(ctx context.Context, name, model string) (TextGenerator, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return nil, nil
	case "anthropic":
		return NewAnthropicGenerator(model), nil
	case "openai":
		return NewOpenAIGenerator(os.Getenv("OPENAI_API_KEY"), model)
	case "gemini":
		return NewGeminiGenerator(ctx, os.Getenv("GEMINI_API_KEY"), model)
	default:
		return nil, fmt.Errorf("unknown generation provider %q", name)
	}
}
