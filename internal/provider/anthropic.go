package provider

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
)

const DefaultAnthropicModel = anthropic.ModelClaude3_7SonnetLatest

// maxGenerationTokens bounds a single generated script.
const maxGenerationTokens = 4096

// AnthropicGenerator adapts the Anthropic Messages API to TextGenerator.
// The SDK reads ANTHROPIC_API_KEY from the environment.
type AnthropicGenerator struct {
	client *anthropic.Client
	model  anthropic.Model
}

var _ TextGenerator = (*AnthropicGenerator)(nil)

// NewAnthropicGenerator returns a generator for the given model, defaulting
// when model is empty.
func NewAnthropicGenerator(model string) *AnthropicGenerator {
	c := anthropic.NewClient()
	m := DefaultAnthropicModel
	if model != "" {
		m = anthropic.Model(model)
	}
	return &AnthropicGenerator{client: &c, model: m}
}

func (g *AnthropicGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: int64(maxGenerationTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", &ExternalServiceError{Provider: "anthropic", Err: err}
	}

	var out string
	for _, block := range msg.Content {
		if v, ok := block.AsAny().(anthropic.TextBlock); ok {
			out += v.Text
		}
	}
	return out, nil
}
