package provider

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

const DefaultOpenAIModel = openai.GPT4o

// chatClient captures the subset of the go-openai client used by the adapter.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (
		openai.ChatCompletionResponse, error)
}

// OpenAIGenerator adapts the OpenAI Chat Completions API to TextGenerator.
type OpenAIGenerator struct {
	chat  chatClient
	model string
}

var _ TextGenerator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator constructs a generator using the default go-openai HTTP
// client, defaulting the model when empty.
func NewOpenAIGenerator(apiKey, model string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("openai API key cannot be empty")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIGenerator{chat: openai.NewClient(apiKey), model: model}, nil
}

func (g *OpenAIGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", &ExternalServiceError{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ExternalServiceError{Provider: "openai", Err: errors.New("empty response")}
	}
	return resp.Choices[0].Message.Content, nil
}
