package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/toria/pkg/domain"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAI generates replies with the Chat Completions API.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI creates an OpenAI generator. Extra request options (base URL,
// retries, HTTP client) are passed through to the SDK.
func NewOpenAI(apiKey, model string, opts ...option.RequestOption) *OpenAI {
	if model == "" {
		model = DefaultOpenAIModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Generate implements ports.Generator.
func (o *OpenAI) Generate(ctx context.Context, systemPrompt string, history []domain.Message) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	for _, m := range history {
		switch m.Role {
		case domain.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.model),
		Messages:    messages,
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai chat completion: %w", domain.ErrGeneration, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", domain.ErrGeneration)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: openai returned empty text", domain.ErrGeneration)
	}
	return text, nil
}
