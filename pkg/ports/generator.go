package ports

import (
	"context"

	"github.com/aretw0/toria/pkg/domain"
)

// Generator is the language-model boundary: a system prompt and the message
// history in, generated text out. Implementations wrap provider errors
// (timeout, upstream, malformed output) with domain.ErrGeneration.
type Generator interface {
	Generate(ctx context.Context, systemPrompt string, history []domain.Message) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, systemPrompt string, history []domain.Message) (string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, systemPrompt string, history []domain.Message) (string, error) {
	return f(ctx, systemPrompt, history)
}
