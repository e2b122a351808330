package llm

import (
	"context"
	"fmt"

	"github.com/aretw0/toria/pkg/domain"
)

// Echo is an offline generator that acknowledges the latest human message.
type Echo struct{}

// NewEcho creates an Echo generator.
func NewEcho() *Echo {
	return &Echo{}
}

// Generate implements ports.Generator.
func (Echo) Generate(ctx context.Context, systemPrompt string, history []domain.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.RoleHuman {
			return fmt.Sprintf("You said: %q. Tell me more about your trip!", history[i].Content), nil
		}
	}
	return "Hi, I'm Toria! Where are you headed?", nil
}
