package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/toria/pkg/domain"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini generates replies with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini generator from a client configuration.
// Use genai.BackendGeminiAPI with an API key, or genai.BackendVertexAI with
// a project and location.
func NewGemini(ctx context.Context, cfg *genai.ClientConfig, model string) (*Gemini, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Gemini{
		client: client,
		model:  model,
	}, nil
}

// Generate implements ports.Generator.
func (g *Gemini) Generate(ctx context.Context, systemPrompt string, history []domain.Message) (string, error) {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	temp := float32(0.7)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       &temp,
	}

	res, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: gemini generate content: %w", domain.ErrGeneration, err)
	}

	text := strings.TrimSpace(res.Text())
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned empty text", domain.ErrGeneration)
	}
	return text, nil
}
