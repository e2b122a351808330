package llm_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/toria/pkg/adapters/llm"
	"github.com/aretw0/toria/pkg/domain"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func history() []domain.Message {
	now := time.Now()
	return []domain.Message{
		domain.NewHumanMessage("Beach ideas?", now),
		domain.NewAssistantMessage("Try Goa.", now),
		domain.NewHumanMessage("And food?", now),
	}
}

func TestEcho(t *testing.T) {
	gen := llm.NewEcho()

	text, err := gen.Generate(context.Background(), "system", history())
	require.NoError(t, err)
	assert.Contains(t, text, "And food?")

	text, err = gen.Generate(context.Background(), "system", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, text)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gen.Generate(ctx, "system", history())
	assert.ErrorIs(t, err, domain.ErrGeneration)
}

func TestOpenAI_Generate(t *testing.T) {
	var received struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "Try the thalis at Ritz Classic."}
			}]
		}`)
	}))
	defer srv.Close()

	gen := llm.NewOpenAI("test-key", "", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	text, err := gen.Generate(context.Background(), "You are Toria", history())
	require.NoError(t, err)
	assert.Equal(t, "Try the thalis at Ritz Classic.", text)

	assert.Equal(t, llm.DefaultOpenAIModel, received.Model)
	require.Len(t, received.Messages, 4)
	assert.Equal(t, "system", received.Messages[0].Role)
	assert.Equal(t, "user", received.Messages[1].Role)
	assert.Equal(t, "assistant", received.Messages[2].Role)
	assert.Equal(t, "And food?", received.Messages[3].Content)
}

func TestOpenAI_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error": {"message": "overloaded", "type": "server_error"}}`)
	}))
	defer srv.Close()

	gen := llm.NewOpenAI("test-key", "gpt-4o", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	_, err := gen.Generate(context.Background(), "You are Toria", history())
	assert.ErrorIs(t, err, domain.ErrGeneration)
}

func TestGemini_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash:generateContent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "Head to Baga beach at sunset."}]},
				"finishReason": "STOP"
			}]
		}`)
	}))
	defer srv.Close()

	ctx := context.Background()
	gen, err := llm.NewGemini(ctx, &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	}, "")
	require.NoError(t, err)

	text, err := gen.Generate(ctx, "You are Toria", history())
	require.NoError(t, err)
	assert.Equal(t, "Head to Baga beach at sunset.", text)
}
