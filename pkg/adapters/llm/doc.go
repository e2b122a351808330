/*
Package llm provides ports.Generator implementations.

  - Echo: an offline generator for development and tests.
  - OpenAI: Chat Completions through github.com/openai/openai-go.
  - Gemini: Gemini API (or Vertex AI) through google.golang.org/genai.

Every provider error is wrapped with domain.ErrGeneration, and an empty
completion is reported as an error so the engine can fall back.
*/
package llm
