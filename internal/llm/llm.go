// Package llm adapts structured-output language model APIs to a single
// Generator interface. Callers pass a rendered prompt and a schema; the
// generator returns the raw JSON document the model produced. Validation
// against the schema is the caller's job.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tbourn/go-recipe-backend/internal/config"
	"github.com/tbourn/go-recipe-backend/internal/schema"
)

var (
	// ErrNotConfigured is returned by generators built without credentials.
	ErrNotConfigured = errors.New("llm: no API key configured")
	// ErrEmptyResponse is returned when the model produced no content.
	ErrEmptyResponse = errors.New("llm: empty response")
	// ErrNoJSON is returned when no JSON object can be located in the output.
	ErrNoJSON = errors.New("llm: no JSON object in response")
)

// Request is one structured generation call.
type Request struct {
	// Name labels the output contract (recipes, nutrition).
	Name        string
	Prompt      string
	Schema      *schema.Schema
	Temperature float32
}

// Generator produces a JSON document for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]byte, error)
}

// New builds the generator selected by cfg. A missing API key yields a
// generator that fails every call with ErrNotConfigured, so the server can
// still serve the catalog routes.
func New(ctx context.Context, cfg config.LLMConfig, httpClient *http.Client) (Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Unconfigured{}, nil
	}
	switch cfg.Provider {
	case "openai":
		return NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model, httpClient), nil
	case "gemini", "":
		return NewGemini(ctx, cfg.APIKey, cfg.Model)
	}
	return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
}

// Unconfigured fails every call.
type Unconfigured struct{}

func (Unconfigured) Generate(context.Context, Request) ([]byte, error) {
	return nil, ErrNotConfigured
}

// ExtractJSON returns the span between the first '{' and the last '}' of
// text. Models sometimes wrap JSON in markdown fences or prose.
func ExtractJSON(text string) ([]byte, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || start > end {
		return nil, ErrNoJSON
	}
	return []byte(text[start : end+1]), nil
}
