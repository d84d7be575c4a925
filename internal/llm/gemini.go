package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/option"

	"github.com/tbourn/go-recipe-backend/internal/observability"
	"github.com/tbourn/go-recipe-backend/internal/schema"
)

// Gemini calls the Gemini API with a JSON response schema.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini dials the Gemini API.
func NewGemini(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (*Gemini, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Close releases the underlying connection.
func (g *Gemini) Close() error { return g.client.Close() }

// Generate asks for application/json output constrained by req.Schema.
func (g *Gemini) Generate(ctx context.Context, req Request) (out []byte, err error) {
	ctx, span := otel.Tracer("llm/gemini").Start(ctx, "Gemini.Generate")
	span.SetAttributes(attribute.String("llm.model", g.model), attribute.String("llm.contract", req.Name))
	defer span.End()
	start := time.Now()
	defer func() { observability.ObserveUpstream("llm", "gemini."+req.Name, start, err) }()

	m := g.client.GenerativeModel(g.model)
	m.SetTemperature(req.Temperature)
	m.ResponseMIMEType = "application/json"
	if req.Schema != nil {
		m.ResponseSchema = GenaiSchema(req.Schema)
	}

	resp, err := m.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("generate content: %w", err)
	}
	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	return ExtractJSON(text)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	c := resp.Candidates[0]
	if c.Content == nil {
		return "", ErrEmptyResponse
	}
	var b strings.Builder
	for _, p := range c.Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

// GenaiSchema converts a schema to its Gemini form. Numeric bounds and
// closedness have no Gemini equivalent and are enforced by validation.
func GenaiSchema(s *schema.Schema) *genai.Schema {
	out := &genai.Schema{Description: s.Description}
	switch s.Kind {
	case schema.KindObject:
		out.Type = genai.TypeObject
		out.Properties = make(map[string]*genai.Schema, len(s.Fields))
		for _, f := range s.Fields {
			out.Properties[f.Name] = GenaiSchema(f.Schema)
			if !f.Optional {
				out.Required = append(out.Required, f.Name)
			}
		}
	case schema.KindArray:
		out.Type = genai.TypeArray
		out.Items = GenaiSchema(s.Items)
	case schema.KindString:
		out.Type = genai.TypeString
		if len(s.Enum) > 0 {
			out.Format = "enum"
			out.Enum = s.Enum
		}
	case schema.KindNumber:
		out.Type = genai.TypeNumber
	case schema.KindInteger:
		out.Type = genai.TypeInteger
	}
	return out
}
