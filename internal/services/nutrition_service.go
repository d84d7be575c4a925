// Package services
//
// This file implements NutritionService, a thin wrapper that renders the
// nutrition prompt and validates the per-serving estimate against
// schema.Nutrition.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/llm"
	"github.com/tbourn/go-recipe-backend/internal/prompts"
	"github.com/tbourn/go-recipe-backend/internal/quantity"
	"github.com/tbourn/go-recipe-backend/internal/schema"
)

// NutritionService estimates per-serving nutrition values of a recipe.
type NutritionService struct {
	// Generator answers the rendered prompt with JSON.
	Generator llm.Generator
	// Prompts and PromptVersion select the nutrition template.
	Prompts       *prompts.Catalog
	PromptVersion string
	// Timeout bounds the generator call. Zero means no extra deadline.
	Timeout time.Duration
}

// Analyze returns a validated nutrition estimate for the given ingredients.
//
// Quantities arrive as free JSON (a number, "250 g", "1/2"). They are parsed
// with package quantity; an explicit unit on the line wins over the one
// found in the quantity text. An empty ingredient list or a non-positive
// serving count is an ErrValidation and the generator is not called.
func (s *NutritionService) Analyze(ctx context.Context, req domain.NutritionRequest) (*domain.Nutrition, error) {
	ctx, span := otel.Tracer("services/NutritionService").Start(ctx, "Analyze",
		trace.WithAttributes(attribute.Int("ingredients.count", len(req.Ingredients))),
	)
	defer span.End()

	if len(req.Ingredients) == 0 {
		return nil, invalid("at least one ingredient is required")
	}
	if req.Servings <= 0 {
		return nil, invalid("servings must be a positive number")
	}

	lines := make([]prompts.NutritionLine, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		name := strings.TrimSpace(ing.Name)
		if name == "" {
			return nil, invalid("each ingredient needs a name")
		}
		q := quantity.FromJSON(ing.Quantity)
		unit := strings.TrimSpace(ing.Unit)
		if unit == "" {
			unit = q.Unit
		}
		lines = append(lines, prompts.NutritionLine{Name: name, Quantity: q.Quantity, Unit: unit})
	}

	prompt, err := s.Prompts.Render(prompts.Nutrition, s.PromptVersion, prompts.NutritionData{
		Ingredients: lines,
		Servings:    req.Servings,
		Title:       strings.TrimSpace(req.RecipeTitle),
	})
	if err != nil {
		return nil, fmt.Errorf("render nutrition prompt: %w", err)
	}

	payload, err := generateValidated(ctx, s.Generator, s.Timeout, llm.Request{
		Name:        prompts.Nutrition,
		Prompt:      prompt.Text,
		Schema:      schema.Nutrition(),
		Temperature: prompt.Temperature,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var out domain.Nutrition
	if err := decodeStrict(payload, &out); err != nil {
		return nil, generation("nutrition generation failed", err)
	}
	return &out, nil
}
