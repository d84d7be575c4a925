// Package services
//
// This file implements GenerationService, the structured generation path.
// A request carries the ingredients the user picked, optional intolerances
// and a serving count. The service renders the versioned recipes prompt,
// builds the response contract from the submitted ids, and accepts the
// generator answer only when every recipe in it satisfies that contract.
//
// Checks that the contract cannot express run after decoding: instruction
// orders must be exactly 1..M and each ingredient must keep the name it was
// submitted with. A single bad recipe rejects the whole answer with
// ErrGeneration; nothing is retried here.
//
// When a draft store is configured each accepted recipe is kept under a
// draft id so the client can save it later without posting it back.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/llm"
	"github.com/tbourn/go-recipe-backend/internal/prompts"
	"github.com/tbourn/go-recipe-backend/internal/schema"
)

// DraftSaver keeps validated recipes for a limited time.
type DraftSaver interface {
	Save(ctx context.Context, r domain.GeneratedRecipe) (string, error)
}

// GenerationService turns a set of selected ingredients into validated
// recipe proposals.
type GenerationService struct {
	Generator     llm.Generator
	Prompts       *prompts.Catalog
	PromptVersion string

	// Advisory recipe count range written into the prompt.
	MinRecipes int
	MaxRecipes int

	// Timeout bounds the generator call. Zero means no extra deadline.
	Timeout time.Duration

	// Drafts is optional.
	Drafts DraftSaver
}

// Generate validates the request, asks the generator for recipes and
// returns them only if the whole response satisfies the recipe contract.
func (s *GenerationService) Generate(ctx context.Context, req domain.GenerationRequest) ([]domain.GeneratedRecipe, error) {
	ctx, span := otel.Tracer("services/GenerationService").Start(ctx, "Generate",
		trace.WithAttributes(
			attribute.Int("ingredients.count", len(req.Ingredients)),
			attribute.Int("servings", req.Servings),
		),
	)
	defer span.End()

	ingredients, err := normalizeIngredients(req.Ingredients)
	if err != nil {
		return nil, err
	}
	if req.Servings <= 0 {
		return nil, invalid("servings must be a positive integer")
	}
	labels, intoleranceIDs := intoleranceLabels(req.Intolerances)

	ids := make([]string, len(ingredients))
	names := make(map[string]string, len(ingredients))
	for i, ing := range ingredients {
		ids[i] = ing.ID
		names[ing.ID] = ing.Name
	}
	contract := schema.Recipes(ids, req.Servings)

	prompt, err := s.Prompts.Render(prompts.Recipes, s.PromptVersion, prompts.RecipesData{
		Ingredients:  ingredients,
		Intolerances: labels,
		Servings:     req.Servings,
		MinRecipes:   s.MinRecipes,
		MaxRecipes:   s.MaxRecipes,
	})
	if err != nil {
		return nil, fmt.Errorf("render recipes prompt: %w", err)
	}

	payload, err := generateValidated(ctx, s.Generator, s.Timeout, llm.Request{
		Name:        prompts.Recipes,
		Prompt:      prompt.Text,
		Schema:      contract,
		Temperature: prompt.Temperature,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var out struct {
		Recipes []domain.GeneratedRecipe `json:"recipes"`
	}
	if err := decodeStrict(payload, &out); err != nil {
		return nil, generation("recipe generation failed", err)
	}
	for i := range out.Recipes {
		if err := checkOrders(out.Recipes[i].Instructions); err != nil {
			return nil, generation("recipe generation failed", fmt.Errorf("recipe %d: %w", i, err))
		}
		if err := checkNames(out.Recipes[i].Ingredients, names); err != nil {
			return nil, generation("recipe generation failed", fmt.Errorf("recipe %d: %w", i, err))
		}
		sortInstructions(out.Recipes[i].Instructions)
		out.Recipes[i].Intolerances = intoleranceIDs
	}

	if s.Drafts != nil {
		for i := range out.Recipes {
			id, err := s.Drafts.Save(ctx, out.Recipes[i])
			if err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("draft store unavailable")
				continue
			}
			out.Recipes[i].DraftID = id
		}
	}

	span.SetAttributes(attribute.Int("recipes.count", len(out.Recipes)))
	return out.Recipes, nil
}

// generateValidated calls gen under timeout and checks the JSON it returns
// against req.Schema. The returned payload is the conformed one, with
// integral floats in integer fields rewritten, so it decodes into int
// fields. Every failure is an ErrGeneration.
func generateValidated(ctx context.Context, gen llm.Generator, timeout time.Duration, req llm.Request) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	payload, err := gen.Generate(ctx, req)
	if err != nil {
		return nil, generation(req.Name+" generation failed", err)
	}
	conformed, err := req.Schema.Conform(payload)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("contract", req.Name).Msg("generator response rejected")
		return nil, generation(req.Name+" generation failed", err)
	}
	return conformed, nil
}

func decodeStrict(payload []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// normalizeIngredients trims, checks and deduplicates by id, keeping the
// first occurrence.
func normalizeIngredients(in []domain.Ingredient) ([]domain.Ingredient, error) {
	if len(in) == 0 {
		return nil, invalid("at least one ingredient is required")
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]domain.Ingredient, 0, len(in))
	for _, ing := range in {
		ing.ID = strings.TrimSpace(ing.ID)
		ing.Name = strings.TrimSpace(ing.Name)
		if ing.ID == "" || ing.Name == "" {
			return nil, invalid("each ingredient needs an id and a name")
		}
		if _, dup := seen[ing.ID]; dup {
			continue
		}
		seen[ing.ID] = struct{}{}
		out = append(out, ing)
	}
	return out, nil
}

func intoleranceLabels(refs []domain.IntoleranceRef) (labels, ids []string) {
	for _, r := range refs {
		if l := strings.TrimSpace(r.Label()); l != "" {
			labels = append(labels, l)
		}
		if id := strings.TrimSpace(r.ID); id != "" {
			ids = append(ids, id)
		}
	}
	return labels, ids
}

// checkOrders requires the instruction orders to be exactly 1..M.
func checkOrders(steps []domain.Instruction) error {
	orders := make([]int, len(steps))
	for i, st := range steps {
		orders[i] = st.Order
	}
	sort.Ints(orders)
	for i, o := range orders {
		if o != i+1 {
			return fmt.Errorf("instruction orders must be 1..%d without gaps or duplicates", len(steps))
		}
	}
	return nil
}

// checkNames requires each ingredient to carry the name it was submitted
// with, ignoring case and surrounding spaces. The stored name replaces the
// generated one.
func checkNames(ings []domain.RecipeIngredient, names map[string]string) error {
	for i := range ings {
		want, ok := names[ings[i].ID]
		if !ok {
			return fmt.Errorf("ingredient %q was not submitted", ings[i].ID)
		}
		if !strings.EqualFold(strings.TrimSpace(ings[i].Name), want) {
			return fmt.Errorf("ingredient %q is %q, not %q", ings[i].ID, want, ings[i].Name)
		}
		ings[i].Name = want
	}
	return nil
}

func sortInstructions(steps []domain.Instruction) {
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })
}
