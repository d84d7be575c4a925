package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

const nutritionOut = `{"calories":180,"protein":1.5,"carbs":42,"fat":0.6,"fiber":5,"sugar":30,"sodium":2,
 "vitamins":{"A":5,"C":12,"D":0,"E":0.4,"K":3,"B1":0.05,"B2":0.06,"B3":0.8,"B6":0.4,"B12":0,"folate":25},
 "minerals":{"calcium":12,"iron":0.5,"magnesium":30,"phosphorus":25,"potassium":450,"zinc":0.2,"copper":0.1,"manganese":0.3,"selenium":1},
 "nutrition_notes":"Riche en potassium et en fibres."}`

func newNutrition(t *testing.T, gen *fakeGen) *NutritionService {
	return &NutritionService{Generator: gen, Prompts: catalog(t), PromptVersion: "v1", Timeout: time.Second}
}

func TestAnalyze_Valid(t *testing.T) {
	gen := &fakeGen{out: nutritionOut}
	got, err := newNutrition(t, gen).Analyze(context.Background(), domain.NutritionRequest{
		Ingredients: []domain.NutritionIngredient{
			{Name: "Pomme", Quantity: json.RawMessage(`2`), Unit: "pièces"},
			{Name: "Banane", Quantity: json.RawMessage(`"150 g"`)},
		},
		Servings:    2,
		RecipeTitle: "Smoothie",
	})
	require.NoError(t, err)
	assert.InDelta(t, 180, got.Calories, 1e-9)
	assert.InDelta(t, 450, got.Minerals.Potassium, 1e-9)
	assert.InDelta(t, 25, got.Vitamins.Folate, 1e-9)

	p := gen.reqs[0].Prompt
	assert.Contains(t, p, "Pomme: 2 pièces, Banane: 150 g")
	assert.Contains(t, p, "RECETTE : Smoothie")
	assert.InDelta(t, 0.1, gen.reqs[0].Temperature, 1e-6)
}

func TestAnalyze_Validation(t *testing.T) {
	gen := &fakeGen{out: nutritionOut}
	s := newNutrition(t, gen)

	_, err := s.Analyze(context.Background(), domain.NutritionRequest{Servings: 1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Analyze(context.Background(), domain.NutritionRequest{
		Ingredients: []domain.NutritionIngredient{{Name: "Pomme"}},
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Analyze(context.Background(), domain.NutritionRequest{
		Ingredients: []domain.NutritionIngredient{{Name: "  "}}, Servings: 1,
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, gen.calls())
}

func TestAnalyze_RejectsShortNotes(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(nutritionOut), &doc))
	doc["nutrition_notes"] = "ok"
	b, _ := json.Marshal(doc)

	_, err := newNutrition(t, &fakeGen{out: string(b)}).Analyze(context.Background(), domain.NutritionRequest{
		Ingredients: []domain.NutritionIngredient{{Name: "Pomme", Quantity: json.RawMessage(`1`)}},
		Servings:    1,
	})
	assert.ErrorIs(t, err, ErrGeneration)
}
