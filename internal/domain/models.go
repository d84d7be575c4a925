// Package domain defines the view types exchanged between the services and
// the HTTP layer: catalog entries, resolved recipes, generated recipes and
// nutrition estimates. Record-store row shapes live in package repo.
package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// Ingredient is a catalog entry.
type Ingredient struct {
	ID   string `json:"id"   example:"recA1b2C3"`
	Name string `json:"name" example:"Pomme"`
}

// Intolerance is a catalog entry describing a food intolerance. RecipeIDs is
// the back-reference list maintained by the save path.
type Intolerance struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"                     example:"Lactose"`
	Description   string   `json:"description,omitempty"`
	SeverityLevel string   `json:"severity_level,omitempty" example:"moderate"`
	RecipeIDs     []string `json:"recipe_ids,omitempty"`
}

// RecipeIngredient is one resolved ingredient line of a recipe.
type RecipeIngredient struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Instruction is one ordered preparation step.
type Instruction struct {
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// Recipe is the nested view assembled from a recipe row and its join rows.
type Recipe struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Servings        int                `json:"servings"`
	PrepTimeMinutes int                `json:"prep_time_minutes"`
	CookTimeMinutes int                `json:"cook_time_minutes"`
	CreatedTime     time.Time          `json:"created_time"`
	Ingredients     []RecipeIngredient `json:"ingredients"`
	Instructions    []Instruction      `json:"instructions"`
}

// MissingIngredient is a suggested addition the user did not select. It
// never carries a catalog id.
type MissingIngredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// GeneratedRecipe is a validated generator output, not yet persisted.
type GeneratedRecipe struct {
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Servings           int                 `json:"servings"`
	PrepTimeMinutes    int                 `json:"prep_time_minutes"`
	CookTimeMinutes    int                 `json:"cook_time_minutes"`
	Ingredients        []RecipeIngredient  `json:"ingredients"`
	Instructions       []Instruction       `json:"instructions"`
	MissingIngredients []MissingIngredient `json:"missing_ingredients,omitempty"`

	// Intolerances lists the intolerance ids the recipe was generated for.
	// The save path appends the new recipe id to each of them.
	Intolerances []string `json:"intolerances,omitempty"`
	// DraftID is set when the draft store kept a copy of this recipe.
	DraftID string `json:"draft_id,omitempty"`
}

// IntoleranceRef is an intolerance as sent by clients: either a catalog
// object {id, name} or a bare name string.
type IntoleranceRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts both the object and the string form.
func (r *IntoleranceRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = IntoleranceRef{Name: s}
		return nil
	}
	if len(b) > 0 && b[0] == '{' {
		type plain IntoleranceRef
		var p plain
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}
		*r = IntoleranceRef(p)
		return nil
	}
	return errors.New("intolerance must be an object or a string")
}

// Label is the text used in prompts.
func (r IntoleranceRef) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// GenerationRequest is the input of recipe generation.
type GenerationRequest struct {
	Ingredients  []Ingredient     `json:"ingredients"`
	Intolerances []IntoleranceRef `json:"intolerances"`
	Servings     int              `json:"servings"`
}

// NutritionIngredient is one ingredient line submitted for analysis.
type NutritionIngredient struct {
	Name     string          `json:"name"`
	Quantity json.RawMessage `json:"quantity" swaggertype:"string"`
	Unit     string          `json:"unit"`
}

// NutritionRequest is the input of nutrition analysis.
type NutritionRequest struct {
	Ingredients []NutritionIngredient `json:"ingredients"`
	Servings    float64               `json:"servings"`
	RecipeTitle string                `json:"recipeTitle"`
}

// Vitamins per serving, in the units customary for each vitamin.
type Vitamins struct {
	A      float64 `json:"A"`
	C      float64 `json:"C"`
	D      float64 `json:"D"`
	E      float64 `json:"E"`
	K      float64 `json:"K"`
	B1     float64 `json:"B1"`
	B2     float64 `json:"B2"`
	B3     float64 `json:"B3"`
	B6     float64 `json:"B6"`
	B12    float64 `json:"B12"`
	Folate float64 `json:"folate"`
}

// Minerals per serving, in mg unless customary otherwise.
type Minerals struct {
	Calcium    float64 `json:"calcium"`
	Iron       float64 `json:"iron"`
	Magnesium  float64 `json:"magnesium"`
	Phosphorus float64 `json:"phosphorus"`
	Potassium  float64 `json:"potassium"`
	Zinc       float64 `json:"zinc"`
	Copper     float64 `json:"copper"`
	Manganese  float64 `json:"manganese"`
	Selenium   float64 `json:"selenium"`
}

// Nutrition is a per-serving estimate produced by the generator.
type Nutrition struct {
	Calories       float64  `json:"calories"`
	Protein        float64  `json:"protein"`
	Carbs          float64  `json:"carbs"`
	Fat            float64  `json:"fat"`
	Fiber          float64  `json:"fiber"`
	Sugar          float64  `json:"sugar"`
	Sodium         float64  `json:"sodium"`
	Vitamins       Vitamins `json:"vitamins"`
	Minerals       Minerals `json:"minerals"`
	NutritionNotes string   `json:"nutrition_notes"`
}
