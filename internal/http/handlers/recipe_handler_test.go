package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/http/middleware"
	"github.com/tbourn/go-recipe-backend/internal/services"
)

func TestListAndGetRecipes(t *testing.T) {
	f := newFixture()
	f.recipes.recipes = []domain.Recipe{{ID: "rec1", Title: "Crumble"}}

	w := f.do(http.MethodGet, "/recipes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Crumble"`)

	w = f.do(http.MethodGet, "/recipes/rec1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"rec1"`)

	w = f.do(http.MethodGet, "/recipes/missing", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "recipe not found", decodeError(t, w).Message)
}

func TestGenerateRecipes_DefaultsServings(t *testing.T) {
	f := newFixture()
	w := f.do(http.MethodPost, "/recipes", `{"ingredients":[{"id":"rec1","name":"Pomme"}],"intolerances":["Lactose",{"id":"recG","name":"Gluten"}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1, f.generation.got.Servings)
	assert.Equal(t, []domain.IntoleranceRef{{Name: "Lactose"}, {ID: "recG", Name: "Gluten"}}, f.generation.got.Intolerances)
	assert.JSONEq(t, `{"recipes":[{"title":"Tarte 1","description":"","servings":1,"prep_time_minutes":0,"cook_time_minutes":0,"ingredients":null,"instructions":null}]}`, w.Body.String())
}

func TestGenerateRecipes_ExplicitServings(t *testing.T) {
	f := newFixture()
	w := f.do(http.MethodPost, "/recipes", `{"ingredients":[{"id":"rec1","name":"Pomme"}],"servings":4}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, f.generation.got.Servings)
}

func TestGenerateRecipes_GenerationFailure(t *testing.T) {
	f := newFixture()
	f.generation.err = svcErr(services.ErrGeneration, "generator response violates the recipe contract")
	w := f.do(http.MethodPost, "/recipes", `{"ingredients":[{"id":"rec1","name":"Pomme"}]}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, ErrCodeGeneration, decodeError(t, w).Code)
}

func TestGenerateRecipes_ReplaysWithKey(t *testing.T) {
	f := newFixture()
	body := `{"ingredients":[{"id":"rec1","name":"Pomme"}]}`

	first := f.do(http.MethodPost, "/recipes", body, middleware.HeaderIdempotencyKey, "gen-1")
	require.Equal(t, http.StatusOK, first.Code)
	second := f.do(http.MethodPost, "/recipes", body, middleware.HeaderIdempotencyKey, "gen-1")
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, 1, f.generation.calls)
	assert.Equal(t, "true", second.Header().Get(middleware.HeaderIdempotencyReplayed))
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestSaveRecipe_FromBody(t *testing.T) {
	f := newFixture()
	w := f.do(http.MethodPost, "/recipes/save", `{"recipe":{"title":"Crumble","servings":2,"ingredients":[{"id":"rec1","name":"Pomme","quantity":3,"unit":"pièce"}]}}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Crumble", f.recipes.saved.Title)
	assert.Equal(t, 3.0, f.recipes.saved.Ingredients[0].Quantity)
	assert.Contains(t, w.Body.String(), `"id":"rec1"`)
}

func TestSaveRecipe_FromDraft(t *testing.T) {
	f := newFixture()
	f.recipes.draft = &domain.GeneratedRecipe{Title: "Tarte", DraftID: "d-1"}

	w := f.do(http.MethodPost, "/recipes/save", `{"draftId":" d-1 "}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "d-1", f.recipes.draftSave)

	w = f.do(http.MethodPost, "/recipes/save", `{"draftId":"gone"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaveRecipe_RequiresRecipe(t *testing.T) {
	f := newFixture()
	w := f.do(http.MethodPost, "/recipes/save", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, ErrCodeValidation, e.Code)
	assert.Equal(t, "recipe is required", e.Message)
	assert.Zero(t, f.recipes.saves)
}

func TestSaveRecipe_IdempotentReplay(t *testing.T) {
	f := newFixture()
	body := `{"recipe":{"title":"Crumble","servings":1}}`

	first := f.do(http.MethodPost, "/recipes/save", body, middleware.HeaderIdempotencyKey, "save-1")
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Empty(t, first.Header().Get(middleware.HeaderIdempotencyReplayed))

	second := f.do(http.MethodPost, "/recipes/save", body, middleware.HeaderIdempotencyKey, "save-1")
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(middleware.HeaderIdempotencyReplayed))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, f.recipes.saves)

	// A different key writes again.
	third := f.do(http.MethodPost, "/recipes/save", body, middleware.HeaderIdempotencyKey, "save-2")
	require.Equal(t, http.StatusCreated, third.Code)
	assert.Equal(t, 2, f.recipes.saves)
	assert.Contains(t, f.idem.recs, "POST /recipes/save|save-1")
}

func TestDeleteRecipe(t *testing.T) {
	f := newFixture()
	w := f.do(http.MethodDelete, "/recipes/delete", `{"recipeId":"rec7"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Equal(t, "rec7", f.recipes.deleted)

	f.recipes.err = svcErr(services.ErrValidation, "recipe id is required")
	w = f.do(http.MethodDelete, "/recipes/delete", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDraft(t *testing.T) {
	f := newFixture()
	f.recipes.draft = &domain.GeneratedRecipe{Title: "Tarte", DraftID: "d-1"}

	w := f.do(http.MethodGet, "/drafts/d-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"draft_id":"d-1"`)

	w = f.do(http.MethodGet, "/drafts/other", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}
