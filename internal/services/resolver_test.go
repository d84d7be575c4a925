package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-recipe-backend/internal/airtable/airtabletest"
	"github.com/tbourn/go-recipe-backend/internal/domain"
)

func seedSalad(srv *airtabletest.Server) {
	srv.Seed("Ingredients", "rec1", map[string]any{"Name": "Pomme"})
	srv.Seed("Ingredients", "rec2", map[string]any{"Name": "Banane"})
	srv.Seed("Ingredients", "rec4", map[string]any{})
	srv.Seed("Recipes", "recR", map[string]any{"Title": "Salade", "Description": "Fraîche", "Servings": 2, "PrepTimeMinutes": 10})
	srv.Seed("Recipes", "recS", map[string]any{"Title": "Compote"})
	srv.Seed("RecipeIngredientQuantity", "j1", map[string]any{"Recipe": []string{"recR"}, "Ingredient": []string{"rec1"}, "Quantity": 2, "Unit": "pièces"})
	srv.Seed("RecipeIngredientQuantity", "j2", map[string]any{"Recipe": []string{"recR"}, "Ingredient": []string{"rec2"}, "Quantity": "150,5 g"})
	srv.Seed("RecipeIngredientQuantity", "j3", map[string]any{"Recipe": []string{"recR"}, "Ingredient": []string{"recGone"}, "Quantity": "abc", "Unit": "kg"})
	srv.Seed("RecipeIngredientQuantity", "j4", map[string]any{"Recipe": []string{"recS"}, "Ingredient": []string{"rec4"}})
	srv.Seed("RecipeInstructions", "i1", map[string]any{"Recipe": []string{"recR"}, "Instruction": "Mélanger", "Order": 2})
	srv.Seed("RecipeInstructions", "i2", map[string]any{"Recipe": []string{"recR"}, "Instruction": "Couper", "Order": 1})
	srv.Seed("RecipeInstructions", "i3", map[string]any{"Recipe": []string{"recR"}, "Instruction": "Préparer"})
	srv.Seed("RecipeInstructions", "i4", map[string]any{"Recipe": []string{"recS"}, "Instruction": "Cuire", "Order": 1})
}

func TestResolve_AssemblesJoins(t *testing.T) {
	rec, srv := newRecords(t)
	seedSalad(srv)
	r := &Resolver{Records: rec}

	got, err := r.Resolve(context.Background(), "recR")
	require.NoError(t, err)
	assert.Equal(t, "Salade", got.Title)
	assert.Equal(t, 2, got.Servings)
	assert.Equal(t, []domain.RecipeIngredient{
		{ID: "rec1", Name: "Pomme", Quantity: 2, Unit: "pièces"},
		{ID: "rec2", Name: "Banane", Quantity: 150.5, Unit: "g"},
		{ID: "recGone", Name: UnknownIngredientName, Quantity: 0, Unit: "kg"},
	}, got.Ingredients)
	assert.Equal(t, []domain.Instruction{
		{Text: "Préparer", Order: 0},
		{Text: "Couper", Order: 1},
		{Text: "Mélanger", Order: 2},
	}, got.Instructions)
}

func TestResolve_CatalogEntryWithoutNameFallsBackToID(t *testing.T) {
	rec, srv := newRecords(t)
	seedSalad(srv)

	got, err := (&Resolver{Records: rec}).Resolve(context.Background(), "recS")
	require.NoError(t, err)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "rec4", got.Ingredients[0].Name)
}

func TestResolve_Errors(t *testing.T) {
	rec, srv := newRecords(t)
	seedSalad(srv)
	r := &Resolver{Records: rec}

	_, err := r.Resolve(context.Background(), "recMissing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Resolve(context.Background(), " ")
	assert.ErrorIs(t, err, ErrValidation)

	srv.Fail(http.MethodGet, "RecipeInstructions", 1)
	got, err := r.Resolve(context.Background(), "recR")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Nil(t, got)
}

func TestResolveAll_SortedByTitleWithJoins(t *testing.T) {
	rec, srv := newRecords(t)
	seedSalad(srv)

	got, err := (&Resolver{Records: rec}).ResolveAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Compote", got[0].Title)
	assert.Equal(t, "Salade", got[1].Title)
	assert.Len(t, got[1].Ingredients, 3)
	assert.Equal(t, []domain.Instruction{{Text: "Cuire", Order: 1}}, got[0].Instructions)
}

func TestResolveAll_Empty(t *testing.T) {
	rec, _ := newRecords(t)
	got, err := (&Resolver{Records: rec}).ResolveAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolveAll_FailureAborts(t *testing.T) {
	rec, srv := newRecords(t)
	seedSalad(srv)
	srv.Fail(http.MethodGet, "Ingredients", 1)

	got, err := (&Resolver{Records: rec}).ResolveAll(context.Background())
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Nil(t, got)
}

func TestResolve_MalformedUnrelatedRowIsSkipped(t *testing.T) {
	rec, srv := newRecords(t)
	seedSalad(srv)
	srv.Seed("Recipes", "recX", map[string]any{"Title": "Tarte", "Servings": "quatre"})
	srv.Seed("RecipeInstructions", "iX", map[string]any{"Recipe": []string{"recX"}, "Instruction": "Cuire", "Order": "3"})
	srv.Seed("RecipeIngredientQuantity", "jX", map[string]any{"Recipe": "recX", "Ingredient": []string{"rec1"}})
	r := &Resolver{Records: rec}

	got, err := r.Resolve(context.Background(), "recR")
	require.NoError(t, err)
	assert.Len(t, got.Ingredients, 3)
	assert.Len(t, got.Instructions, 3)

	all, err := r.ResolveAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Compote", all[0].Title)
	assert.Equal(t, "Salade", all[1].Title)

	_, err = r.Resolve(context.Background(), "recX")
	assert.Error(t, err)
}
