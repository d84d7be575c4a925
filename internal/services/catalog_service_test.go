package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

func TestIngredients_CRUD(t *testing.T) {
	rec, srv := newRecords(t)
	srv.Seed("Ingredients", "rec1", map[string]any{"Name": "Pomme"})
	s := &CatalogService{Records: rec}
	ctx := context.Background()

	ing, created, err := s.CreateIngredient(ctx, "  Banane   plantain ")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Banane plantain", ing.Name)

	again, created, err := s.CreateIngredient(ctx, "POMME")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "rec1", again.ID)

	list, err := s.ListIngredients(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Ingredient{{ID: ing.ID, Name: "Banane plantain"}, {ID: "rec1", Name: "Pomme"}}, list)

	up, err := s.UpdateIngredient(ctx, "rec1", "Pomme verte")
	require.NoError(t, err)
	assert.Equal(t, "Pomme verte", up.Name)

	require.NoError(t, s.DeleteIngredient(ctx, "rec1"))
	assert.ErrorIs(t, s.DeleteIngredient(ctx, "rec1"), ErrNotFound)
}

func TestIngredients_Validation(t *testing.T) {
	rec, _ := newRecords(t)
	s := &CatalogService{Records: rec}
	ctx := context.Background()

	_, _, err := s.CreateIngredient(ctx, "   ")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.UpdateIngredient(ctx, "", "x")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.UpdateIngredient(ctx, "rec1", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.UpdateIngredient(ctx, "recNope", "x")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteIngredient(ctx, " "), ErrValidation)
}

func TestIngredients_UpstreamFailure(t *testing.T) {
	rec, srv := newRecords(t)
	srv.Fail(http.MethodGet, "Ingredients", 1)
	_, err := (&CatalogService{Records: rec}).ListIngredients(context.Background())
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestIntolerances_CRUD(t *testing.T) {
	rec, srv := newRecords(t)
	s := &CatalogService{Records: rec}
	ctx := context.Background()

	in, err := s.CreateIntolerance(ctx, IntoleranceFields{Name: "Lactose", SeverityLevel: "moderate"})
	require.NoError(t, err)
	assert.Equal(t, "moderate", in.SeverityLevel)
	assert.NotContains(t, srv.Records("FoodIntolerances")[in.ID], "Description")

	up, err := s.UpdateIntolerance(ctx, in.ID, IntoleranceFields{Name: "Lactose", Description: "Lait"})
	require.NoError(t, err)
	assert.Equal(t, "Lait", up.Description)
	assert.Equal(t, "moderate", up.SeverityLevel)

	list, err := s.ListIntolerances(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = s.CreateIntolerance(ctx, IntoleranceFields{})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.UpdateIntolerance(ctx, in.ID, IntoleranceFields{Description: "x"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.UpdateIntolerance(ctx, "recNope", IntoleranceFields{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteIntolerance(ctx, in.ID))
	assert.ErrorIs(t, s.DeleteIntolerance(ctx, in.ID), ErrNotFound)
}
