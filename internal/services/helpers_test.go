package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-recipe-backend/internal/airtable/airtabletest"
	"github.com/tbourn/go-recipe-backend/internal/config"
	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/llm"
	"github.com/tbourn/go-recipe-backend/internal/prompts"
	"github.com/tbourn/go-recipe-backend/internal/repo"
)

var testTables = config.Tables{
	Ingredients:        "Ingredients",
	Intolerances:       "FoodIntolerances",
	Recipes:            "Recipes",
	RecipeIngredients:  "RecipeIngredientQuantity",
	RecipeInstructions: "RecipeInstructions",
}

func newRecords(t *testing.T) (*repo.Records, *airtabletest.Server) {
	t.Helper()
	srv := airtabletest.New(t)
	return repo.NewRecords(srv.Client(), testTables), srv
}

func catalog(t *testing.T) *prompts.Catalog {
	t.Helper()
	c, err := prompts.Default()
	require.NoError(t, err)
	return c
}

// fakeGen returns a canned response and records requests.
type fakeGen struct {
	mu   sync.Mutex
	out  string
	err  error
	reqs []llm.Request
	ctx  context.Context
}

func (f *fakeGen) Generate(ctx context.Context, req llm.Request) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	f.ctx = ctx
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.out), nil
}

func (f *fakeGen) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

// memDrafts is an in-memory draft store.
type memDrafts struct {
	mu      sync.Mutex
	items   map[string]domain.GeneratedRecipe
	seq     int
	saveErr error
}

func newMemDrafts() *memDrafts { return &memDrafts{items: map[string]domain.GeneratedRecipe{}} }

func (m *memDrafts) Save(_ context.Context, r domain.GeneratedRecipe) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.seq++
	id := "draft-" + string(rune('0'+m.seq))
	r.DraftID = id
	m.items[id] = r
	return id, nil
}

func (m *memDrafts) Get(_ context.Context, id string) (*domain.GeneratedRecipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &r, nil
}

func (m *memDrafts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

var errBoom = errors.New("boom")
