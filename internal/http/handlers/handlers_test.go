package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/http/middleware"
	"github.com/tbourn/go-recipe-backend/internal/repo"
	"github.com/tbourn/go-recipe-backend/internal/services"
)

func init() { gin.SetMode(gin.TestMode) }

// svcErr builds service errors of a given kind the way services do.
func svcErr(kind error, msg string) error {
	return &services.Error{Kind: kind, Msg: msg, Err: errors.New("cause detail")}
}

type fakeCatalog struct {
	ingredients  []domain.Ingredient
	intolerances []domain.Intolerance
	created      bool
	err          error

	gotID     string
	gotName   string
	gotFields services.IntoleranceFields
}

func (f *fakeCatalog) ListIngredients(context.Context) ([]domain.Ingredient, error) {
	return f.ingredients, f.err
}

func (f *fakeCatalog) CreateIngredient(_ context.Context, name string) (*domain.Ingredient, bool, error) {
	f.gotName = name
	if f.err != nil {
		return nil, false, f.err
	}
	return &domain.Ingredient{ID: "recNew", Name: name}, f.created, nil
}

func (f *fakeCatalog) UpdateIngredient(_ context.Context, id, name string) (*domain.Ingredient, error) {
	f.gotID, f.gotName = id, name
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Ingredient{ID: id, Name: name}, nil
}

func (f *fakeCatalog) DeleteIngredient(_ context.Context, id string) error {
	f.gotID = id
	return f.err
}

func (f *fakeCatalog) ListIntolerances(context.Context) ([]domain.Intolerance, error) {
	return f.intolerances, f.err
}

func (f *fakeCatalog) CreateIntolerance(_ context.Context, in services.IntoleranceFields) (*domain.Intolerance, error) {
	f.gotFields = in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Intolerance{ID: "recInt", Name: in.Name, SeverityLevel: in.SeverityLevel}, nil
}

func (f *fakeCatalog) UpdateIntolerance(_ context.Context, id string, in services.IntoleranceFields) (*domain.Intolerance, error) {
	f.gotID, f.gotFields = id, in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Intolerance{ID: id, Name: in.Name}, nil
}

func (f *fakeCatalog) DeleteIntolerance(_ context.Context, id string) error {
	f.gotID = id
	return f.err
}

type fakeRecipes struct {
	recipes []domain.Recipe
	draft   *domain.GeneratedRecipe
	err     error

	saves     int
	saved     domain.GeneratedRecipe
	draftSave string
	deleted   string
}

func (f *fakeRecipes) List(context.Context) ([]domain.Recipe, error) { return f.recipes, f.err }

func (f *fakeRecipes) Get(_ context.Context, id string) (*domain.Recipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.recipes {
		if f.recipes[i].ID == id {
			return &f.recipes[i], nil
		}
	}
	return nil, svcErr(services.ErrNotFound, "recipe not found")
}

func (f *fakeRecipes) Save(_ context.Context, in domain.GeneratedRecipe) (*domain.Recipe, error) {
	f.saves++
	f.saved = in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Recipe{ID: fmt.Sprintf("rec%d", f.saves), Title: in.Title, Servings: in.Servings}, nil
}

func (f *fakeRecipes) Delete(_ context.Context, id string) error {
	f.deleted = id
	return f.err
}

func (f *fakeRecipes) Draft(_ context.Context, id string) (*domain.GeneratedRecipe, error) {
	if f.draft == nil || f.draft.DraftID != id {
		return nil, svcErr(services.ErrNotFound, "draft not found")
	}
	return f.draft, nil
}

func (f *fakeRecipes) SaveDraft(ctx context.Context, id string) (*domain.Recipe, error) {
	f.draftSave = id
	d, err := f.Draft(ctx, id)
	if err != nil {
		return nil, err
	}
	return f.Save(ctx, *d)
}

type fakeGeneration struct {
	got   domain.GenerationRequest
	calls int
	err   error
}

func (f *fakeGeneration) Generate(_ context.Context, req domain.GenerationRequest) ([]domain.GeneratedRecipe, error) {
	f.calls++
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return []domain.GeneratedRecipe{{Title: fmt.Sprintf("Tarte %d", f.calls), Servings: req.Servings}}, nil
}

type fakeNutrition struct {
	got domain.NutritionRequest
	err error
}

func (f *fakeNutrition) Analyze(_ context.Context, req domain.NutritionRequest) (*domain.Nutrition, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Nutrition{Calories: 420, NutritionNotes: "Estimation raisonnable."}, nil
}

// memIdem mirrors repo.IdempotencyStore in memory.
type memIdem struct{ recs map[string]domain.Idempotency }

func newMemIdem() *memIdem { return &memIdem{recs: map[string]domain.Idempotency{}} }

func (m *memIdem) Get(_ context.Context, scope, key string) (*domain.Idempotency, error) {
	r, ok := m.recs[scope+"|"+key]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &r, nil
}

func (m *memIdem) Put(_ context.Context, scope, key, id string, status int, body []byte) error {
	m.recs[scope+"|"+key] = domain.Idempotency{Scope: scope, Key: key, ResourceID: id, Status: status, Body: body}
	return nil
}

type fixture struct {
	catalog    *fakeCatalog
	recipes    *fakeRecipes
	generation *fakeGeneration
	nutrition  *fakeNutrition
	idem       *memIdem
	router     *gin.Engine
}

func newFixture() *fixture {
	f := &fixture{
		catalog:    &fakeCatalog{},
		recipes:    &fakeRecipes{},
		generation: &fakeGeneration{},
		nutrition:  &fakeNutrition{},
		idem:       newMemIdem(),
	}
	h := New(Deps{
		Catalog:     f.catalog,
		Recipes:     f.recipes,
		Generation:  f.generation,
		Nutrition:   f.nutrition,
		Idempotency: f.idem,
	})

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{},
		func(ctx context.Context, scope, key string, _ time.Time) (bool, error) {
			_, err := f.idem.Get(ctx, scope, key)
			return err == nil, nil
		}))
	r.GET("/ingredients", h.ListIngredients)
	r.POST("/ingredients", h.CreateIngredient)
	r.PATCH("/ingredients", h.UpdateIngredient)
	r.DELETE("/ingredients", h.DeleteIngredient)
	r.GET("/intolerances", h.ListIntolerances)
	r.POST("/intolerances", h.CreateIntolerance)
	r.PATCH("/intolerances", h.UpdateIntolerance)
	r.DELETE("/intolerances", h.DeleteIntolerance)
	r.GET("/recipes", h.ListRecipes)
	r.POST("/recipes", h.GenerateRecipes)
	r.GET("/recipes/:id", h.GetRecipe)
	r.POST("/recipes/save", h.SaveRecipe)
	r.DELETE("/recipes/delete", h.DeleteRecipe)
	r.POST("/recipes/analyze-nutrition", h.AnalyzeNutrition)
	r.GET("/drafts/:id", h.GetDraft)
	f.router = r
	return f
}

func (f *fixture) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	assert.Equal(t, w.Header().Get("X-Request-ID"), e.RequestID)
	return e
}
