package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/http/middleware"
	"github.com/tbourn/go-recipe-backend/internal/services"
)

// CatalogService manages ingredients and intolerances.
type CatalogService interface {
	ListIngredients(ctx context.Context) ([]domain.Ingredient, error)
	// CreateIngredient reports created=false when the name already exists.
	CreateIngredient(ctx context.Context, name string) (*domain.Ingredient, bool, error)
	UpdateIngredient(ctx context.Context, id, name string) (*domain.Ingredient, error)
	DeleteIngredient(ctx context.Context, id string) error

	ListIntolerances(ctx context.Context) ([]domain.Intolerance, error)
	CreateIntolerance(ctx context.Context, f services.IntoleranceFields) (*domain.Intolerance, error)
	UpdateIntolerance(ctx context.Context, id string, f services.IntoleranceFields) (*domain.Intolerance, error)
	DeleteIntolerance(ctx context.Context, id string) error
}

// RecipeService reads, writes and deletes stored recipes and drafts.
type RecipeService interface {
	List(ctx context.Context) ([]domain.Recipe, error)
	Get(ctx context.Context, id string) (*domain.Recipe, error)
	Save(ctx context.Context, in domain.GeneratedRecipe) (*domain.Recipe, error)
	Delete(ctx context.Context, id string) error

	Draft(ctx context.Context, id string) (*domain.GeneratedRecipe, error)
	SaveDraft(ctx context.Context, draftID string) (*domain.Recipe, error)
}

// GenerationService produces validated recipe proposals.
type GenerationService interface {
	Generate(ctx context.Context, req domain.GenerationRequest) ([]domain.GeneratedRecipe, error)
}

// NutritionService estimates nutrition values.
type NutritionService interface {
	Analyze(ctx context.Context, req domain.NutritionRequest) (*domain.Nutrition, error)
}

// IdempotencyStore keeps completed responses keyed by (scope, key).
type IdempotencyStore interface {
	Get(ctx context.Context, scope, key string) (*domain.Idempotency, error)
	Put(ctx context.Context, scope, key, resourceID string, status int, body []byte) error
}

// Deps are the services behind the handlers. Idempotency is optional.
type Deps struct {
	Catalog     CatalogService
	Recipes     RecipeService
	Generation  GenerationService
	Nutrition   NutritionService
	Idempotency IdempotencyStore
}

// Handlers groups every endpoint of the API.
type Handlers struct {
	catalog    CatalogService
	recipes    RecipeService
	generation GenerationService
	nutrition  NutritionService
	idem       IdempotencyStore
}

// New returns Handlers bound to d.
func New(d Deps) *Handlers {
	return &Handlers{
		catalog:    d.Catalog,
		recipes:    d.Recipes,
		generation: d.Generation,
		nutrition:  d.Nutrition,
		idem:       d.Idempotency,
	}
}

// replay writes the recorded response when IdempotencyValidator flagged
// the request as a replay. It reports whether a response was written.
func (h *Handlers) replay(c *gin.Context) bool {
	if h.idem == nil || !middleware.IsReplay(c) {
		return false
	}
	key, _ := middleware.GetIdempotencyKey(c)
	rec, err := h.idem.Get(c.Request.Context(), middleware.IdempotencyScope(c), key)
	if err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotent replay unavailable")
		return false
	}
	c.Header(middleware.HeaderIdempotencyReplayed, "true")
	c.Data(rec.Status, "application/json; charset=utf-8", rec.Body)
	return true
}

// respond writes body with status and, when the request carries an
// idempotency key, records the exact bytes for later replays.
func (h *Handlers) respond(c *gin.Context, status int, resourceID string, body any) {
	key, hasKey := middleware.GetIdempotencyKey(c)
	if h.idem == nil || !hasKey {
		ok(c, status, body)
		return
	}
	raw, err := json.Marshal(body)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not encode response")
		return
	}
	if err := h.idem.Put(c.Request.Context(), middleware.IdempotencyScope(c), key, resourceID, status, raw); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency record not stored")
	}
	c.Data(status, "application/json; charset=utf-8", raw)
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return false
	}
	return true
}
