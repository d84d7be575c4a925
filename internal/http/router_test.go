package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-recipe-backend/internal/airtable/airtabletest"
	"github.com/tbourn/go-recipe-backend/internal/config"
	"github.com/tbourn/go-recipe-backend/internal/llm"
	"github.com/tbourn/go-recipe-backend/internal/repo"
)

const crumble = `{"recipes":[{"title":"Crumble","description":"Croustillant","servings":1,
 "prep_time_minutes":15,"cook_time_minutes":30,
 "ingredients":[{"id":"rec1","name":"Pomme","quantity":2,"unit":"pièces"}],
 "instructions":[{"text":"Couper les pommes","order":1},{"text":"Enfourner","order":2}]}]}`

type cannedGen struct{ out string }

func (g cannedGen) Generate(context.Context, llm.Request) ([]byte, error) {
	return []byte(g.out), nil
}

var tables = config.Tables{
	Ingredients:        "Ingredients",
	Intolerances:       "FoodIntolerances",
	Recipes:            "Recipes",
	RecipeIngredients:  "RecipeIngredientQuantity",
	RecipeInstructions: "RecipeInstructions",
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(db))
	return db
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath:       "/api",
		RateRPS:           1000,
		RateBurst:         1000,
		RequestTimeout:    5 * time.Second,
		GenerationTimeout: 5 * time.Second,
		IdempotencyTTL:    time.Hour,
		OTEL:              config.OTELConfig{ServiceName: "recipes-test"},
		LLM:               config.LLMConfig{PromptVersion: "v1", MinRecipes: 2, MaxRecipes: 4},
	}
}

type app struct {
	srv *airtabletest.Server
	r   *gin.Engine
}

func newApp(t *testing.T, cfg config.Config) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := airtabletest.New(t)
	srv.Seed("Ingredients", "rec1", map[string]any{"Name": "Pomme"})

	r := gin.New()
	err := RegisterRoutes(r, Deps{
		DB:        newTestDB(t),
		Records:   repo.NewRecords(srv.Client(), tables),
		Generator: cannedGen{out: crumble},
	}, cfg)
	require.NoError(t, err)
	return &app{srv: srv, r: r}
}

func (a *app) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes_HealthMetricsFallbacks(t *testing.T) {
	a := newApp(t, testConfig())

	w := a.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = a.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	w = a.do(http.MethodGet, "/api/nope", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"not_found"`)

	w = a.do(http.MethodPut, "/api/ingredients", `{}`)
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"method_not_allowed"`)

	w = a.do(http.MethodGet, "/swagger/index.html", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterRoutes_CORSAllowlist(t *testing.T) {
	cfg := testConfig()
	cfg.CORS.AllowedOrigins = []string{"https://chef.example"}
	a := newApp(t, cfg)

	w := a.do(http.MethodGet, "/health", "", "Origin", "https://chef.example")
	assert.Equal(t, "https://chef.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = a.do(http.MethodGet, "/health", "", "Origin", "https://evil.example")
	assert.NotEqual(t, "https://evil.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRegisterRoutes_Swagger(t *testing.T) {
	cfg := testConfig()
	cfg.SwaggerEnabled = true
	a := newApp(t, cfg)

	w := a.do(http.MethodGet, "/swagger/index.html", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"basePath": "/api"`)
	assert.Contains(t, w.Body.String(), `"/recipes/save"`)
}

func TestRegisterRoutes_GenerateSaveReadDelete(t *testing.T) {
	a := newApp(t, testConfig())

	w := a.do(http.MethodGet, "/api/ingredients", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":"rec1","name":"Pomme"}]`, w.Body.String())

	w = a.do(http.MethodPost, "/api/recipes", `{"ingredients":[{"id":"rec1","name":"Pomme"}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var gen struct {
		Recipes []json.RawMessage `json:"recipes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gen))
	require.Len(t, gen.Recipes, 1)

	save := fmt.Sprintf(`{"recipe":%s}`, gen.Recipes[0])
	first := a.do(http.MethodPost, "/api/recipes/save", save, "Idempotency-Key", "save-crumble")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := a.do(http.MethodPost, "/api/recipes/save", save, "Idempotency-Key", "save-crumble")
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, a.srv.Count(http.MethodPost, "Recipes"))

	var saved struct {
		ID           string `json:"id"`
		Title        string `json:"title"`
		Instructions []struct {
			Order int `json:"order"`
		} `json:"instructions"`
	}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &saved))
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, "Crumble", saved.Title)

	w = a.do(http.MethodGet, "/api/recipes/"+saved.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Pomme"`)

	w = a.do(http.MethodDelete, "/api/recipes/delete", fmt.Sprintf(`{"recipeId":%q}`, saved.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = a.do(http.MethodGet, "/api/recipes/"+saved.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterRoutes_DraftsDisabled(t *testing.T) {
	a := newApp(t, testConfig())
	w := a.do(http.MethodGet, "/api/drafts/abc", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"draft not found"`)
}

func TestGroupWithPrefix_Root(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	groupWithPrefix(r, "/").GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
