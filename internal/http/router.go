// Package httpapi wires Gin to the recipe services: middleware, handlers,
// health, metrics and API docs.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/docs"
	"github.com/tbourn/go-recipe-backend/internal/config"
	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/http/handlers"
	"github.com/tbourn/go-recipe-backend/internal/http/middleware"
	"github.com/tbourn/go-recipe-backend/internal/llm"
	"github.com/tbourn/go-recipe-backend/internal/prompts"
	"github.com/tbourn/go-recipe-backend/internal/repo"
	"github.com/tbourn/go-recipe-backend/internal/services"
)

const maxBodyBytes = 1 << 20

// DraftStore keeps generated recipes between generation and save.
type DraftStore interface {
	Save(ctx context.Context, r domain.GeneratedRecipe) (string, error)
	Get(ctx context.Context, id string) (*domain.GeneratedRecipe, error)
	Delete(ctx context.Context, id string) error
}

// Deps are the process-level resources the routes run on.
type Deps struct {
	// DB holds idempotency records.
	DB *gorm.DB
	// Records is the record store client.
	Records *repo.Records
	// Generator is the language model backend.
	Generator llm.Generator
	// Prompts defaults to the embedded catalog.
	Prompts *prompts.Catalog
	// Drafts is optional.
	Drafts DraftStore
}

// RegisterRoutes installs middleware and mounts every endpoint on r.
//
// Middleware order:
//  1. OpenTelemetry server spans
//  2. RequestID
//  3. RedactingLogger, then the request logger
//  4. Recovery
//  5. Body size limit and gzip
//  6. Metrics
//  7. Idempotency validator, before the limiter so replays bypass it
//  8. Rate limiter
//  9. CORS and security headers
//
// Each API route then gets its own deadline: GenerationTimeout for calls
// that wait on the model, RequestTimeout for the rest.
func RegisterRoutes(r *gin.Engine, d Deps, cfg config.Config) error {
	if d.Prompts == nil {
		c, err := prompts.Default()
		if err != nil {
			return err
		}
		d.Prompts = c
	}
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-Api-Key", "X-Airtable-Key", "X-Goog-Api-Key"},
	}))
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	idem := repo.IdempotencyStore{DB: d.DB, TTL: cfg.IdempotencyTTL}
	var lookup middleware.IdempotencyLookup
	if d.DB != nil {
		lookup = idem.Exists
	}
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, lookup))

	r.Use(middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP()).Handler())

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(buildDeps(d, idem, cfg))

	crud := middleware.Deadline(cfg.RequestTimeout)
	slow := middleware.Deadline(cfg.GenerationTimeout)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.GET("/ingredients", crud, h.ListIngredients)
		api.POST("/ingredients", crud, h.CreateIngredient)
		api.PATCH("/ingredients", crud, h.UpdateIngredient)
		api.DELETE("/ingredients", crud, h.DeleteIngredient)

		api.GET("/intolerances", crud, h.ListIntolerances)
		api.POST("/intolerances", crud, h.CreateIntolerance)
		api.PATCH("/intolerances", crud, h.UpdateIntolerance)
		api.DELETE("/intolerances", crud, h.DeleteIntolerance)

		api.GET("/recipes", crud, h.ListRecipes)
		api.POST("/recipes", slow, h.GenerateRecipes)
		api.POST("/recipes/save", crud, h.SaveRecipe)
		api.DELETE("/recipes/delete", crud, h.DeleteRecipe)
		api.POST("/recipes/analyze-nutrition", slow, h.AnalyzeNutrition)
		api.GET("/recipes/:id", crud, h.GetRecipe)

		api.GET("/drafts/:id", crud, h.GetDraft)
	}
	return nil
}

// buildDeps assembles the services behind the handlers.
func buildDeps(d Deps, idem repo.IdempotencyStore, cfg config.Config) handlers.Deps {
	catalog := d.Prompts
	gen := &services.GenerationService{
		Generator:     d.Generator,
		Prompts:       catalog,
		PromptVersion: cfg.LLM.PromptVersion,
		MinRecipes:    cfg.LLM.MinRecipes,
		MaxRecipes:    cfg.LLM.MaxRecipes,
		Timeout:       cfg.GenerationTimeout,
	}
	recipes := &services.RecipeService{
		Records:  d.Records,
		Resolver: &services.Resolver{Records: d.Records},
	}
	if d.Drafts != nil {
		gen.Drafts = d.Drafts
		recipes.Drafts = d.Drafts
	}

	out := handlers.Deps{
		Catalog:    &services.CatalogService{Records: d.Records},
		Recipes:    recipes,
		Generation: gen,
		Nutrition: &services.NutritionService{
			Generator:     d.Generator,
			Prompts:       catalog,
			PromptVersion: cfg.LLM.PromptVersion,
			Timeout:       cfg.GenerationTimeout,
		},
	}
	if d.DB != nil {
		out.Idempotency = idem
	}
	return out
}

// corsMiddleware allows every origin when the allowlist is empty, and echoes
// allowlisted origins otherwise.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey},
		ExposeHeaders: []string{"X-Request-ID", "Content-Length", middleware.HeaderIdempotencyReplayed},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 {
		base.AllowAllOrigins = true
		// Set ACAO even without an Origin header so plain clients see it too.
		star := func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		}
		return []gin.HandlerFunc{star, cors.New(base)}
	}

	base.AllowOrigins = origins
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	echo := func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
		}
		c.Next()
	}
	return []gin.HandlerFunc{echo, cors.New(base)}
}

// limitBody caps request bodies at maxBytes.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
