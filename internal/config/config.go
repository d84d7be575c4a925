// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, the Airtable record store, the LLM provider, local bookkeeping
// storage, rate limiting, and observability.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tbourn/go-recipe-backend/internal/sysutil"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Tables names the five Airtable tables the service reads and writes.
type Tables struct {
	Ingredients        string
	Intolerances       string
	Recipes            string
	RecipeIngredients  string
	RecipeInstructions string
}

// AirtableConfig holds the record store connection settings.
type AirtableConfig struct {
	APIKey  string
	BaseID  string
	BaseURL string
	RPS     float64       // outbound pacing, Airtable allows 5 req/s per base
	Timeout time.Duration // per HTTP round trip
	Tables  Tables
}

// LLMConfig selects and configures the structured-generation backend.
type LLMConfig struct {
	Provider      string // gemini|openai
	APIKey        string
	Model         string
	BaseURL       string // openai-compatible endpoints only
	PromptVersion string
	MinRecipes    int
	MaxRecipes    int
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GinMode           string // debug|release|test

	// Per-request deadlines
	RequestTimeout    time.Duration // CRUD and read routes
	GenerationTimeout time.Duration // LLM-backed routes

	// Logging / Docs
	LogLevel       string
	LogPretty      bool
	SwaggerEnabled bool
	APIBasePath    string

	Airtable AirtableConfig
	LLM      LLMConfig

	// Local bookkeeping DB (idempotency records)
	DBDriver string // sqlite|postgres
	DBPath   string
	DBDSN    string

	// Drafts (empty RedisURL disables the draft store)
	RedisURL string
	DraftTTL time.Duration

	// Rate limiting
	RateRPS   float64
	RateBurst int

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	IdempotencyTTL time.Duration

	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		RequestTimeout:    getdur("REQUEST_TIMEOUT", 30*time.Second),
		GenerationTimeout: getdur("GENERATION_TIMEOUT", 45*time.Second),

		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api")),

		Airtable: AirtableConfig{
			APIKey:  sysutil.FirstNonEmpty(os.Getenv("AIRTABLE_API_KEY"), os.Getenv("NEXT_AIRTABLE_API_KEY")),
			BaseID:  sysutil.FirstNonEmpty(os.Getenv("AIRTABLE_BASE_ID"), os.Getenv("NEXT_AIRTABLE_BASE_ID")),
			BaseURL: strings.TrimRight(getenv("AIRTABLE_BASE_URL", "https://api.airtable.com/v0"), "/"),
			RPS:     getfloat("AIRTABLE_RPS", 5),
			Timeout: getdur("AIRTABLE_TIMEOUT", 15*time.Second),
			Tables: Tables{
				Ingredients:        getenv("AIRTABLE_TABLE_INGREDIENTS", "Ingredients"),
				Intolerances:       getenv("AIRTABLE_TABLE_INTOLERANCES", "FoodIntolerances"),
				Recipes:            getenv("AIRTABLE_TABLE_RECIPES", "Recipes"),
				RecipeIngredients:  getenv("AIRTABLE_TABLE_RECIPE_INGREDIENTS", "RecipeIngredientQuantity"),
				RecipeInstructions: getenv("AIRTABLE_TABLE_RECIPE_INSTRUCTIONS", "RecipeInstructions"),
			},
		},

		LLM: LLMConfig{
			Provider:      strings.ToLower(getenv("LLM_PROVIDER", "gemini")),
			Model:         os.Getenv("LLM_MODEL"),
			BaseURL:       strings.TrimRight(getenv("LLM_BASE_URL", "https://api.openai.com/v1"), "/"),
			PromptVersion: getenv("PROMPT_VERSION", "v1"),
			MinRecipes:    getint("RECIPES_MIN", 2),
			MaxRecipes:    getint("RECIPES_MAX", 4),
		},

		DBDriver: strings.ToLower(getenv("DB_DRIVER", "sqlite")),
		DBPath:   getenv("DB_PATH", "recipes.db"),
		DBDSN:    os.Getenv("DB_DSN"),

		RedisURL: os.Getenv("REDIS_URL"),
		DraftTTL: getdur("DRAFT_TTL", 24*time.Hour),

		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-recipe-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	cfg.LLM.APIKey = llmKey(cfg.LLM.Provider)
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultModel(cfg.LLM.Provider)
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	return cfg, cfg.Validate()
}

// Validate checks cross-field constraints. Load calls it; tests building a
// Config literal can call it directly.
func (cfg Config) Validate() error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return errors.New("timeouts must be positive durations")
	}
	if cfg.RequestTimeout <= 0 || cfg.GenerationTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT and GENERATION_TIMEOUT must be > 0")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.Airtable.APIKey) == "" {
		return errors.New("AIRTABLE_API_KEY must not be empty")
	}
	if strings.TrimSpace(cfg.Airtable.BaseID) == "" {
		return errors.New("AIRTABLE_BASE_ID must not be empty")
	}
	if cfg.Airtable.RPS <= 0 {
		return errors.New("AIRTABLE_RPS must be > 0")
	}
	if cfg.Airtable.Timeout <= 0 {
		return errors.New("AIRTABLE_TIMEOUT must be > 0")
	}
	switch cfg.LLM.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("LLM_PROVIDER must be gemini or openai, got %q", cfg.LLM.Provider)
	}
	if cfg.LLM.MinRecipes < 1 || cfg.LLM.MaxRecipes < cfg.LLM.MinRecipes {
		return errors.New("RECIPES_MIN must be >= 1 and <= RECIPES_MAX")
	}
	switch cfg.DBDriver {
	case "sqlite":
		if strings.TrimSpace(cfg.DBPath) == "" {
			return errors.New("DB_PATH must not be empty")
		}
	case "postgres":
		if strings.TrimSpace(cfg.DBDSN) == "" {
			return errors.New("DB_DSN must be set when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", cfg.DBDriver)
	}
	if cfg.RedisURL != "" && cfg.DraftTTL <= 0 {
		return errors.New("DRAFT_TTL must be > 0")
	}
	if cfg.RateRPS < 0 {
		return errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	return nil
}

func llmKey(provider string) string {
	switch provider {
	case "openai":
		return sysutil.FirstNonEmpty(os.Getenv("LLM_API_KEY"), os.Getenv("OPENAI_API_KEY"), os.Getenv("NEXT_OPENAI_API_KEY"))
	default:
		return sysutil.FirstNonEmpty(os.Getenv("LLM_API_KEY"), os.Getenv("GEMINI_API_KEY"))
	}
}

func defaultModel(provider string) string {
	if provider == "openai" {
		return "gpt-4o-mini"
	}
	return "gemini-1.5-flash"
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures a leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}
