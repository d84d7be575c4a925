// Package prompts renders the versioned prompt catalog embedded in
// prompts.yaml. Each entry carries its own sampling temperature.
package prompts

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// Prompt ids.
const (
	Recipes   = "recipes"
	Nutrition = "nutrition"
)

// ErrUnknownPrompt is returned for an id/version pair absent from the catalog.
var ErrUnknownPrompt = errors.New("unknown prompt")

//go:embed prompts.yaml
var catalogYAML []byte

// Entry is one catalog item.
type Entry struct {
	ID          string  `yaml:"id"`
	Version     string  `yaml:"version"`
	Temperature float32 `yaml:"temperature"`
	Template    string  `yaml:"template"`

	tmpl *template.Template
}

// Rendered is a prompt ready to send.
type Rendered struct {
	ID          string
	Version     string
	Text        string
	Temperature float32
}

// RecipesData feeds the recipes prompt.
type RecipesData struct {
	Ingredients  []domain.Ingredient
	Intolerances []string
	Servings     int
	MinRecipes   int
	MaxRecipes   int
}

// NutritionLine is one ingredient line of the nutrition prompt.
type NutritionLine struct {
	Name     string
	Quantity float64
	Unit     string
}

// NutritionData feeds the nutrition prompt.
type NutritionData struct {
	Ingredients []NutritionLine
	Servings    float64
	Title       string
}

// Catalog is a parsed prompt catalog.
type Catalog struct {
	entries map[string]*Entry
}

var funcs = template.FuncMap{
	"join": strings.Join,
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
	"num": func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) },
}

// Parse builds a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Prompts []*Entry `yaml:"prompts"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse prompt catalog: %w", err)
	}
	c := &Catalog{entries: make(map[string]*Entry, len(doc.Prompts))}
	for _, e := range doc.Prompts {
		if e.ID == "" || e.Version == "" {
			return nil, errors.New("prompt entry needs id and version")
		}
		k := key(e.ID, e.Version)
		if _, dup := c.entries[k]; dup {
			return nil, fmt.Errorf("duplicate prompt %s", k)
		}
		t, err := template.New(k).Funcs(funcs).Option("missingkey=error").Parse(e.Template)
		if err != nil {
			return nil, fmt.Errorf("prompt %s: %w", k, err)
		}
		e.tmpl = t
		c.entries[k] = e
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(catalogYAML)
	})
	return defaultCatalog, defaultErr
}

// Versions lists the versions available for id.
func (c *Catalog) Versions(id string) []string {
	var out []string
	for _, e := range c.entries {
		if e.ID == id {
			out = append(out, e.Version)
		}
	}
	return out
}

// Render executes the template id@version with data.
func (c *Catalog) Render(id, version string, data any) (Rendered, error) {
	e, ok := c.entries[key(id, version)]
	if !ok {
		return Rendered{}, fmt.Errorf("%w: %s", ErrUnknownPrompt, key(id, version))
	}
	var b strings.Builder
	if err := e.tmpl.Execute(&b, data); err != nil {
		return Rendered{}, fmt.Errorf("render prompt %s: %w", key(id, version), err)
	}
	return Rendered{ID: id, Version: version, Text: b.String(), Temperature: e.Temperature}, nil
}

func key(id, version string) string { return id + "@" + version }
