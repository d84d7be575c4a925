// Package services
//
// This file implements CatalogService, the CRUD surface over the ingredient
// and intolerance tables. Ingredient names are trimmed and compared
// case-folded so "Pomme" and "pomme" resolve to one catalog entry.
package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/repo"
)

// IntoleranceFields are the writable fields of an intolerance.
type IntoleranceFields struct {
	Name          string
	Description   string
	SeverityLevel string
}

// CatalogService manages the ingredient and intolerance catalogs.
//
// All methods wrap store failures as ErrUpstream and missing records as
// ErrNotFound, so handlers can map them without looking at repo errors.
type CatalogService struct {
	// Records is the typed Airtable access layer.
	Records *repo.Records
}

// folded builds a fresh Caser per call; Casers are stateful.
func folded(s string) string { return cases.Fold().String(s) }

// normalizeName trims and collapses inner whitespace.
func normalizeName(s string) string { return strings.Join(strings.Fields(s), " ") }

func ingredient(r repo.IngredientRow) domain.Ingredient {
	return domain.Ingredient{ID: r.ID, Name: r.Name}
}

func intolerance(r repo.IntoleranceRow) domain.Intolerance {
	return domain.Intolerance{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		SeverityLevel: r.SeverityLevel,
		RecipeIDs:     r.RecipeIDs,
	}
}

// ListIngredients returns the catalog sorted by name.
func (s *CatalogService) ListIngredients(ctx context.Context) ([]domain.Ingredient, error) {
	ctx, span := otel.Tracer("services/CatalogService").Start(ctx, "ListIngredients")
	defer span.End()

	rows, err := s.Records.ListIngredients(ctx)
	if err != nil {
		return nil, upstream("could not list ingredients", err)
	}
	out := make([]domain.Ingredient, len(rows))
	for i, r := range rows {
		out[i] = ingredient(r)
	}
	return out, nil
}

// CreateIngredient adds name to the catalog. When an entry with the same
// case-folded name exists it is returned with created=false.
func (s *CatalogService) CreateIngredient(ctx context.Context, name string) (ing *domain.Ingredient, created bool, err error) {
	ctx, span := otel.Tracer("services/CatalogService").Start(ctx, "CreateIngredient")
	defer span.End()

	name = normalizeName(name)
	if name == "" {
		return nil, false, invalid("name is required")
	}

	rows, err := s.Records.ListIngredients(ctx)
	if err != nil {
		return nil, false, upstream("could not list ingredients", err)
	}
	key := folded(name)
	for _, r := range rows {
		if folded(normalizeName(r.Name)) == key {
			existing := ingredient(r)
			return &existing, false, nil
		}
	}

	row, err := s.Records.CreateIngredient(ctx, name)
	if err != nil {
		return nil, false, upstream("could not create ingredient", err)
	}
	out := ingredient(row)
	return &out, true, nil
}

// UpdateIngredient renames an ingredient.
func (s *CatalogService) UpdateIngredient(ctx context.Context, id, name string) (*domain.Ingredient, error) {
	ctx, span := otel.Tracer("services/CatalogService").Start(ctx, "UpdateIngredient",
		trace.WithAttributes(attribute.String("ingredient.id", id)),
	)
	defer span.End()

	id, name = strings.TrimSpace(id), normalizeName(name)
	if id == "" {
		return nil, invalid("id is required")
	}
	if name == "" {
		return nil, invalid("name is required")
	}
	row, err := s.Records.UpdateIngredient(ctx, id, name)
	if err != nil {
		return nil, storeErr("could not update ingredient", "ingredient not found", err)
	}
	out := ingredient(row)
	return &out, nil
}

// DeleteIngredient removes an ingredient.
func (s *CatalogService) DeleteIngredient(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("services/CatalogService").Start(ctx, "DeleteIngredient",
		trace.WithAttributes(attribute.String("ingredient.id", id)),
	)
	defer span.End()

	if id = strings.TrimSpace(id); id == "" {
		return invalid("id is required")
	}
	if err := s.Records.DeleteIngredient(ctx, id); err != nil {
		return storeErr("could not delete ingredient", "ingredient not found", err)
	}
	return nil
}

// ListIntolerances returns the intolerance catalog sorted by name.
func (s *CatalogService) ListIntolerances(ctx context.Context) ([]domain.Intolerance, error) {
	ctx, span := otel.Tracer("services/CatalogService").Start(ctx, "ListIntolerances")
	defer span.End()

	rows, err := s.Records.ListIntolerances(ctx)
	if err != nil {
		return nil, upstream("could not list intolerances", err)
	}
	out := make([]domain.Intolerance, len(rows))
	for i, r := range rows {
		out[i] = intolerance(r)
	}
	return out, nil
}

func (f IntoleranceFields) input() repo.IntoleranceInput {
	return repo.IntoleranceInput{
		Name:          normalizeName(f.Name),
		Description:   strings.TrimSpace(f.Description),
		SeverityLevel: strings.TrimSpace(f.SeverityLevel),
	}
}

// CreateIntolerance adds an intolerance.
func (s *CatalogService) CreateIntolerance(ctx context.Context, f IntoleranceFields) (*domain.Intolerance, error) {
	ctx, span := otel.Tracer("services/CatalogService").Start(ctx, "CreateIntolerance")
	defer span.End()

	in := f.input()
	if in.Name == "" {
		return nil, invalid("name is required")
	}
	row, err := s.Records.CreateIntolerance(ctx, in)
	if err != nil {
		return nil, upstream("could not create intolerance", err)
	}
	out := intolerance(row)
	return &out, nil
}

// UpdateIntolerance overwrites the provided fields of an intolerance.
func (s *CatalogService) UpdateIntolerance(ctx context.Context, id string, f IntoleranceFields) (*domain.Intolerance, error) {
	ctx, span := otel.Tracer("services/CatalogService").Start(ctx, "UpdateIntolerance",
		trace.WithAttributes(attribute.String("intolerance.id", id)),
	)
	defer span.End()

	if id = strings.TrimSpace(id); id == "" {
		return nil, invalid("id is required")
	}
	in := f.input()
	if in.Name == "" {
		return nil, invalid("name is required")
	}
	row, err := s.Records.UpdateIntolerance(ctx, id, in)
	if err != nil {
		return nil, storeErr("could not update intolerance", "intolerance not found", err)
	}
	out := intolerance(row)
	return &out, nil
}

// DeleteIntolerance removes an intolerance.
func (s *CatalogService) DeleteIntolerance(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("services/CatalogService").Start(ctx, "DeleteIntolerance",
		trace.WithAttributes(attribute.String("intolerance.id", id)),
	)
	defer span.End()

	if id = strings.TrimSpace(id); id == "" {
		return invalid("id is required")
	}
	if err := s.Records.DeleteIntolerance(ctx, id); err != nil {
		return storeErr("could not delete intolerance", "intolerance not found", err)
	}
	return nil
}
