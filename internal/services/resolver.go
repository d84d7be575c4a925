// Package services
//
// This file implements the Resolver, which turns the flat recipe table and
// its two join tables into nested domain.Recipe values. Each call reads the
// ingredient catalog and both join tables concurrently with errgroup and
// groups the join rows by recipe id in one pass, so ResolveAll costs the
// same number of store calls as Resolve.
package services

import (
	"context"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/quantity"
	"github.com/tbourn/go-recipe-backend/internal/repo"
)

// UnknownIngredientName labels join rows whose ingredient is not in the catalog.
const UnknownIngredientName = "Ingrédient inconnu"

// Resolver assembles nested recipes from the recipe table and its join tables.
//
// Join rows pointing at an ingredient missing from the catalog are kept and
// labeled UnknownIngredientName. Instructions are sorted by order, with
// unordered steps (order 0) first. Rows the repo could not decode are left
// out of the listings and never fail a read.
type Resolver struct {
	// Records is the typed Airtable access layer.
	Records *repo.Records
}

// snapshot holds the ingredient catalog and both join tables.
type snapshot struct {
	catalog []repo.IngredientRow
	links   []repo.IngredientLinkRow
	steps   []repo.InstructionLinkRow
}

// load schedules the three table reads on g.
func (s *snapshot) load(ctx context.Context, g *errgroup.Group, rec *repo.Records) {
	g.Go(func() (err error) { s.catalog, err = rec.ListIngredients(ctx); return })
	g.Go(func() (err error) { s.links, err = rec.ListIngredientLinks(ctx); return })
	g.Go(func() (err error) { s.steps, err = rec.ListInstructionLinks(ctx); return })
}

// index groups join rows by recipe id in one pass over each table.
type index struct {
	names        map[string]string
	ingredients  map[string][]repo.IngredientLinkRow
	instructions map[string][]repo.InstructionLinkRow
}

func (s *snapshot) index() index {
	ix := index{
		names:        make(map[string]string, len(s.catalog)),
		ingredients:  make(map[string][]repo.IngredientLinkRow),
		instructions: make(map[string][]repo.InstructionLinkRow),
	}
	for _, ing := range s.catalog {
		name := ing.Name
		if name == "" {
			name = ing.ID
		}
		ix.names[ing.ID] = name
	}
	for _, l := range s.links {
		for _, id := range uniq(l.RecipeIDs) {
			ix.ingredients[id] = append(ix.ingredients[id], l)
		}
	}
	for _, st := range s.steps {
		for _, id := range uniq(st.RecipeIDs) {
			ix.instructions[id] = append(ix.instructions[id], st)
		}
	}
	return ix
}

func (ix index) recipe(row repo.RecipeRow) domain.Recipe {
	out := domain.Recipe{
		ID:              row.ID,
		Title:           row.Title,
		Description:     row.Description,
		Servings:        row.Servings,
		PrepTimeMinutes: row.PrepTimeMinutes,
		CookTimeMinutes: row.CookTimeMinutes,
		CreatedTime:     row.CreatedTime,
		Ingredients:     make([]domain.RecipeIngredient, 0, len(ix.ingredients[row.ID])),
		Instructions:    make([]domain.Instruction, 0, len(ix.instructions[row.ID])),
	}
	for _, l := range ix.ingredients[row.ID] {
		id := l.IngredientID()
		name, ok := ix.names[id]
		if !ok {
			name = UnknownIngredientName
		}
		q := quantity.FromJSON(l.Quantity)
		unit := q.Unit
		if unit == "" {
			unit = l.Unit
		}
		out.Ingredients = append(out.Ingredients, domain.RecipeIngredient{
			ID:       id,
			Name:     name,
			Quantity: q.Quantity,
			Unit:     unit,
		})
	}
	for _, st := range ix.instructions[row.ID] {
		out.Instructions = append(out.Instructions, domain.Instruction{Text: st.Text, Order: st.Order})
	}
	sort.SliceStable(out.Instructions, func(i, j int) bool {
		return out.Instructions[i].Order < out.Instructions[j].Order
	})
	return out
}

// Resolve returns one recipe with its ingredients and ordered instructions.
// A blank id is an ErrValidation, an unknown one an ErrNotFound, and any
// store failure an ErrUpstream.
func (r *Resolver) Resolve(ctx context.Context, recipeID string) (*domain.Recipe, error) {
	ctx, span := otel.Tracer("services/Resolver").Start(ctx, "Resolve",
		trace.WithAttributes(attribute.String("recipe.id", recipeID)),
	)
	defer span.End()

	recipeID = strings.TrimSpace(recipeID)
	if recipeID == "" {
		return nil, invalid("recipe id is required")
	}

	var (
		row  repo.RecipeRow
		snap snapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { row, err = r.Records.GetRecipe(gctx, recipeID); return })
	snap.load(gctx, g, r.Records)
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, storeErr("could not load recipe", "recipe not found", err)
	}

	rec := snap.index().recipe(row)
	return &rec, nil
}

// ResolveAll returns every recipe, ordered by title.
func (r *Resolver) ResolveAll(ctx context.Context) ([]domain.Recipe, error) {
	ctx, span := otel.Tracer("services/Resolver").Start(ctx, "ResolveAll")
	defer span.End()

	var (
		rows []repo.RecipeRow
		snap snapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { rows, err = r.Records.ListRecipes(gctx); return })
	snap.load(gctx, g, r.Records)
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, upstream("could not load recipes", err)
	}

	ix := snap.index()
	out := make([]domain.Recipe, 0, len(rows))
	for _, row := range rows {
		out = append(out, ix.recipe(row))
	}
	span.SetAttributes(attribute.Int("recipes.count", len(out)))
	return out, nil
}

func uniq(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
