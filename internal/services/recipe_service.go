// Package services
//
// This file implements RecipeService, which persists generated recipes into
// the Airtable base and serves stored ones through the Resolver.
//
// Saving is a sequence of writes without a transaction: the recipe row
// first, then its ingredient and instruction join rows in batches, then the
// back-references on each intolerance. Ingredients unknown to the catalog
// are dropped with a warning. Instructions are renumbered 1..M in the order
// given.
package services

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/repo"
)

// DraftStore reads and discards drafts kept by generation.
type DraftStore interface {
	Get(ctx context.Context, id string) (*domain.GeneratedRecipe, error)
	Delete(ctx context.Context, id string) error
}

// RecipeService persists generated recipes and serves stored ones.
type RecipeService struct {
	// Records performs the writes of Save and Delete.
	Records *repo.Records
	// Resolver serves List and Get.
	Resolver *Resolver

	// Drafts is optional; draft routes report not found without it.
	Drafts DraftStore
}

// List returns every stored recipe, sorted by title.
func (s *RecipeService) List(ctx context.Context) ([]domain.Recipe, error) {
	return s.Resolver.ResolveAll(ctx)
}

// Get returns one stored recipe.
func (s *RecipeService) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	return s.Resolver.Resolve(ctx, id)
}

// Draft returns a generated recipe kept by the draft store.
func (s *RecipeService) Draft(ctx context.Context, id string) (*domain.GeneratedRecipe, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, invalid("draft id is required")
	}
	if s.Drafts == nil {
		return nil, notFound("draft not found", nil)
	}
	d, err := s.Drafts.Get(ctx, id)
	if err != nil {
		return nil, storeErr("could not load draft", "draft not found", err)
	}
	return d, nil
}

// SaveDraft persists a draft and then discards it.
func (s *RecipeService) SaveDraft(ctx context.Context, draftID string) (*domain.Recipe, error) {
	d, err := s.Draft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	rec, err := s.Save(ctx, *d)
	if err != nil {
		return nil, err
	}
	if err := s.Drafts.Delete(ctx, draftID); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("draft_id", draftID).Msg("draft not discarded")
	}
	return rec, nil
}

// Save writes the recipe row, its ingredient and instruction join rows, and
// appends the new recipe id to each referenced intolerance. A failure after
// the recipe row exists leaves that row in place.
func (s *RecipeService) Save(ctx context.Context, in domain.GeneratedRecipe) (*domain.Recipe, error) {
	ctx, span := otel.Tracer("services/RecipeService").Start(ctx, "Save",
		trace.WithAttributes(
			attribute.Int("ingredients.count", len(in.Ingredients)),
			attribute.Int("instructions.count", len(in.Instructions)),
		),
	)
	defer span.End()
	log := zerolog.Ctx(ctx)

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("recipe title is required")
	}
	if in.Servings < 0 || in.PrepTimeMinutes < 0 || in.CookTimeMinutes < 0 {
		return nil, invalid("servings and times must not be negative")
	}

	row, err := s.Records.CreateRecipe(ctx, repo.RecipeInput{
		Title:           title,
		Description:     strings.TrimSpace(in.Description),
		Servings:        in.Servings,
		PrepTimeMinutes: in.PrepTimeMinutes,
		CookTimeMinutes: in.CookTimeMinutes,
	})
	if err != nil {
		return nil, upstream("could not create recipe", err)
	}
	span.SetAttributes(attribute.String("recipe.id", row.ID))
	l := log.With().Str("recipe_id", row.ID).Logger()

	// Names in the response come from the catalog, not from the draft.
	catalog, err := s.Records.ListIngredients(ctx)
	if err != nil {
		return nil, upstream("could not load ingredient catalog", err)
	}
	names := make(map[string]string, len(catalog))
	for _, c := range catalog {
		names[c.ID] = c.Name
	}

	out := &domain.Recipe{
		ID:              row.ID,
		Title:           row.Title,
		Description:     row.Description,
		Servings:        row.Servings,
		PrepTimeMinutes: row.PrepTimeMinutes,
		CookTimeMinutes: row.CookTimeMinutes,
		CreatedTime:     row.CreatedTime,
		Ingredients:     []domain.RecipeIngredient{},
		Instructions:    []domain.Instruction{},
	}

	links := make([]repo.IngredientLinkInput, 0, len(in.Ingredients))
	for _, ing := range in.Ingredients {
		id := strings.TrimSpace(ing.ID)
		name, ok := names[id]
		if id == "" || !ok {
			l.Warn().Str("ingredient_id", id).Str("ingredient_name", ing.Name).Msg("dropping ingredient not in catalog")
			continue
		}
		if name == "" {
			name = id
		}
		links = append(links, repo.IngredientLinkInput{
			RecipeID:     row.ID,
			IngredientID: id,
			Quantity:     ing.Quantity,
			Unit:         ing.Unit,
		})
		out.Ingredients = append(out.Ingredients, domain.RecipeIngredient{
			ID: id, Name: name, Quantity: ing.Quantity, Unit: ing.Unit,
		})
	}
	if len(links) > 0 {
		if _, err := s.Records.CreateIngredientLinks(ctx, links); err != nil {
			return nil, upstream("could not save recipe ingredients", err)
		}
	}

	steps := renumber(in.Instructions)
	if len(steps) > 0 {
		inputs := make([]repo.InstructionLinkInput, len(steps))
		for i, st := range steps {
			inputs[i] = repo.InstructionLinkInput{RecipeID: row.ID, Text: st.Text, Order: st.Order}
		}
		if _, err := s.Records.CreateInstructionLinks(ctx, inputs); err != nil {
			return nil, upstream("could not save recipe instructions", err)
		}
		out.Instructions = steps
	}

	s.linkIntolerances(ctx, &l, row.ID, in.Intolerances)

	if len(in.MissingIngredients) > 0 {
		l.Debug().Int("count", len(in.MissingIngredients)).Msg("missing ingredients not persisted")
	}
	return out, nil
}

// renumber drops blank steps, keeps the given order and renumbers 1..M.
func renumber(in []domain.Instruction) []domain.Instruction {
	steps := make([]domain.Instruction, 0, len(in))
	for _, st := range in {
		if t := strings.TrimSpace(st.Text); t != "" {
			steps = append(steps, domain.Instruction{Text: t, Order: st.Order})
		}
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })
	for i := range steps {
		steps[i].Order = i + 1
	}
	return steps
}

// linkIntolerances appends recipeID to the Recipes list of each known
// intolerance. The read-modify-write is not atomic; failures are logged.
func (s *RecipeService) linkIntolerances(ctx context.Context, l *zerolog.Logger, recipeID string, ids []string) {
	if len(ids) == 0 {
		return
	}
	rows, err := s.Records.ListIntolerances(ctx)
	if err != nil {
		l.Warn().Err(err).Msg("intolerance catalog unavailable, back-references skipped")
		return
	}
	byID := make(map[string]repo.IntoleranceRow, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	for _, id := range uniq(ids) {
		row, ok := byID[id]
		if !ok {
			l.Warn().Str("intolerance_id", id).Msg("unknown intolerance, back-reference skipped")
			continue
		}
		if slices.Contains(row.RecipeIDs, recipeID) {
			continue
		}
		next := append(slices.Clone(row.RecipeIDs), recipeID)
		if err := s.Records.SetIntoleranceRecipes(ctx, id, next); err != nil {
			l.Warn().Err(err).Str("intolerance_id", id).Msg("back-reference update failed")
		}
	}
}

// Delete removes a recipe and, best effort, its join rows.
func (s *RecipeService) Delete(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("services/RecipeService").Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("recipe.id", id)),
	)
	defer span.End()
	log := zerolog.Ctx(ctx).With().Str("recipe_id", id).Logger()

	if id = strings.TrimSpace(id); id == "" {
		return invalid("recipe id is required")
	}

	// Join rows are collected first: the store may unlink them once the
	// recipe is gone.
	var (
		links []repo.IngredientLinkRow
		steps []repo.InstructionLinkRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { links, err = s.Records.ListIngredientLinks(gctx); return })
	g.Go(func() (err error) { steps, err = s.Records.ListInstructionLinks(gctx); return })
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Msg("join rows unavailable, only the recipe row is deleted")
		links, steps = nil, nil
	}

	if err := s.Records.DeleteRecipe(ctx, id); err != nil {
		return storeErr("could not delete recipe", "recipe not found", err)
	}

	var linkIDs, stepIDs []string
	for _, l := range links {
		if slices.Contains(l.RecipeIDs, id) {
			linkIDs = append(linkIDs, l.ID)
		}
	}
	for _, st := range steps {
		if slices.Contains(st.RecipeIDs, id) {
			stepIDs = append(stepIDs, st.ID)
		}
	}
	if err := s.Records.DeleteIngredientLinks(ctx, linkIDs); err != nil {
		log.Warn().Err(err).Msg("ingredient join rows not fully deleted")
	}
	if err := s.Records.DeleteInstructionLinks(ctx, stepIDs); err != nil {
		log.Warn().Err(err).Msg("instruction join rows not fully deleted")
	}
	return nil
}
