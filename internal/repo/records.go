// Package repo holds the persistence adapters of the service: typed access to
// the Airtable tables (this file), the GORM-backed idempotency store, and the
// optional Redis draft store.
//
// Airtable row types validate field types at the boundary. An absent field
// decodes to its zero value. A present field of the wrong type is handled
// depending on the call:
//
//   - single-record reads and writes (Get, Create, Update) fail with
//     ErrMalformedRecord, since the caller asked for that record;
//   - table listings log the offending row and leave it out, so one bad row
//     hand-edited in the base cannot take down reads of unrelated recipes;
//   - batch creates stay strict, the rows were written by this service.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-recipe-backend/internal/airtable"
	"github.com/tbourn/go-recipe-backend/internal/config"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Airtable field names.
const (
	FieldName            = "Name"
	FieldDescription     = "Description"
	FieldSeverityLevel   = "SeverityLevel"
	FieldRecipes         = "Recipes"
	FieldTitle           = "Title"
	FieldServings        = "Servings"
	FieldPrepTimeMinutes = "PrepTimeMinutes"
	FieldCookTimeMinutes = "CookTimeMinutes"
	FieldRecipe          = "Recipe"
	FieldIngredient      = "Ingredient"
	FieldQuantity        = "Quantity"
	FieldUnit            = "Unit"
	FieldInstruction     = "Instruction"
	FieldOrder           = "Order"
)

// Store is the subset of the record store client this package needs.
// *airtable.Client satisfies it.
type Store interface {
	List(ctx context.Context, table string, opts airtable.ListOptions) ([]airtable.Record, error)
	Get(ctx context.Context, table, id string) (airtable.Record, error)
	Create(ctx context.Context, table string, fields airtable.Fields) (airtable.Record, error)
	CreateMany(ctx context.Context, table string, rows []airtable.Fields) ([]airtable.Record, error)
	Update(ctx context.Context, table, id string, fields airtable.Fields) (airtable.Record, error)
	Delete(ctx context.Context, table, id string) error
}

// IngredientRow is a row of the ingredient catalog.
type IngredientRow struct {
	ID   string
	Name string
}

// IntoleranceRow is a row of the intolerance catalog.
type IntoleranceRow struct {
	ID            string
	Name          string
	Description   string
	SeverityLevel string
	RecipeIDs     []string
}

// RecipeRow holds the scalar fields of a recipe.
type RecipeRow struct {
	ID              string
	Title           string
	Description     string
	Servings        int
	PrepTimeMinutes int
	CookTimeMinutes int
	CreatedTime     time.Time
}

// IngredientLinkRow joins a recipe to an ingredient with a quantity.
// Quantity is kept raw: it may be a number or free text.
type IngredientLinkRow struct {
	ID            string
	RecipeIDs     []string
	IngredientIDs []string
	Quantity      json.RawMessage
	Unit          string
}

// IngredientID is the linked ingredient. Links carry a single id in practice.
func (l IngredientLinkRow) IngredientID() string {
	if len(l.IngredientIDs) == 0 {
		return ""
	}
	return l.IngredientIDs[0]
}

// InstructionLinkRow is one preparation step of a recipe.
type InstructionLinkRow struct {
	ID        string
	RecipeIDs []string
	Text      string
	Order     int
}

// RecipeInput carries the scalar fields written when a recipe is created.
type RecipeInput struct {
	Title           string
	Description     string
	Servings        int
	PrepTimeMinutes int
	CookTimeMinutes int
}

// IntoleranceInput carries writable intolerance fields. Empty optional
// fields are not sent.
type IntoleranceInput struct {
	Name          string
	Description   string
	SeverityLevel string
}

// IngredientLinkInput is one ingredient join row to create.
type IngredientLinkInput struct {
	RecipeID     string
	IngredientID string
	Quantity     float64
	Unit         string
}

// InstructionLinkInput is one instruction join row to create.
type InstructionLinkInput struct {
	RecipeID string
	Text     string
	Order    int
}

// Records gives typed access to the five tables of the base.
//
// Methods map a missing record to ErrNotFound and pass every other store
// error through unchanged, so callers keep the *airtable.APIError status.
type Records struct {
	// Store performs the HTTP calls; tests use airtabletest.
	Store Store
	// Tables holds the configured table names.
	Tables config.Tables
}

// NewRecords binds a store to the configured table names.
func NewRecords(s Store, t config.Tables) *Records {
	return &Records{Store: s, Tables: t}
}

func mapErr(err error) error {
	if errors.Is(err, airtable.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

// decodeList decodes a table listing. Malformed rows are logged at warn level
// through the request logger and skipped.
func decodeList[T any](ctx context.Context, table string, recs []airtable.Record, fn func(*decoder) T) []T {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		d := newDecoder(table, rec)
		row := fn(d)
		if d.err != nil {
			zerolog.Ctx(ctx).Warn().Err(d.err).
				Str("table", table).
				Str("record_id", rec.ID).
				Msg("skipping malformed record")
			continue
		}
		out = append(out, row)
	}
	return out
}

// decodeAll decodes a batch and fails on the first malformed row.
func decodeAll[T any](table string, recs []airtable.Record, fn func(*decoder) T) ([]T, error) {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		d := newDecoder(table, rec)
		row := fn(d)
		if d.err != nil {
			return nil, d.err
		}
		out = append(out, row)
	}
	return out, nil
}

func decodeOne[T any](table string, rec airtable.Record, fn func(*decoder) T) (T, error) {
	d := newDecoder(table, rec)
	row := fn(d)
	return row, d.err
}

// ---- ingredients ----

func ingredientRow(d *decoder) IngredientRow {
	return IngredientRow{ID: d.rec.ID, Name: d.str(FieldName)}
}

// ListIngredients returns the catalog sorted by name.
func (r *Records) ListIngredients(ctx context.Context) ([]IngredientRow, error) {
	recs, err := r.Store.List(ctx, r.Tables.Ingredients, airtable.ListOptions{SortField: FieldName, SortDirection: "asc"})
	if err != nil {
		return nil, mapErr(err)
	}
	return decodeList(ctx, r.Tables.Ingredients, recs, ingredientRow), nil
}

// CreateIngredient adds a catalog entry.
func (r *Records) CreateIngredient(ctx context.Context, name string) (IngredientRow, error) {
	rec, err := r.Store.Create(ctx, r.Tables.Ingredients, airtable.Fields{FieldName: name})
	if err != nil {
		return IngredientRow{}, mapErr(err)
	}
	return decodeOne(r.Tables.Ingredients, rec, ingredientRow)
}

// UpdateIngredient renames a catalog entry.
func (r *Records) UpdateIngredient(ctx context.Context, id, name string) (IngredientRow, error) {
	rec, err := r.Store.Update(ctx, r.Tables.Ingredients, id, airtable.Fields{FieldName: name})
	if err != nil {
		return IngredientRow{}, mapErr(err)
	}
	return decodeOne(r.Tables.Ingredients, rec, ingredientRow)
}

// DeleteIngredient removes a catalog entry. Join rows pointing at it are left
// in place; readers render them with a placeholder name.
func (r *Records) DeleteIngredient(ctx context.Context, id string) error {
	return mapErr(r.Store.Delete(ctx, r.Tables.Ingredients, id))
}

// ---- intolerances ----

func intoleranceRow(d *decoder) IntoleranceRow {
	return IntoleranceRow{
		ID:            d.rec.ID,
		Name:          d.str(FieldName),
		Description:   d.str(FieldDescription),
		SeverityLevel: d.str(FieldSeverityLevel),
		RecipeIDs:     d.ids(FieldRecipes),
	}
}

func (in IntoleranceInput) fields() airtable.Fields {
	f := airtable.Fields{FieldName: in.Name}
	if in.Description != "" {
		f[FieldDescription] = in.Description
	}
	if in.SeverityLevel != "" {
		f[FieldSeverityLevel] = in.SeverityLevel
	}
	return f
}

// ListIntolerances returns the intolerance catalog sorted by name.
func (r *Records) ListIntolerances(ctx context.Context) ([]IntoleranceRow, error) {
	recs, err := r.Store.List(ctx, r.Tables.Intolerances, airtable.ListOptions{SortField: FieldName, SortDirection: "asc"})
	if err != nil {
		return nil, mapErr(err)
	}
	return decodeList(ctx, r.Tables.Intolerances, recs, intoleranceRow), nil
}

// GetIntolerance fetches one intolerance.
func (r *Records) GetIntolerance(ctx context.Context, id string) (IntoleranceRow, error) {
	rec, err := r.Store.Get(ctx, r.Tables.Intolerances, id)
	if err != nil {
		return IntoleranceRow{}, mapErr(err)
	}
	return decodeOne(r.Tables.Intolerances, rec, intoleranceRow)
}

// CreateIntolerance adds an intolerance.
func (r *Records) CreateIntolerance(ctx context.Context, in IntoleranceInput) (IntoleranceRow, error) {
	rec, err := r.Store.Create(ctx, r.Tables.Intolerances, in.fields())
	if err != nil {
		return IntoleranceRow{}, mapErr(err)
	}
	return decodeOne(r.Tables.Intolerances, rec, intoleranceRow)
}

// UpdateIntolerance patches an intolerance.
func (r *Records) UpdateIntolerance(ctx context.Context, id string, in IntoleranceInput) (IntoleranceRow, error) {
	rec, err := r.Store.Update(ctx, r.Tables.Intolerances, id, in.fields())
	if err != nil {
		return IntoleranceRow{}, mapErr(err)
	}
	return decodeOne(r.Tables.Intolerances, rec, intoleranceRow)
}

// SetIntoleranceRecipes replaces the back-reference list of an intolerance.
func (r *Records) SetIntoleranceRecipes(ctx context.Context, id string, recipeIDs []string) error {
	_, err := r.Store.Update(ctx, r.Tables.Intolerances, id, airtable.Fields{FieldRecipes: recipeIDs})
	return mapErr(err)
}

// DeleteIntolerance removes an intolerance.
func (r *Records) DeleteIntolerance(ctx context.Context, id string) error {
	return mapErr(r.Store.Delete(ctx, r.Tables.Intolerances, id))
}

// ---- recipes ----

func recipeRow(d *decoder) RecipeRow {
	return RecipeRow{
		ID:              d.rec.ID,
		Title:           d.str(FieldTitle),
		Description:     d.str(FieldDescription),
		Servings:        d.int(FieldServings),
		PrepTimeMinutes: d.int(FieldPrepTimeMinutes),
		CookTimeMinutes: d.int(FieldCookTimeMinutes),
		CreatedTime:     d.rec.CreatedTime,
	}
}

// ListRecipes returns every recipe ordered by title.
func (r *Records) ListRecipes(ctx context.Context) ([]RecipeRow, error) {
	recs, err := r.Store.List(ctx, r.Tables.Recipes, airtable.ListOptions{SortField: FieldTitle, SortDirection: "asc"})
	if err != nil {
		return nil, mapErr(err)
	}
	return decodeList(ctx, r.Tables.Recipes, recs, recipeRow), nil
}

// GetRecipe fetches one recipe row.
func (r *Records) GetRecipe(ctx context.Context, id string) (RecipeRow, error) {
	rec, err := r.Store.Get(ctx, r.Tables.Recipes, id)
	if err != nil {
		return RecipeRow{}, mapErr(err)
	}
	return decodeOne(r.Tables.Recipes, rec, recipeRow)
}

// CreateRecipe writes the scalar fields of a recipe.
func (r *Records) CreateRecipe(ctx context.Context, in RecipeInput) (RecipeRow, error) {
	rec, err := r.Store.Create(ctx, r.Tables.Recipes, airtable.Fields{
		FieldTitle:           in.Title,
		FieldDescription:     in.Description,
		FieldServings:        in.Servings,
		FieldPrepTimeMinutes: in.PrepTimeMinutes,
		FieldCookTimeMinutes: in.CookTimeMinutes,
	})
	if err != nil {
		return RecipeRow{}, mapErr(err)
	}
	return decodeOne(r.Tables.Recipes, rec, recipeRow)
}

// DeleteRecipe removes a recipe row.
func (r *Records) DeleteRecipe(ctx context.Context, id string) error {
	return mapErr(r.Store.Delete(ctx, r.Tables.Recipes, id))
}

// ---- join rows ----

func ingredientLinkRow(d *decoder) IngredientLinkRow {
	return IngredientLinkRow{
		ID:            d.rec.ID,
		RecipeIDs:     d.ids(FieldRecipe),
		IngredientIDs: d.ids(FieldIngredient),
		Quantity:      d.raw(FieldQuantity),
		Unit:          d.str(FieldUnit),
	}
}

func instructionLinkRow(d *decoder) InstructionLinkRow {
	return InstructionLinkRow{
		ID:        d.rec.ID,
		RecipeIDs: d.ids(FieldRecipe),
		Text:      d.str(FieldInstruction),
		Order:     d.int(FieldOrder),
	}
}

// ListIngredientLinks returns every ingredient join row of the base.
func (r *Records) ListIngredientLinks(ctx context.Context) ([]IngredientLinkRow, error) {
	recs, err := r.Store.List(ctx, r.Tables.RecipeIngredients, airtable.ListOptions{})
	if err != nil {
		return nil, mapErr(err)
	}
	return decodeList(ctx, r.Tables.RecipeIngredients, recs, ingredientLinkRow), nil
}

// ListInstructionLinks returns every instruction join row of the base.
func (r *Records) ListInstructionLinks(ctx context.Context) ([]InstructionLinkRow, error) {
	recs, err := r.Store.List(ctx, r.Tables.RecipeInstructions, airtable.ListOptions{})
	if err != nil {
		return nil, mapErr(err)
	}
	return decodeList(ctx, r.Tables.RecipeInstructions, recs, instructionLinkRow), nil
}

// CreateIngredientLinks batch-creates ingredient join rows.
func (r *Records) CreateIngredientLinks(ctx context.Context, links []IngredientLinkInput) ([]IngredientLinkRow, error) {
	rows := make([]airtable.Fields, 0, len(links))
	for _, l := range links {
		rows = append(rows, airtable.Fields{
			FieldRecipe:     []string{l.RecipeID},
			FieldIngredient: []string{l.IngredientID},
			FieldQuantity:   l.Quantity,
			FieldUnit:       l.Unit,
		})
	}
	recs, err := r.Store.CreateMany(ctx, r.Tables.RecipeIngredients, rows)
	if err != nil {
		return nil, mapErr(err)
	}
	return decodeAll(r.Tables.RecipeIngredients, recs, ingredientLinkRow)
}

// CreateInstructionLinks batch-creates instruction join rows.
func (r *Records) CreateInstructionLinks(ctx context.Context, steps []InstructionLinkInput) ([]InstructionLinkRow, error) {
	rows := make([]airtable.Fields, 0, len(steps))
	for _, s := range steps {
		rows = append(rows, airtable.Fields{
			FieldRecipe:      []string{s.RecipeID},
			FieldInstruction: s.Text,
			FieldOrder:       s.Order,
		})
	}
	recs, err := r.Store.CreateMany(ctx, r.Tables.RecipeInstructions, rows)
	if err != nil {
		return nil, mapErr(err)
	}
	return decodeAll(r.Tables.RecipeInstructions, recs, instructionLinkRow)
}

// DeleteIngredientLinks removes ingredient join rows one by one and returns
// the first error after attempting all of them.
func (r *Records) DeleteIngredientLinks(ctx context.Context, ids []string) error {
	return r.deleteEach(ctx, r.Tables.RecipeIngredients, ids)
}

// DeleteInstructionLinks removes instruction join rows, see DeleteIngredientLinks.
func (r *Records) DeleteInstructionLinks(ctx context.Context, ids []string) error {
	return r.deleteEach(ctx, r.Tables.RecipeInstructions, ids)
}

func (r *Records) deleteEach(ctx context.Context, table string, ids []string) error {
	var first error
	for _, id := range ids {
		if err := r.Store.Delete(ctx, table, id); err != nil && first == nil {
			first = mapErr(err)
		}
	}
	return first
}
