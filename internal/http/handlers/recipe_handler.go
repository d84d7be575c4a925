package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// GenerateRecipesRequest selects the ingredients to cook with.
type GenerateRecipesRequest struct {
	Ingredients  []domain.Ingredient     `json:"ingredients"`
	Intolerances []domain.IntoleranceRef `json:"intolerances"`
	// Servings defaults to 1.
	Servings *int `json:"servings,omitempty" example:"2"`
}

// GenerateRecipesResponse wraps the generated proposals.
type GenerateRecipesResponse struct {
	Recipes []domain.GeneratedRecipe `json:"recipes"`
}

// SaveRecipeRequest carries either a recipe or the id of a kept draft.
type SaveRecipeRequest struct {
	Recipe  *domain.GeneratedRecipe `json:"recipe,omitempty"`
	DraftID string                  `json:"draftId,omitempty" example:"6f1e2a7c-3b4d-4e5f-8a9b-0c1d2e3f4a5b"`
}

// DeleteRecipeRequest names the recipe to delete.
type DeleteRecipeRequest struct {
	RecipeID string `json:"recipeId" example:"recA1b2C3d4E5f6G7"`
}

// ListRecipes godoc
// @ID          listRecipes
// @Summary     List stored recipes
// @Description Returns every stored recipe with resolved ingredients and ordered
// @Description instructions, sorted by title.
// @Tags        Recipes
// @Produce     json
// @Success     200  {array}   domain.Recipe
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /recipes [get]
func (h *Handlers) ListRecipes(c *gin.Context) {
	items, err := h.recipes.List(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, items)
}

// GetRecipe godoc
// @ID          getRecipe
// @Summary     Get a stored recipe
// @Tags        Recipes
// @Produce     json
// @Param       id   path      string  true  "Recipe record id"
// @Success     200  {object}  domain.Recipe
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /recipes/{id} [get]
func (h *Handlers) GetRecipe(c *gin.Context) {
	rec, err := h.recipes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, rec)
}

// GenerateRecipes godoc
// @ID          generateRecipes
// @Summary     Generate recipes
// @Description Asks the language model for recipes using only the selected ingredients
// @Description and avoiding the listed intolerances. Generated recipes are not stored.
// @Description Supports Idempotency-Key: a retried key replays the first response.
// @Tags        Recipes
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header    string  false  "Idempotency key for safe retries"
// @Param       body             body      handlers.GenerateRecipesRequest  true  "Selection"
// @Success     200              {object}  handlers.GenerateRecipesResponse
// @Failure     400              {object}  handlers.ErrorResponse
// @Failure     500              {object}  handlers.ErrorResponse  "Generation failed"
// @Router      /recipes [post]
func (h *Handlers) GenerateRecipes(c *gin.Context) {
	if h.replay(c) {
		return
	}
	var req GenerateRecipesRequest
	if !bindJSON(c, &req) {
		return
	}
	servings := 1
	if req.Servings != nil {
		servings = *req.Servings
	}

	recipes, err := h.generation.Generate(c.Request.Context(), domain.GenerationRequest{
		Ingredients:  req.Ingredients,
		Intolerances: req.Intolerances,
		Servings:     servings,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	h.respond(c, http.StatusOK, "", GenerateRecipesResponse{Recipes: recipes})
}

// SaveRecipe godoc
// @ID          saveRecipe
// @Summary     Save a recipe
// @Description Persists a generated recipe, or a draft kept by a previous generation,
// @Description with its ingredient quantities and instructions. Ingredient ids unknown
// @Description to the catalog are skipped. Supports Idempotency-Key.
// @Tags        Recipes
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header    string  false  "Idempotency key for safe retries"
// @Param       body             body      handlers.SaveRecipeRequest  true  "Recipe or draft id"
// @Success     201              {object}  domain.Recipe
// @Header      201              {string}  Idempotency-Replayed  "true when replayed"
// @Failure     400              {object}  handlers.ErrorResponse
// @Failure     404              {object}  handlers.ErrorResponse  "Draft not found"
// @Failure     500              {object}  handlers.ErrorResponse
// @Router      /recipes/save [post]
func (h *Handlers) SaveRecipe(c *gin.Context) {
	if h.replay(c) {
		return
	}
	var req SaveRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	var (
		rec *domain.Recipe
		err error
	)
	switch draftID := strings.TrimSpace(req.DraftID); {
	case req.Recipe != nil:
		rec, err = h.recipes.Save(ctx, *req.Recipe)
	case draftID != "":
		rec, err = h.recipes.SaveDraft(ctx, draftID)
	default:
		fail(c, http.StatusBadRequest, ErrCodeValidation, "recipe is required")
		return
	}
	if err != nil {
		failErr(c, err)
		return
	}
	h.respond(c, http.StatusCreated, rec.ID, rec)
}

// DeleteRecipe godoc
// @ID          deleteRecipe
// @Summary     Delete a recipe
// @Description Deletes a recipe and, best effort, its ingredient and instruction rows.
// @Tags        Recipes
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.DeleteRecipeRequest  true  "Recipe id"
// @Success     200   {object}  handlers.SuccessResponse
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     404   {object}  handlers.ErrorResponse
// @Failure     500   {object}  handlers.ErrorResponse
// @Router      /recipes/delete [delete]
func (h *Handlers) DeleteRecipe(c *gin.Context) {
	var req DeleteRecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), req.RecipeID); err != nil {
		failErr(c, err)
		return
	}
	success(c)
}

// GetDraft godoc
// @ID          getDraft
// @Summary     Get a draft
// @Description Returns a generated recipe kept by the draft store. Drafts expire.
// @Tags        Recipes
// @Produce     json
// @Param       id   path      string  true  "Draft id"
// @Success     200  {object}  domain.GeneratedRecipe
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /drafts/{id} [get]
func (h *Handlers) GetDraft(c *gin.Context) {
	d, err := h.recipes.Draft(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, d)
}
