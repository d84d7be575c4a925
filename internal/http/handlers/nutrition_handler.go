package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// AnalyzeNutrition godoc
// @ID          analyzeNutrition
// @Summary     Estimate nutrition values
// @Description Estimates per-serving macronutrients, vitamins and minerals of a recipe.
// @Tags        Recipes
// @Accept      json
// @Produce     json
// @Param       body  body      domain.NutritionRequest  true  "Ingredients and servings"
// @Success     200   {object}  domain.Nutrition
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     500   {object}  handlers.ErrorResponse  "Generation failed"
// @Router      /recipes/analyze-nutrition [post]
func (h *Handlers) AnalyzeNutrition(c *gin.Context) {
	var req domain.NutritionRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.nutrition.Analyze(c.Request.Context(), req)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, n)
}
