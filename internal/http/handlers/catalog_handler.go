package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recipe-backend/internal/services"
)

// IngredientRequest is the body of ingredient create and rename.
type IngredientRequest struct {
	Name string `json:"name" example:"Pomme"`
}

// IntoleranceRequest is the body of intolerance create and update.
type IntoleranceRequest struct {
	Name          string `json:"name"           example:"Lactose"`
	Description   string `json:"description"    example:"Sucre du lait"`
	SeverityLevel string `json:"severity_level" example:"moderate"`
}

func (r IntoleranceRequest) fields() services.IntoleranceFields {
	return services.IntoleranceFields{
		Name:          r.Name,
		Description:   r.Description,
		SeverityLevel: r.SeverityLevel,
	}
}

// ListIngredients godoc
// @ID          listIngredients
// @Summary     List ingredients
// @Description Returns the ingredient catalog sorted by name.
// @Tags        Ingredients
// @Produce     json
// @Success     200  {array}   domain.Ingredient
// @Failure     500  {object}  handlers.ErrorResponse  "Record store failure"
// @Router      /ingredients [get]
func (h *Handlers) ListIngredients(c *gin.Context) {
	items, err := h.catalog.ListIngredients(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, items)
}

// CreateIngredient godoc
// @ID          createIngredient
// @Summary     Add an ingredient
// @Description Adds an ingredient to the catalog. If an ingredient with the same name
// @Description (ignoring case and spacing) exists, it is returned with 200 instead.
// @Tags        Ingredients
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.IngredientRequest  true  "Ingredient"
// @Success     201   {object}  domain.Ingredient  "Created"
// @Success     200   {object}  domain.Ingredient  "Already in the catalog"
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     500   {object}  handlers.ErrorResponse
// @Router      /ingredients [post]
func (h *Handlers) CreateIngredient(c *gin.Context) {
	var req IngredientRequest
	if !bindJSON(c, &req) {
		return
	}
	ing, created, err := h.catalog.CreateIngredient(c.Request.Context(), req.Name)
	if err != nil {
		failErr(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ok(c, status, ing)
}

// UpdateIngredient godoc
// @ID          updateIngredient
// @Summary     Rename an ingredient
// @Tags        Ingredients
// @Accept      json
// @Produce     json
// @Param       id    query     string  true  "Ingredient record id"
// @Param       body  body      handlers.IngredientRequest  true  "New name"
// @Success     200   {object}  domain.Ingredient
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     404   {object}  handlers.ErrorResponse
// @Failure     500   {object}  handlers.ErrorResponse
// @Router      /ingredients [patch]
func (h *Handlers) UpdateIngredient(c *gin.Context) {
	var req IngredientRequest
	if !bindJSON(c, &req) {
		return
	}
	ing, err := h.catalog.UpdateIngredient(c.Request.Context(), c.Query("id"), req.Name)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ing)
}

// DeleteIngredient godoc
// @ID          deleteIngredient
// @Summary     Delete an ingredient
// @Tags        Ingredients
// @Produce     json
// @Param       id   query     string  true  "Ingredient record id"
// @Success     200  {object}  handlers.SuccessResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /ingredients [delete]
func (h *Handlers) DeleteIngredient(c *gin.Context) {
	if err := h.catalog.DeleteIngredient(c.Request.Context(), c.Query("id")); err != nil {
		failErr(c, err)
		return
	}
	success(c)
}

// ListIntolerances godoc
// @ID          listIntolerances
// @Summary     List intolerances
// @Description Returns the intolerance catalog sorted by name.
// @Tags        Intolerances
// @Produce     json
// @Success     200  {array}   domain.Intolerance
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /intolerances [get]
func (h *Handlers) ListIntolerances(c *gin.Context) {
	items, err := h.catalog.ListIntolerances(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, items)
}

// CreateIntolerance godoc
// @ID          createIntolerance
// @Summary     Add an intolerance
// @Tags        Intolerances
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.IntoleranceRequest  true  "Intolerance"
// @Success     201   {object}  domain.Intolerance
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     500   {object}  handlers.ErrorResponse
// @Router      /intolerances [post]
func (h *Handlers) CreateIntolerance(c *gin.Context) {
	var req IntoleranceRequest
	if !bindJSON(c, &req) {
		return
	}
	it, err := h.catalog.CreateIntolerance(c.Request.Context(), req.fields())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, it)
}

// UpdateIntolerance godoc
// @ID          updateIntolerance
// @Summary     Update an intolerance
// @Tags        Intolerances
// @Accept      json
// @Produce     json
// @Param       id    query     string  true  "Intolerance record id"
// @Param       body  body      handlers.IntoleranceRequest  true  "Fields"
// @Success     200   {object}  domain.Intolerance
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     404   {object}  handlers.ErrorResponse
// @Failure     500   {object}  handlers.ErrorResponse
// @Router      /intolerances [patch]
func (h *Handlers) UpdateIntolerance(c *gin.Context) {
	var req IntoleranceRequest
	if !bindJSON(c, &req) {
		return
	}
	it, err := h.catalog.UpdateIntolerance(c.Request.Context(), c.Query("id"), req.fields())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, it)
}

// DeleteIntolerance godoc
// @ID          deleteIntolerance
// @Summary     Delete an intolerance
// @Tags        Intolerances
// @Produce     json
// @Param       id   query     string  true  "Intolerance record id"
// @Success     200  {object}  handlers.SuccessResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /intolerances [delete]
func (h *Handlers) DeleteIntolerance(c *gin.Context) {
	if err := h.catalog.DeleteIntolerance(c.Request.Context(), c.Query("id")); err != nil {
		failErr(c, err)
		return
	}
	success(c)
}
