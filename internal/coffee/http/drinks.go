package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/coffeeshop/internal/coffee/domain"
	"github.com/aussiebroadwan/coffeeshop/internal/coffee/service"
	"github.com/aussiebroadwan/coffeeshop/pkg/coffeesdk"
	"github.com/aussiebroadwan/coffeeshop/pkg/httpx"
	"github.com/aussiebroadwan/coffeeshop/pkg/slogx"
)

const maxBodyBytes = 1 << 20

// DrinksHandler serves the drinks menu.
type DrinksHandler struct {
	DrinksService *service.DrinksService
}

// HandleList handles GET /drinks
//
//	@Summary		List drinks
//	@Description	Returns every drink in short form: ingredient colors and parts, without names. Public.
//	@Tags			Drinks
//	@Produce		json
//	@Success		200	{object}	coffeesdk.DrinksResponse	"success, drinks"
//	@Failure		429	{object}	coffeesdk.ErrorResponse		"Too many requests"
//	@Failure		500	{object}	coffeesdk.ErrorResponse		"Internal server error"
//	@Router			/drinks [get].
func (h *DrinksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, shortDrink)
}

// HandleListDetail handles GET /drinks-detail
//
//	@Summary		List drinks with recipes
//	@Description	Returns every drink with full ingredient details. Requires get:drinks-detail.
//	@Tags			Drinks
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	coffeesdk.DrinksResponse	"success, drinks"
//	@Failure		401	{object}	coffeesdk.ErrorResponse		"Missing or invalid token"
//	@Failure		403	{object}	coffeesdk.ErrorResponse		"Token lacks get:drinks-detail"
//	@Failure		500	{object}	coffeesdk.ErrorResponse		"Internal server error"
//	@Router			/drinks-detail [get].
func (h *DrinksHandler) HandleListDetail(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, longDrink)
}

func (h *DrinksHandler) list(w http.ResponseWriter, r *http.Request, render func(domain.Drink) coffeesdk.Drink) {
	ctx := r.Context()

	drinks, err := h.DrinksService.ListDrinks(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list drinks", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "")
		return
	}

	resp := coffeesdk.DrinksResponse{
		Success: true,
		Drinks:  make([]coffeesdk.Drink, len(drinks)),
	}
	for i, d := range drinks {
		resp.Drinks[i] = render(d)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleCreate handles POST /drinks
//
//	@Summary		Create a drink
//	@Description	Adds a drink to the menu. The recipe may be a list of ingredients or a single ingredient. Requires post:drinks.
//	@Tags			Drinks
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		coffeesdk.CreateDrinkRequest	true	"title, recipe"
//	@Success		200		{object}	coffeesdk.DrinksResponse		"success, drinks (the created drink)"
//	@Failure		401		{object}	coffeesdk.ErrorResponse			"Missing or invalid token"
//	@Failure		403		{object}	coffeesdk.ErrorResponse			"Token lacks post:drinks"
//	@Failure		422		{object}	coffeesdk.ErrorResponse			"Invalid drink or duplicate title"
//	@Failure		500		{object}	coffeesdk.ErrorResponse			"Internal server error"
//	@Router			/drinks [post].
func (h *DrinksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req coffeesdk.CreateDrinkRequest
	if !decodeBody(w, r, &req) {
		return
	}

	d, err := h.DrinksService.CreateDrink(ctx, req.Title, toIngredients(req.Recipe))
	if err != nil {
		writeServiceError(w, r, "failed to create drink", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, coffeesdk.DrinksResponse{
		Success: true,
		Drinks:  []coffeesdk.Drink{longDrink(d)},
	})
}

// HandleUpdate handles PATCH /drinks/{id}
//
//	@Summary		Update a drink
//	@Description	Changes the title and/or recipe of a drink. Omitted fields are left as they are. Requires patch:drinks.
//	@Tags			Drinks
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int								true	"Drink ID"
//	@Param			request	body		coffeesdk.UpdateDrinkRequest	true	"title, recipe"
//	@Success		200		{object}	coffeesdk.DrinksResponse		"success, drinks (the updated drink)"
//	@Failure		401		{object}	coffeesdk.ErrorResponse			"Missing or invalid token"
//	@Failure		403		{object}	coffeesdk.ErrorResponse			"Token lacks patch:drinks"
//	@Failure		404		{object}	coffeesdk.ErrorResponse			"Drink not found"
//	@Failure		422		{object}	coffeesdk.ErrorResponse			"Invalid drink or duplicate title"
//	@Failure		500		{object}	coffeesdk.ErrorResponse			"Internal server error"
//	@Router			/drinks/{id} [patch].
func (h *DrinksHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := drinkID(r)
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "")
		return
	}

	var req coffeesdk.UpdateDrinkRequest
	if !decodeBody(w, r, &req) {
		return
	}

	d, err := h.DrinksService.UpdateDrink(ctx, id, domain.DrinkUpdate{
		Title:  req.Title,
		Recipe: toIngredients(req.Recipe),
	})
	if err != nil {
		writeServiceError(w, r, "failed to update drink", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, coffeesdk.DrinksResponse{
		Success: true,
		Drinks:  []coffeesdk.Drink{longDrink(d)},
	})
}

// HandleDelete handles DELETE /drinks/{id}
//
//	@Summary		Delete a drink
//	@Description	Removes a drink from the menu. Requires delete:drinks.
//	@Tags			Drinks
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int								true	"Drink ID"
//	@Success		200	{object}	coffeesdk.DeleteDrinkResponse	"success, delete (the removed id)"
//	@Failure		401	{object}	coffeesdk.ErrorResponse			"Missing or invalid token"
//	@Failure		403	{object}	coffeesdk.ErrorResponse			"Token lacks delete:drinks"
//	@Failure		404	{object}	coffeesdk.ErrorResponse			"Drink not found"
//	@Failure		500	{object}	coffeesdk.ErrorResponse			"Internal server error"
//	@Router			/drinks/{id} [delete].
func (h *DrinksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := drinkID(r)
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "")
		return
	}

	if err := h.DrinksService.DeleteDrink(ctx, id); err != nil {
		writeServiceError(w, r, "failed to delete drink", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, coffeesdk.DeleteDrinkResponse{Success: true, Delete: id})
}

// drinkID parses the {id} path segment. Anything but a positive integer
// names no drink.
func drinkID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		httpx.WriteError(w, http.StatusUnprocessableEntity, "")
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrDrinkNotFound):
		httpx.WriteError(w, http.StatusNotFound, "")
	case errors.Is(err, service.ErrInvalidDrink), errors.Is(err, service.ErrDrinkExists):
		httpx.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slogx.FromContext(r.Context()).Error(msg, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "")
	}
}

func toIngredients(recipe coffeesdk.Recipe) []domain.Ingredient {
	if recipe == nil {
		return nil
	}
	out := make([]domain.Ingredient, len(recipe))
	for i, ing := range recipe {
		out[i] = domain.Ingredient{Name: ing.Name, Color: ing.Color, Parts: ing.Parts}
	}
	return out
}

// shortDrink is the public form: ingredient names are the recipe's secret.
func shortDrink(d domain.Drink) coffeesdk.Drink {
	out := coffeesdk.Drink{ID: d.ID, Title: d.Title, Recipe: make(coffeesdk.Recipe, len(d.Recipe))}
	for i, ing := range d.Recipe {
		out.Recipe[i] = coffeesdk.Ingredient{Color: ing.Color, Parts: ing.Parts}
	}
	return out
}

func longDrink(d domain.Drink) coffeesdk.Drink {
	out := coffeesdk.Drink{ID: d.ID, Title: d.Title, Recipe: make(coffeesdk.Recipe, len(d.Recipe))}
	for i, ing := range d.Recipe {
		out.Recipe[i] = coffeesdk.Ingredient{Name: ing.Name, Color: ing.Color, Parts: ing.Parts}
	}
	return out
}
