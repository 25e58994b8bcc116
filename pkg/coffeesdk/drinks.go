package coffeesdk

import (
	"context"
	"net/http"
	"strconv"
)

// ListDrinks returns the public menu in short form.
func (c *SDKClient) ListDrinks(ctx context.Context) ([]Drink, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/drinks", "", nil)
	if err != nil {
		return nil, err
	}

	var out DrinksResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Drinks, nil
}

// ListDrinkDetails returns the menu with ingredient names.
// Requires get:drinks-detail.
func (s *Session) ListDrinkDetails(ctx context.Context) ([]Drink, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/drinks-detail", PermissionGetDrinksDetail, nil)
	if err != nil {
		return nil, err
	}

	var out DrinksResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Drinks, nil
}

// CreateDrink adds a drink. Requires post:drinks.
func (s *Session) CreateDrink(ctx context.Context, req CreateDrinkRequest) (*Drink, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/drinks", PermissionPostDrinks, req)
	if err != nil {
		return nil, err
	}
	return firstDrink(resp)
}

// UpdateDrink changes a drink. Requires patch:drinks.
func (s *Session) UpdateDrink(ctx context.Context, id int64, req UpdateDrinkRequest) (*Drink, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPatch, drinkPath(id), PermissionPatchDrinks, req)
	if err != nil {
		return nil, err
	}
	return firstDrink(resp)
}

// DeleteDrink removes a drink and returns its id. Requires delete:drinks.
func (s *Session) DeleteDrink(ctx context.Context, id int64) (int64, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, drinkPath(id), PermissionDeleteDrinks, nil)
	if err != nil {
		return 0, err
	}

	var out DeleteDrinkResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return 0, err
	}
	return out.Delete, nil
}

func drinkPath(id int64) string {
	return "/drinks/" + strconv.FormatInt(id, 10)
}

func firstDrink(resp *http.Response) (*Drink, error) {
	var out DrinksResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	if len(out.Drinks) == 0 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "response carried no drink"}
	}
	return &out.Drinks[0], nil
}
