package coffeesdk

import (
	"bytes"
	"encoding/json"
)

// Ingredient is one layer of a drink. Name is omitted in the short form
// returned by GET /drinks.
type Ingredient struct {
	Name  string `json:"name,omitempty"`
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

// Recipe is a list of ingredients. When decoding it also accepts a single
// ingredient object in place of a one-element list.
type Recipe []Ingredient

func (r *Recipe) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var one Ingredient
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*r = Recipe{one}
		return nil
	}

	var many []Ingredient
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*r = many
	return nil
}

type Drink struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Recipe Recipe `json:"recipe"`
}

// DrinksResponse is returned by every endpoint that answers with drinks.
type DrinksResponse struct {
	Success bool    `json:"success"`
	Drinks  []Drink `json:"drinks"`
}

// DeleteDrinkResponse echoes the id of the removed drink.
type DeleteDrinkResponse struct {
	Success bool  `json:"success"`
	Delete  int64 `json:"delete"`
}

type CreateDrinkRequest struct {
	Title  string `json:"title"`
	Recipe Recipe `json:"recipe"`
}

// UpdateDrinkRequest changes only the fields that are set.
type UpdateDrinkRequest struct {
	Title  *string `json:"title,omitempty"`
	Recipe Recipe  `json:"recipe,omitempty"`
}

// ErrorResponse is the envelope of every failed request. Error holds either
// a string code or the numeric HTTP status.
type ErrorResponse struct {
	Success bool            `json:"success"`
	Error   json.RawMessage `json:"error" swaggertype:"string"`
	Message string          `json:"message"`
}

// HealthResponse is returned by /livez and /readyz. Checks is only set by
// /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency.
type HealthChecks struct {
	Database string `json:"database"`

	// Keys is "ok" once the issuer's key set has been loaded.
	Keys string `json:"keys"`
}
