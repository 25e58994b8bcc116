package domain

import "time"

// Ingredient is one layer of a drink's recipe. Parts is relative to the
// other ingredients of the same drink.
type Ingredient struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

type Drink struct {
	ID        int64
	Title     string // Unique across the menu
	Recipe    []Ingredient
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DrinkUpdate is a partial update. Nil fields are left untouched.
type DrinkUpdate struct {
	Title  *string
	Recipe []Ingredient
}

// IsEmpty reports whether the update would change nothing.
func (u DrinkUpdate) IsEmpty() bool {
	return u.Title == nil && u.Recipe == nil
}
