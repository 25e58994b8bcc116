package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/coffeeshop/internal/coffee/domain"
	"github.com/aussiebroadwan/coffeeshop/internal/coffee/store"
	"github.com/aussiebroadwan/coffeeshop/pkg/slogx"
)

const MaxTitleLength = 80

var (
	ErrInvalidDrink  = errors.New("invalid drink")
	ErrDrinkNotFound = errors.New("drink not found")
	ErrDrinkExists   = errors.New("a drink with that title already exists")
)

type DrinksService struct {
	Store store.Store
}

// ListDrinks returns the whole menu.
func (s *DrinksService) ListDrinks(ctx context.Context) ([]domain.Drink, error) {
	drinks, err := s.Store.Drinks().ListDrinks(ctx)
	if err != nil {
		return nil, err
	}
	if drinks == nil {
		drinks = []domain.Drink{}
	}
	return drinks, nil
}

// CreateDrink validates and stores a new drink.
func (s *DrinksService) CreateDrink(ctx context.Context, title string, recipe []domain.Ingredient) (domain.Drink, error) {
	d := domain.Drink{Title: strings.TrimSpace(title), Recipe: recipe}
	if err := ValidateDrink(d); err != nil {
		return domain.Drink{}, err
	}

	created, err := s.Store.Drinks().CreateDrink(ctx, d)
	if err != nil {
		return domain.Drink{}, mapStoreErr(err)
	}

	slogx.FromContext(ctx).Info("drink created", "drink_id", created.ID, "title", created.Title)
	return created, nil
}

// UpdateDrink applies a partial update and returns the stored result.
func (s *DrinksService) UpdateDrink(ctx context.Context, id int64, upd domain.DrinkUpdate) (domain.Drink, error) {
	if upd.IsEmpty() {
		return domain.Drink{}, fmt.Errorf("%w: nothing to update", ErrInvalidDrink)
	}

	var updated domain.Drink
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		d, err := tx.Drinks().GetDrinkByID(ctx, id)
		if err != nil {
			return err
		}

		if upd.Title != nil {
			d.Title = strings.TrimSpace(*upd.Title)
		}
		if upd.Recipe != nil {
			d.Recipe = upd.Recipe
		}
		if err := ValidateDrink(d); err != nil {
			return err
		}

		if err := tx.Drinks().UpdateDrink(ctx, d); err != nil {
			return err
		}
		updated, err = tx.Drinks().GetDrinkByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.Drink{}, mapStoreErr(err)
	}

	slogx.FromContext(ctx).Info("drink updated", "drink_id", id)
	return updated, nil
}

// DeleteDrink removes a drink from the menu.
func (s *DrinksService) DeleteDrink(ctx context.Context, id int64) error {
	if err := s.Store.Drinks().DeleteDrink(ctx, id); err != nil {
		return mapStoreErr(err)
	}

	slogx.FromContext(ctx).Info("drink deleted", "drink_id", id)
	return nil
}

// ValidateDrink checks the rules every stored drink satisfies.
func ValidateDrink(d domain.Drink) error {
	switch n := utf8.RuneCountInString(d.Title); {
	case n == 0:
		return fmt.Errorf("%w: title is required", ErrInvalidDrink)
	case n > MaxTitleLength:
		return fmt.Errorf("%w: title is longer than %d characters", ErrInvalidDrink, MaxTitleLength)
	}

	if len(d.Recipe) == 0 {
		return fmt.Errorf("%w: recipe needs at least one ingredient", ErrInvalidDrink)
	}
	for i, ing := range d.Recipe {
		if strings.TrimSpace(ing.Name) == "" {
			return fmt.Errorf("%w: ingredient %d has no name", ErrInvalidDrink, i)
		}
		if strings.TrimSpace(ing.Color) == "" {
			return fmt.Errorf("%w: ingredient %d has no color", ErrInvalidDrink, i)
		}
		if ing.Parts < 1 {
			return fmt.Errorf("%w: ingredient %d needs at least one part", ErrInvalidDrink, i)
		}
	}
	return nil
}

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrDrinkNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return ErrDrinkExists
	default:
		return err
	}
}
