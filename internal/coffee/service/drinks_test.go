package service

import (
	"context"
	"strings"
	"testing"

	"github.com/aussiebroadwan/coffeeshop/internal/coffee/domain"
	"github.com/aussiebroadwan/coffeeshop/internal/coffee/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newDrinksService(t *testing.T) *DrinksService {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	return &DrinksService{Store: st}
}

func recipe(names ...string) []domain.Ingredient {
	out := make([]domain.Ingredient, len(names))
	for i, n := range names {
		out[i] = domain.Ingredient{Name: n, Color: "brown", Parts: 1}
	}
	return out
}

func TestValidateDrink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		drink domain.Drink
		ok    bool
	}{
		{"valid", domain.Drink{Title: "flat white", Recipe: recipe("milk", "coffee")}, true},
		{"empty title", domain.Drink{Title: "", Recipe: recipe("milk")}, false},
		{"long title", domain.Drink{Title: strings.Repeat("a", MaxTitleLength+1), Recipe: recipe("milk")}, false},
		{"max title", domain.Drink{Title: strings.Repeat("a", MaxTitleLength), Recipe: recipe("milk")}, true},
		{"no recipe", domain.Drink{Title: "air"}, false},
		{"unnamed ingredient", domain.Drink{Title: "x", Recipe: []domain.Ingredient{{Color: "red", Parts: 1}}}, false},
		{"colorless ingredient", domain.Drink{Title: "x", Recipe: []domain.Ingredient{{Name: "a", Parts: 1}}}, false},
		{"zero parts", domain.Drink{Title: "x", Recipe: []domain.Ingredient{{Name: "a", Color: "red"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDrink(tt.drink)
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrInvalidDrink)
			}
		})
	}
}

func TestDrinksServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newDrinksService(t)

	drinks, err := svc.ListDrinks(ctx)
	require.NoError(t, err)
	require.NotNil(t, drinks)
	require.Empty(t, drinks)

	d, err := svc.CreateDrink(ctx, "  latte ", recipe("milk", "espresso"))
	require.NoError(t, err)
	require.Equal(t, "latte", d.Title)

	_, err = svc.CreateDrink(ctx, "latte", recipe("milk"))
	require.ErrorIs(t, err, ErrDrinkExists)

	title := "oat latte"
	updated, err := svc.UpdateDrink(ctx, d.ID, domain.DrinkUpdate{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "oat latte", updated.Title)
	require.Equal(t, d.Recipe, updated.Recipe)

	updated, err = svc.UpdateDrink(ctx, d.ID, domain.DrinkUpdate{Recipe: recipe("oat milk")})
	require.NoError(t, err)
	require.Equal(t, "oat latte", updated.Title)
	require.Len(t, updated.Recipe, 1)

	require.NoError(t, svc.DeleteDrink(ctx, d.ID))
	require.ErrorIs(t, svc.DeleteDrink(ctx, d.ID), ErrDrinkNotFound)
}

func TestUpdateDrinkErrors(t *testing.T) {
	ctx := context.Background()
	svc := newDrinksService(t)

	d, err := svc.CreateDrink(ctx, "mocha", recipe("chocolate"))
	require.NoError(t, err)
	_, err = svc.CreateDrink(ctx, "latte", recipe("milk"))
	require.NoError(t, err)

	_, err = svc.UpdateDrink(ctx, d.ID, domain.DrinkUpdate{})
	require.ErrorIs(t, err, ErrInvalidDrink)

	_, err = svc.UpdateDrink(ctx, 999, domain.DrinkUpdate{Recipe: recipe("milk")})
	require.ErrorIs(t, err, ErrDrinkNotFound)

	taken := "latte"
	_, err = svc.UpdateDrink(ctx, d.ID, domain.DrinkUpdate{Title: &taken})
	require.ErrorIs(t, err, ErrDrinkExists)

	blank := " "
	_, err = svc.UpdateDrink(ctx, d.ID, domain.DrinkUpdate{Title: &blank})
	require.ErrorIs(t, err, ErrInvalidDrink)

	got, err := svc.ListDrinks(ctx)
	require.NoError(t, err)
	require.Equal(t, "mocha", got[0].Title)
}
