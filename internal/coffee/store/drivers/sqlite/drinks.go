package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/coffeeshop/internal/coffee/domain"
	"github.com/aussiebroadwan/coffeeshop/internal/coffee/store"
	"github.com/aussiebroadwan/coffeeshop/internal/coffee/store/drivers/sqlite/gen"
)

type drinksRepo struct {
	q *gen.Queries
}

func (r *drinksRepo) ListDrinks(ctx context.Context) ([]domain.Drink, error) {
	rows, err := r.q.ListDrinks(ctx)
	if err != nil {
		return nil, err
	}

	drinks := make([]domain.Drink, len(rows))
	for i, row := range rows {
		if drinks[i], err = mapDrink(row); err != nil {
			return nil, err
		}
	}
	return drinks, nil
}

func (r *drinksRepo) GetDrinkByID(ctx context.Context, id int64) (domain.Drink, error) {
	row, err := r.q.GetDrinkByID(ctx, id)
	if err != nil {
		return domain.Drink{}, mapNotFound(err)
	}
	return mapDrink(row)
}

func (r *drinksRepo) CreateDrink(ctx context.Context, d domain.Drink) (domain.Drink, error) {
	recipe, err := encodeRecipe(d.Recipe)
	if err != nil {
		return domain.Drink{}, err
	}

	now := time.Now().UTC()
	id, err := r.q.CreateDrink(ctx, gen.CreateDrinkParams{
		Title:     d.Title,
		Recipe:    recipe,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return domain.Drink{}, mapConstraint(err)
	}
	return r.GetDrinkByID(ctx, id)
}

func (r *drinksRepo) UpdateDrink(ctx context.Context, d domain.Drink) error {
	recipe, err := encodeRecipe(d.Recipe)
	if err != nil {
		return err
	}

	n, err := r.q.UpdateDrink(ctx, gen.UpdateDrinkParams{
		Title:     d.Title,
		Recipe:    recipe,
		UpdatedAt: time.Now().UTC(),
		ID:        d.ID,
	})
	if err != nil {
		return mapConstraint(err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *drinksRepo) DeleteDrink(ctx context.Context, id int64) error {
	n, err := r.q.DeleteDrink(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
