package gen

import (
	"context"
	"time"
)

const listDrinks = `-- name: ListDrinks :many
SELECT id, title, recipe, created_at, updated_at
FROM drinks
ORDER BY id
`

func (q *Queries) ListDrinks(ctx context.Context) ([]Drink, error) {
	rows, err := q.db.QueryContext(ctx, listDrinks)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Drink
	for rows.Next() {
		var i Drink
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Recipe,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getDrinkByID = `-- name: GetDrinkByID :one
SELECT id, title, recipe, created_at, updated_at
FROM drinks
WHERE id = ?
`

func (q *Queries) GetDrinkByID(ctx context.Context, id int64) (Drink, error) {
	row := q.db.QueryRowContext(ctx, getDrinkByID, id)
	var i Drink
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Recipe,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createDrink = `-- name: CreateDrink :execlastid
INSERT INTO drinks (title, recipe, created_at, updated_at)
VALUES (?, ?, ?, ?)
`

type CreateDrinkParams struct {
	Title     string
	Recipe    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateDrink(ctx context.Context, arg CreateDrinkParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createDrink,
		arg.Title,
		arg.Recipe,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const updateDrink = `-- name: UpdateDrink :execrows
UPDATE drinks
SET title = ?, recipe = ?, updated_at = ?
WHERE id = ?
`

type UpdateDrinkParams struct {
	Title     string
	Recipe    string
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdateDrink(ctx context.Context, arg UpdateDrinkParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateDrink,
		arg.Title,
		arg.Recipe,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteDrink = `-- name: DeleteDrink :execrows
DELETE FROM drinks
WHERE id = ?
`

func (q *Queries) DeleteDrink(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteDrink, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
