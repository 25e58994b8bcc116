package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/coffeeshop/internal/coffee/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and hand out
// repositories so a Tx-scoped Store looks the same as the root one.
type Store interface {
	Drinks() Drinks

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Drinks interface {
	// ListDrinks returns every drink ordered by id.
	ListDrinks(ctx context.Context) ([]domain.Drink, error)

	GetDrinkByID(ctx context.Context, id int64) (domain.Drink, error)

	// CreateDrink inserts d and returns it with the assigned id and timestamps.
	// A duplicate title is ErrAlreadyExists.
	CreateDrink(ctx context.Context, d domain.Drink) (domain.Drink, error)

	// UpdateDrink overwrites title and recipe and bumps updated_at.
	UpdateDrink(ctx context.Context, d domain.Drink) error

	DeleteDrink(ctx context.Context, id int64) error
}
