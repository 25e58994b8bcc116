package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/coffeeshop/internal/coffee/domain"
	"github.com/aussiebroadwan/coffeeshop/internal/coffee/store"
	"github.com/aussiebroadwan/coffeeshop/internal/coffee/store/drivers/sqlite/gen"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Every connection to :memory: is its own database.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Drinks() store.Drinks { return &drinksRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint turns constraint violations into ErrAlreadyExists. The only
// constraint a caller can trip is the unique title.
func mapConstraint(err error) error {
	var serr *moderncsqlite.Error
	if errors.As(err, &serr) && serr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("%w: %w", store.ErrAlreadyExists, err)
	}
	return err
}

func mapDrink(row gen.Drink) (domain.Drink, error) {
	var recipe []domain.Ingredient
	if err := json.Unmarshal([]byte(row.Recipe), &recipe); err != nil {
		return domain.Drink{}, fmt.Errorf("sqlite: decode recipe of drink %d: %w", row.ID, err)
	}
	return domain.Drink{
		ID:        row.ID,
		Title:     row.Title,
		Recipe:    recipe,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func encodeRecipe(recipe []domain.Ingredient) (string, error) {
	if recipe == nil {
		recipe = []domain.Ingredient{}
	}
	b, err := json.Marshal(recipe)
	if err != nil {
		return "", fmt.Errorf("sqlite: encode recipe: %w", err)
	}
	return string(b), nil
}
