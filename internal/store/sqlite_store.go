package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const sqliteColumns = "id, name, description, price"

// SqliteStore implements ProductStore on an embedded SQLite database.
// Prices are stored as canonical decimal text.
type SqliteStore struct {
	db *sqlx.DB
}

// OpenSqlite opens the SQLite database at dsn (a file path or ":memory:").
// A single connection is used, so an in-memory database lives as long as the returned handle.
func OpenSqlite(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return db, nil
}

// NewSqliteStore creates a new instance of ProductStore using a SQLite database handle.
func NewSqliteStore(db *sqlx.DB) *SqliteStore {
	return &SqliteStore{db: db}
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *SqliteStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	var product Product
	err := s.db.GetContext(ctx, &product, `SELECT `+sqliteColumns+` FROM products WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return &product, nil
}

// FindAll retrieves all available products ordered by ID.
func (s *SqliteStore) FindAll(ctx context.Context) ([]Product, error) {
	products := make([]Product, 0)
	if err := s.db.SelectContext(ctx, &products, `SELECT `+sqliteColumns+` FROM products ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	return products, nil
}

// FindByNameContains retrieves the products whose name contains the substring.
// instr is case-sensitive, unlike LIKE.
func (s *SqliteStore) FindByNameContains(ctx context.Context, substring string) ([]Product, error) {
	products := make([]Product, 0)
	err := s.db.SelectContext(ctx, &products,
		`SELECT `+sqliteColumns+` FROM products WHERE instr(name, ?) > 0 ORDER BY id`, substring)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by name: %w", err)
	}
	return products, nil
}

// Create adds a new product to the system.
func (s *SqliteStore) Create(ctx context.Context, name, description string, price decimal.Decimal) (*Product, error) {
	var product Product
	err := s.db.GetContext(ctx, &product,
		`INSERT INTO products (name, description, price) VALUES (?, ?, ?) RETURNING `+sqliteColumns,
		name, description, price.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// Update replaces the mutable fields of an existing product in a single statement.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *SqliteStore) Update(ctx context.Context, id int64, name, description string, price decimal.Decimal) (*Product, error) {
	var product Product
	err := s.db.GetContext(ctx, &product,
		`UPDATE products SET name = ?, description = ?, price = ? WHERE id = ? RETURNING `+sqliteColumns,
		name, description, price.String(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &product, nil
}

// DeleteByID removes a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *SqliteStore) DeleteByID(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if count == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}
