// Package store provides an interface for product storage operations.
package store

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product represents a product entity in the store.
type Product struct {
	ID          int64           `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
// Field constraints are enforced by the caller before any write.
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindAll returns all available products ordered by ID.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// FindByNameContains returns the products whose name contains the given substring (case-sensitive).
	// Returns an empty slice if nothing matches.
	FindByNameContains(ctx context.Context, substring string) ([]Product, error)

	// Create adds a new product to the system and assigns it a fresh ID.
	// Returns error if the product cannot be created.
	Create(ctx context.Context, name, description string, price decimal.Decimal) (*Product, error)

	// Update replaces all mutable fields of an existing product, the ID stays unchanged.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, name, description string, price decimal.Decimal) (*Product, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}
