package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const productColumns = "id, name, description, price::text"

const (
	findByIDQuery = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	findAllQuery = `SELECT ` + productColumns + ` FROM products ORDER BY id`

	// strpos keeps the match case-sensitive and treats % and _ literally.
	findByNameContainsQuery = `SELECT ` + productColumns + ` FROM products WHERE strpos(name, $1) > 0 ORDER BY id`

	createQuery = `INSERT INTO products (name, description, price)
VALUES ($1, $2, $3::numeric)
RETURNING ` + productColumns

	updateQuery = `UPDATE products
SET name = $2, description = $3, price = $4::numeric
WHERE id = $1
RETURNING ` + productColumns

	deleteQuery = `DELETE FROM products WHERE id = $1`
)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: dbp,
	}
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	product, err := scanProduct(p.db.QueryRow(ctx, findByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

// FindAll retrieves all available products ordered by ID.
// It returns a slice of products, which may be empty if no products exist.
func (p *PgStore) FindAll(ctx context.Context) ([]Product, error) {
	products, err := p.queryProducts(ctx, findAllQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	return products, nil
}

// FindByNameContains retrieves the products whose name contains the substring.
// It returns a slice of products, which may be empty if nothing matches.
func (p *PgStore) FindByNameContains(ctx context.Context, substring string) ([]Product, error) {
	products, err := p.queryProducts(ctx, findByNameContainsQuery, substring)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by name: %w", err)
	}
	return products, nil
}

// Create adds a new product to the system.
// Returns an error if the product cannot be created.
func (p *PgStore) Create(ctx context.Context, name, description string, price decimal.Decimal) (*Product, error) {
	product, err := scanProduct(p.db.QueryRow(ctx, createQuery, name, description, price.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// Update replaces the mutable fields of an existing product in a single statement.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Update(ctx context.Context, id int64, name, description string, price decimal.Decimal) (*Product, error) {
	product, err := scanProduct(p.db.QueryRow(ctx, updateQuery, id, name, description, price.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteByID removes a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) DeleteByID(ctx context.Context, id int64) error {
	tag, err := p.db.Exec(ctx, deleteQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}

func (p *PgStore) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Product, error) {
		product, err := scanProduct(row)
		if err != nil {
			return Product{}, err
		}
		return *product, nil
	})
}

// scanProduct reads a row selected with productColumns. Price travels as text so no float rounding happens.
func scanProduct(row pgx.Row) (*Product, error) {
	var (
		product Product
		price   string
	)
	if err := row.Scan(&product.ID, &product.Name, &product.Description, &price); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price %q: %w", price, err)
	}
	product.Price = parsed
	return &product, nil
}
