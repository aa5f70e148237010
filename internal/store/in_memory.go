package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/shopspring/decimal"
)

// InMemoryStore implements ProductStore using an in-memory map.
type InMemoryStore struct {
	mu       sync.RWMutex
	products map[int64]Product
	nextID   int64
}

// NewInMemoryStore creates a new instance of ProductStore backed by a map.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		products: make(map[int64]Product),
		nextID:   1,
	}
}

// FindByID retrieves a product by its ID.
func (s *InMemoryStore) FindByID(_ context.Context, id int64) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	return &p, nil
}

// FindAll retrieves all products ordered by ID.
func (s *InMemoryStore) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(Product) bool { return true }), nil
}

// FindByNameContains retrieves the products whose name contains substring.
func (s *InMemoryStore) FindByNameContains(_ context.Context, substring string) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(p Product) bool { return strings.Contains(p.Name, substring) }), nil
}

// Create creates a new product and returns it.
func (s *InMemoryStore) Create(_ context.Context, name, description string, price decimal.Decimal) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := Product{
		ID:          s.nextID,
		Name:        name,
		Description: description,
		Price:       price,
	}
	s.nextID++
	s.products[product.ID] = product

	return &product, nil
}

// Update replaces the mutable fields of an existing product.
func (s *InMemoryStore) Update(_ context.Context, id int64, name, description string, price decimal.Decimal) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return nil, perrors.ErrProductNotFound
	}
	product := Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
	}
	s.products[id] = product

	return &product, nil
}

// DeleteByID deletes a product by its ID.
func (s *InMemoryStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return perrors.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

// collect returns the matching products sorted by ID. Callers must hold the lock.
func (s *InMemoryStore) collect(match func(Product) bool) []Product {
	list := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if match(p) {
			list = append(list, p)
		}
	}
	slices.SortFunc(list, func(a, b Product) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
	return list
}
