// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/abgdnv/catalog/pkg/messaging/events"
	"github.com/shopspring/decimal"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindAll returns all available products.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// Search returns the products whose name contains the given substring.
	// Returns a NotFoundError if the query is empty or nothing matches.
	Search(ctx context.Context, name string) ([]ProductDto, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns a NotFoundError if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// Create validates the input and adds a new product to the system.
	// Returns an InvalidInputError naming the first invalid field.
	Create(ctx context.Context, input ProductInputDto) (*ProductDto, error)

	// Update validates the input and replaces all fields of an existing product.
	// Returns an InvalidInputError or a NotFoundError.
	Update(ctx context.Context, id int64, input ProductInputDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns a NotFoundError if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	publisher  messaging.Publisher
}

// NewService creates a new instance of ProductService with the provided repository.
// Product changes are announced through publisher; a nil publisher disables events.
func NewService(repo store.ProductStore, publisher messaging.Publisher) *Service {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &Service{
		repository: repo,
		publisher:  publisher,
	}
}

// ProductInputDto represents the caller-supplied data for creating or updating a product.
// Field order is the validation order.
type ProductInputDto struct {
	Name        string           `json:"name"        validate:"notblank,max=255"`
	Description string           `json:"description" validate:"notblank"`
	Price       *decimal.Decimal `json:"price"       validate:"required,gt=0"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// FindAll retrieves a list of all products and returns them as ProductDTOs.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return toDtos(products), nil
}

// Search retrieves the products whose name contains name.
// No match is reported as a NotFoundError rather than an empty list.
func (s *Service) Search(ctx context.Context, name string) ([]ProductDto, error) {
	if name == "" {
		return nil, perrors.NewNotFoundByName(name)
	}
	products, err := s.repository.FindByNameContains(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search products by name %q: %w", name, err)
	}
	if len(products) == 0 {
		return nil, perrors.NewNotFoundByName(name)
	}
	return toDtos(products), nil
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
func (s *Service) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrWrap(err, id, "failed to fetch product")
	}
	return toDto(product), nil
}

// Create validates the input, stores a new product and returns it as a ProductDto.
func (s *Service) Create(ctx context.Context, input ProductInputDto) (*ProductDto, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	p, err := s.repository.Create(ctx, input.Name, input.Description, *input.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	created := toDto(p)
	s.publish(ctx, events.ProductCreatedEvent{
		ProductID:   created.ID,
		Name:        created.Name,
		Description: created.Description,
		Price:       created.Price,
		OccurredAt:  time.Now().UTC(),
	})
	return created, nil
}

// Update validates the input, requires the product to exist and replaces its fields.
// Returns the updated product as a ProductDto.
func (s *Service) Update(ctx context.Context, id int64, input ProductInputDto) (*ProductDto, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	if _, err := s.repository.FindByID(ctx, id); err != nil {
		return nil, notFoundOrWrap(err, id, "failed to fetch product for update")
	}
	p, err := s.repository.Update(ctx, id, input.Name, input.Description, *input.Price)
	if err != nil {
		return nil, notFoundOrWrap(err, id, "failed to update product")
	}

	updated := toDto(p)
	s.publish(ctx, events.ProductUpdatedEvent{
		ProductID:   updated.ID,
		Name:        updated.Name,
		Description: updated.Description,
		Price:       updated.Price,
		OccurredAt:  time.Now().UTC(),
	})
	return updated, nil
}

// DeleteByID requires the product to exist and then removes it.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	if _, err := s.repository.FindByID(ctx, id); err != nil {
		return notFoundOrWrap(err, id, "failed to fetch product for deletion")
	}
	if err := s.repository.DeleteByID(ctx, id); err != nil {
		return notFoundOrWrap(err, id, "failed to delete product")
	}

	s.publish(ctx, events.ProductDeletedEvent{
		ProductID:  id,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// publish sends a product event. Failures are logged and never fail the operation.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish product event", "subject", event.Subject(), "error", err)
	}
}

// notFoundOrWrap converts a store not-found into a NotFoundError for id and wraps anything else.
func notFoundOrWrap(err error, id int64, msg string) error {
	if errors.Is(err, perrors.ErrProductNotFound) {
		return perrors.NewNotFoundByID(id)
	}
	return fmt.Errorf("%s with ID %d: %w", msg, id, err)
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
	}
}

func toDtos(products []store.Product) []ProductDto {
	productDTOs := make([]ProductDto, len(products))
	for i := range products {
		productDTOs[i] = *toDto(&products[i])
	}
	return productDTOs
}
