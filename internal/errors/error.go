// Package errors provides custom error types for product-related operations.
package errors

import (
	"errors"
	"fmt"
)

var ErrProductNotFound = errors.New("product not found")
var ErrInvalidInput = errors.New("invalid product input")

// NotFoundError reports that a lookup required by an operation yielded nothing.
// Query is the id or the search string that was looked up.
type NotFoundError struct {
	Query string
}

// NewNotFoundByID returns a NotFoundError for a product id.
func NewNotFoundByID(id int64) *NotFoundError {
	return &NotFoundError{Query: fmt.Sprintf("id %d", id)}
}

// NewNotFoundByName returns a NotFoundError for a name search.
func NewNotFoundByName(name string) *NotFoundError {
	return &NotFoundError{Query: fmt.Sprintf("name containing '%s'", name)}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product with %s not found", e.Query)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

// InvalidInputError reports the first product field that failed validation.
type InvalidInputError struct {
	Field string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid product %s", e.Field)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}
