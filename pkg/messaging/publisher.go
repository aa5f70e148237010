// Package messaging defines the events published by the catalog and the publisher contract.
package messaging

import (
	"context"
)

const (
	ProductsCreatedSubject = "products.created"
	ProductsUpdatedSubject = "products.updated"
	ProductsDeletedSubject = "products.deleted"
)

// ProductsSubjects is the subject filter covering every product event.
const ProductsSubjects = "products.>"

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. Used when messaging is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error {
	return nil
}
