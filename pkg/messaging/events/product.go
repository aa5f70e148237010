package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/shopspring/decimal"
)

type ProductCreatedEvent struct {
	ProductID   int64           `json:"product_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

func (e ProductCreatedEvent) Subject() string {
	return messaging.ProductsCreatedSubject
}

func (e ProductCreatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type ProductUpdatedEvent struct {
	ProductID   int64           `json:"product_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

func (e ProductUpdatedEvent) Subject() string {
	return messaging.ProductsUpdatedSubject
}

func (e ProductUpdatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type ProductDeletedEvent struct {
	ProductID  int64     `json:"product_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e ProductDeletedEvent) Subject() string {
	return messaging.ProductsDeletedSubject
}

func (e ProductDeletedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
