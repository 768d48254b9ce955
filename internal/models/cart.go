package models

import (
	"time"

	"github.com/google/uuid"
)

type CartItem struct {
	ID         uuid.UUID      `json:"id"`
	CartID     uuid.UUID      `json:"-"`
	Product    ProductSummary `json:"product"`
	Quantity   int            `json:"quantity"`
	TotalPrice float64        `json:"total_price"`
}

// Cart is the mutable pre-purchase container. TotalPrice is always an
// estimate computed from live product prices; only checkout fixes prices.
type Cart struct {
	ID         uuid.UUID  `json:"id"`
	Items      []CartItem `json:"items"`
	TotalPrice float64    `json:"total_price"`
	CreatedAt  time.Time  `json:"created_at"`
}

type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"   validate:"required,gt=0"`
}

type UpdateItemQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}
