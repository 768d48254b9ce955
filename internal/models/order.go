package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	PaymentStatusPaid   PaymentStatus = "PAID"
	PaymentStatusFailed PaymentStatus = "FAILED"
)

// OrderItem is a purchased line. UnitPrice is the snapshot captured at
// checkout time and is never recomputed from the live product price.
type OrderItem struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
}

// Order is immutable once placed, except for payment_status transitions.
type Order struct {
	ID            uuid.UUID     `json:"id"`
	CustomerID    uuid.UUID     `json:"customer_id"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PlacedAt      time.Time     `json:"placed_at"`
	Items         []OrderItem   `json:"items"`
}

// CheckoutLine is one cart line joined with the product's current price,
// read inside the checkout transaction.
type CheckoutLine struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice float64
}

type CheckoutRequest struct {
	CartID uuid.UUID `json:"cart_id" validate:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus PaymentStatus `json:"payment_status" validate:"required,oneof=UNPAID PAID FAILED"`
}
