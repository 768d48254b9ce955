package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the catalog's view of an item. The checkout core only ever
// reads it; unit_price is the live price and is snapshotted into order
// items at checkout time.
type Product struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	UnitPrice float64   `json:"unit_price"`
	Inventory int       `json:"inventory"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductSummary is the slimmed-down product embedded in cart items.
type ProductSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	UnitPrice float64   `json:"unit_price"`
}
