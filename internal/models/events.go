package models

import "github.com/google/uuid"

// OrderPlacedEvent is handed to every registered consumer after a checkout
// commits. It carries the fully materialized order with snapshotted prices.
type OrderPlacedEvent struct {
	Order      Order     `json:"order"`
	CustomerID uuid.UUID `json:"customer_id"`
	Customer   Customer  `json:"customer"`
}

// AccountCreatedEvent mirrors the account service's user-created broadcast;
// the provisioning consumer turns it into a customer profile.
type AccountCreatedEvent struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Phone  string    `json:"phone,omitempty"`
}
