package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is one-to-one with an external user account. Checkout references
// it but never mutates it; the provisioning consumer creates it.
type Customer struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Membership string    `json:"membership"`
	CreatedAt  time.Time `json:"created_at"`
}
