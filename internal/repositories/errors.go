package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrItemNotFound     = errors.New("cart item not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
)

const (
	pqForeignKeyViolation  = "23503"
	pqCheckViolation       = "23514"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// IsRetryableConflict reports whether err is a serialization failure or a
// deadlock, both of which the caller can safely retry.
func IsRetryableConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	return pqErr.Code == pqSerializationFailure || pqErr.Code == pqDeadlockDetected
}

// mapConstraintErr translates cart_items constraint violations into the
// repository sentinels. The constraint name tells which reference broke.
func mapConstraintErr(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case pqForeignKeyViolation:
		switch pqErr.Constraint {
		case "cart_items_cart_id_fkey":
			return ErrCartNotFound
		case "cart_items_product_id_fkey":
			return ErrProductNotFound
		}
	case pqCheckViolation:
		return ErrInvalidQuantity
	}

	return err
}
