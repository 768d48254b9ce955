package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront-labs/checkout-core/internal/models"
	"github.com/storefront-labs/checkout-core/internal/utils"
)

type CustomerRepository interface {
	GetCustomerByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error)
	GetCustomerByUserIDTx(ctx context.Context, tx *sql.Tx, userID uuid.UUID) (*models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
}

type customerRepository struct {
	DB *sql.DB
}

func NewCustomerRepo(db *sql.DB) CustomerRepository {
	return &customerRepository{DB: db}
}

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *customerRepository) GetCustomerByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	return getCustomerByUserID(dbCtx, r.DB, userID)
}

// GetCustomerByUserIDTx is the same lookup scoped to an open transaction, so
// checkout resolves the customer inside its own boundary.
func (r *customerRepository) GetCustomerByUserIDTx(ctx context.Context, tx *sql.Tx, userID uuid.UUID) (*models.Customer, error) {
	return getCustomerByUserID(ctx, tx, userID)
}

func getCustomerByUserID(ctx context.Context, q rowQueryer, userID uuid.UUID) (*models.Customer, error) {

	query := `
		SELECT id, user_id, email, phone, membership, created_at
		FROM customers
		WHERE user_id = $1
	`

	customer := &models.Customer{}

	err := q.QueryRowContext(ctx, query, userID).Scan(
		&customer.ID, &customer.UserID, &customer.Email,
		&customer.Phone, &customer.Membership, &customer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// CreateCustomer provisions a profile for a new user account. A repeated
// delivery of the same account-created event is a no-op.
func (r *customerRepository) CreateCustomer(ctx context.Context, customer *models.Customer) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO customers (id, user_id, email, phone, membership, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id) DO NOTHING
	`

	_, err := r.DB.ExecContext(dbCtx, query,
		customer.ID, customer.UserID, customer.Email, customer.Phone, customer.Membership)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}
