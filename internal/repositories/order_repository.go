package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront-labs/checkout-core/internal/models"
	"github.com/storefront-labs/checkout-core/internal/utils"
)

// OrderRepository owns the order rows and the transaction-scoped primitives
// the checkout flow is built from. The service layer decides the order of
// the steps; every step here runs against the one transaction opened by
// WithinCheckoutTx.
type OrderRepository interface {
	WithinCheckoutTx(ctx context.Context, fn func(tx *sql.Tx) error) error
	LockCart(ctx context.Context, tx *sql.Tx, cartID uuid.UUID) error
	CartLines(ctx context.Context, tx *sql.Tx, cartID uuid.UUID) ([]models.CheckoutLine, error)
	InsertOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error
	InsertOrderItems(ctx context.Context, tx *sql.Tx, items []models.OrderItem) error
	DeleteCart(ctx context.Context, tx *sql.Tx, cartID uuid.UUID) error

	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

// WithinCheckoutTx runs fn inside one read-committed transaction and commits
// only if fn returns nil. Read committed plus the explicit cart row lock is
// enough for the checkout races: the loser of a double checkout observes the
// cart already deleted instead of a serialization abort it would have to
// retry. The caller bounds the whole transaction through ctx.
func (r *orderRepository) WithinCheckoutTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {

	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LockCart takes the cart's row lock and holds it until commit, so a
// concurrent addItem or second checkout on the same cart waits behind us.
func (r *orderRepository) LockCart(ctx context.Context, tx *sql.Tx, cartID uuid.UUID) error {

	query := `SELECT id FROM carts WHERE id = $1 FOR UPDATE`

	var id uuid.UUID
	if err := tx.QueryRowContext(ctx, query, cartID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCartNotFound
		}
		return fmt.Errorf("failed to lock cart: %w", err)
	}

	return nil
}

// CartLines reads the cart's items joined with each product's current
// unit_price. This is the single point where catalog price and order price
// meet; the caller copies the price into the order items and the two are
// independent afterwards.
func (r *orderRepository) CartLines(ctx context.Context, tx *sql.Tx, cartID uuid.UUID) ([]models.CheckoutLine, error) {

	query := `
		SELECT ci.product_id, ci.quantity, p.unit_price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
	`

	rows, err := tx.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart lines: %w", err)
	}
	defer rows.Close()

	var lines []models.CheckoutLine

	for rows.Next() {

		var line models.CheckoutLine

		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}

		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cart lines: %w", err)
	}

	return lines, nil
}

func (r *orderRepository) InsertOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error {

	query := `
		INSERT INTO orders (id, customer_id, payment_status, placed_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING placed_at
	`

	err := tx.QueryRowContext(ctx, query, order.ID, order.CustomerID, order.PaymentStatus).
		Scan(&order.PlacedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

// InsertOrderItems writes all items in one multi-row statement to keep the
// transaction short.
func (r *orderRepository) InsertOrderItems(ctx context.Context, tx *sql.Tx, items []models.OrderItem) error {

	if len(items) == 0 {
		return nil
	}

	var (
		sb   strings.Builder
		args = make([]any, 0, len(items)*5)
	)

	sb.WriteString(`INSERT INTO order_items (id, order_id, product_id, quantity, unit_price) VALUES `)

	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 5
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5)
		args = append(args, item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice)
	}

	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("failed to insert order items: %w", err)
	}

	return nil
}

// DeleteCart removes the cart; its items go with it via the cascade.
func (r *orderRepository) DeleteCart(ctx context.Context, tx *sql.Tx, cartID uuid.UUID) error {

	if _, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{ID: id}

	query := `
		SELECT customer_id, payment_status, placed_at
		FROM orders
		WHERE id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&order.CustomerID, &order.PaymentStatus, &order.PlacedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	itemsQuery := `
		SELECT id, product_id, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
	`

	rows, err := r.DB.QueryContext(dbCtx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {

		item := models.OrderItem{OrderID: id}

		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order items: %w", err)
	}

	return order, nil
}

// UpdatePaymentStatus is the one mutation an order admits after placement.
func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE orders SET payment_status = $1 WHERE id = $2`

	result, err := r.DB.ExecContext(dbCtx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return ErrOrderNotFound
	}

	return nil
}
