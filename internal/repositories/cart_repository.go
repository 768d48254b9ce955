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

type CartRepository interface {
	CreateCart(ctx context.Context, cart *models.Cart) error
	GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
	UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*models.CartItem, error)
	SetItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

func (r *cartRepository) CreateCart(ctx context.Context, cart *models.Cart) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO carts (id, created_at)
		VALUES ($1, NOW())
		RETURNING created_at
	`

	if err := r.DB.QueryRowContext(dbCtx, query, cart.ID).Scan(&cart.CreatedAt); err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}

	return nil
}

// GetCart loads the cart and its items with each product's live price.
// Line totals are estimates until checkout snapshots them.
func (r *cartRepository) GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cart := &models.Cart{ID: cartID}

	err := r.DB.QueryRowContext(dbCtx, `SELECT created_at FROM carts WHERE id = $1`, cartID).
		Scan(&cart.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	query := `
		SELECT ci.id, ci.quantity, p.id, p.title, p.unit_price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY p.title
	`

	rows, err := r.DB.QueryContext(dbCtx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {

		item := models.CartItem{CartID: cartID}

		err := rows.Scan(&item.ID, &item.Quantity,
			&item.Product.ID, &item.Product.Title, &item.Product.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		item.TotalPrice = float64(item.Quantity) * item.Product.UnitPrice
		cart.TotalPrice += item.TotalPrice
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cart items: %w", err)
	}

	return cart, nil
}

// UpsertItem adds quantity to the (cart, product) line, creating it when
// absent. The increment happens inside the database, so two concurrent adds
// both land; a read-then-write here would lose one of them.
func (r *cartRepository) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*models.CartItem, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, quantity
	`

	item := &models.CartItem{
		CartID:  cartID,
		Product: models.ProductSummary{ID: productID},
	}

	err := r.DB.QueryRowContext(dbCtx, query, uuid.New(), cartID, productID, quantity).
		Scan(&item.ID, &item.Quantity)
	if err != nil {
		return nil, mapConstraintErr(err)
	}

	return item, nil
}

// SetItemQuantity replaces the stored quantity, unlike UpsertItem which adds
// to it.
func (r *cartRepository) SetItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE cart_items
		SET quantity = $1
		WHERE id = $2 AND cart_id = $3
	`

	result, err := r.DB.ExecContext(dbCtx, query, quantity, itemID, cartID)
	if err != nil {
		return mapConstraintErr(err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return ErrItemNotFound
	}

	return nil
}

// RemoveItem deletes the line. Deleting an absent item is a no-op, which
// keeps client retries harmless.
func (r *cartRepository) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		DELETE FROM cart_items
		WHERE id = $1 AND cart_id = $2
	`

	if _, err := r.DB.ExecContext(dbCtx, query, itemID, cartID); err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	return nil
}
