package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	apperrors "github.com/storefront-labs/checkout-core/internal/errors"
	"github.com/storefront-labs/checkout-core/internal/events"
	"github.com/storefront-labs/checkout-core/internal/metrics"
	"github.com/storefront-labs/checkout-core/internal/models"
	repository "github.com/storefront-labs/checkout-core/internal/repositories"
)

// Publisher is the dispatcher surface checkout needs.
type Publisher interface {
	Publish(ctx context.Context, kind events.Kind, payload any)
}

// CheckoutService converts a cart into an order atomically and announces the
// result.
type CheckoutService interface {
	Checkout(ctx context.Context, cartID, userID uuid.UUID) (*models.Order, error)
	GetOrderForUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status models.PaymentStatus) (*models.Order, error)
}

type checkoutService struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	publisher    Publisher
}

func NewCheckoutService(orderRepo repository.OrderRepository, customerRepo repository.CustomerRepository, publisher Publisher) CheckoutService {
	return &checkoutService{orderRepo: orderRepo, customerRepo: customerRepo, publisher: publisher}
}

// Checkout runs the whole conversion inside one transaction: resolve the
// customer, lock the cart, read its lines with current prices, write the
// order and a batch of snapshotted items, delete the cart, commit. Any
// failure before commit rolls everything back and leaves the cart reusable.
// The event publish happens strictly after commit and cannot undo it.
func (s *checkoutService) Checkout(ctx context.Context, cartID, userID uuid.UUID) (*models.Order, error) {

	var (
		order    *models.Order
		customer *models.Customer
	)

	txErr := s.orderRepo.WithinCheckoutTx(ctx, func(tx *sql.Tx) error {

		var err error

		customer, err = s.customerRepo.GetCustomerByUserIDTx(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrCustomerNotFound) {
				return apperrors.NotFoundError("Customer not found").WithError(err)
			}
			return err
		}

		// Lock before reading the lines: a concurrent addItem on this cart
		// waits here, so the item list cannot change under us.
		if err := s.orderRepo.LockCart(ctx, tx, cartID); err != nil {
			if errors.Is(err, repository.ErrCartNotFound) {
				return apperrors.NotFoundError("Cart not found").WithError(err)
			}
			return err
		}

		lines, err := s.orderRepo.CartLines(ctx, tx, cartID)
		if err != nil {
			return err
		}

		if len(lines) == 0 {
			return apperrors.EmptyCartError("Cannot check out an empty cart")
		}

		order = &models.Order{
			ID:            uuid.New(),
			CustomerID:    customer.ID,
			PaymentStatus: models.PaymentStatusUnpaid,
		}

		if err := s.orderRepo.InsertOrder(ctx, tx, order); err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, models.OrderItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			})
		}

		if err := s.orderRepo.InsertOrderItems(ctx, tx, items); err != nil {
			return err
		}

		if err := s.orderRepo.DeleteCart(ctx, tx, cartID); err != nil {
			return err
		}

		order.Items = items

		return nil
	})

	if txErr != nil {
		appErr := checkoutError(txErr)
		metrics.ObserveCheckout(appErr.Code)
		return nil, appErr
	}

	metrics.ObserveCheckout("success")

	// The order is final from here on; consumers cannot fail it.
	s.publisher.Publish(ctx, events.OrderPlaced, models.OrderPlacedEvent{
		Order:      *order,
		CustomerID: order.CustomerID,
		Customer:   *customer,
	})

	return order, nil
}

// checkoutError maps a transaction failure onto the API taxonomy. Domain
// errors pass through; serialization conflicts become retryable 409s;
// everything else is a transient storage failure.
func checkoutError(err error) *apperrors.AppError {

	if appErr, ok := apperrors.IsAppError(err); ok {
		return appErr
	}

	if repository.IsRetryableConflict(err) {
		return apperrors.ConflictError("Checkout conflicted with a concurrent update, retry").WithError(err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.StorageError("Checkout aborted before commit").WithError(err)
	}

	return apperrors.StorageError("Checkout failed").WithError(err)
}

func (s *checkoutService) GetOrderForUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {

	customer, err := s.customerRepo.GetCustomerByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, apperrors.NotFoundError("Customer not found").WithError(err)
		}
		return nil, apperrors.StorageError("Failed to resolve customer").WithError(err)
	}

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperrors.NotFoundError("Order not found").WithError(err)
		}
		return nil, apperrors.StorageError("Failed to retrieve order").WithError(err)
	}

	if order.CustomerID != customer.ID {
		return nil, apperrors.ForbiddenError("You don't have permission to access this order")
	}

	return order, nil
}

func (s *checkoutService) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status models.PaymentStatus) (*models.Order, error) {

	if err := s.orderRepo.UpdatePaymentStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperrors.NotFoundError("Order not found").WithError(err)
		}
		return nil, apperrors.StorageError("Failed to update payment status").WithError(err)
	}

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.StorageError("Failed to reload order").WithError(err)
	}

	return order, nil
}
