package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/storefront-labs/checkout-core/internal/api/middleware"
	"github.com/storefront-labs/checkout-core/internal/errors"
	"github.com/storefront-labs/checkout-core/internal/models"
	service "github.com/storefront-labs/checkout-core/internal/services"
	"github.com/storefront-labs/checkout-core/internal/utils"
	"github.com/storefront-labs/checkout-core/internal/utils/response"
)

// RateLimiter bounds checkout attempts per user.
type RateLimiter interface {
	CheckCheckoutRateLimit(ctx context.Context, userID string) (bool, int, int, error)
}

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	rateLimiter     RateLimiter
	validator       *validator.Validate
}

func NewCheckoutHandler(checkoutService service.CheckoutService, rateLimiter RateLimiter) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		rateLimiter:     rateLimiter,
		validator:       validator.New(),
	}
}

// Checkout godoc
//	@Summary		Check out a cart
//	@Description	Converts the cart into an order atomically: prices are snapshotted, the cart is consumed, and the order starts UNPAID. Requires authentication.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			checkout	body		models.CheckoutRequest	true	"Cart to check out"
//	@Success		201			{object}	models.Order			"Successfully placed order"
//	@Failure		400			{object}	response.ErrorResponse	"Validation error"
//	@Failure		401			{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404			{object}	response.ErrorResponse	"Cart or customer not found"
//	@Failure		422			{object}	response.ErrorResponse	"Cart is empty"
//	@Failure		429			{object}	response.ErrorResponse	"Too many checkout attempts"
//	@Failure		500			{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/checkout [post]
func (h *CheckoutHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized checkout attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		// Limiter failures only log; an unreachable Redis must not block
		// checkout.
		allowed, remaining, retryAfter, err := h.rateLimiter.CheckCheckoutRateLimit(r.Context(), claims.UserID.String())
		if err != nil {
			logger.Error("Rate limiter check failed", slog.Any("error", err))
		} else if !allowed {
			logger.Warn("Checkout rate limit exceeded", slog.Int("retryAfter", retryAfter))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			response.Error(w, errors.TooManyRequestsError("Too many checkout attempts, slow down"))
			return
		} else {
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}

		var req models.CheckoutRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid checkout input")
			return
		}

		order, err := h.checkoutService.Checkout(r.Context(), req.CartID, claims.UserID)
		if err != nil {
			logger.Error("Checkout failed",
				slog.String("cartId", req.CartID.String()),
				slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order placed",
			slog.String("orderId", order.ID.String()),
			slog.String("cartId", req.CartID.String()),
			slog.Int("items", len(order.Items)))
		response.Success(w, http.StatusCreated, order)
	}
}

// GetOrder godoc
//	@Summary		Get an order by ID
//	@Description	Retrieves an order placed by the authenticated user, including its snapshotted line prices.
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string					true	"Order ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Order			"Successfully retrieved order"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid order ID format"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403	{object}	response.ErrorResponse	"Order belongs to another customer"
//	@Failure		404	{object}	response.ErrorResponse	"Order not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders/{id} [get]
func (h *CheckoutHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized order access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		orderID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order ID", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		order, err := h.checkoutService.GetOrderForUser(r.Context(), orderID, claims.UserID)
		if err != nil {
			logger.Error("Failed to fetch order", slog.String("orderId", orderID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// UpdatePaymentStatus godoc
//	@Summary		Update an order's payment status
//	@Description	Transitions the order's payment status. Item lines and snapshotted prices are never touched.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Order ID (UUID)"	Format(uuid)
//	@Param			status	body		models.UpdatePaymentStatusRequest	true	"New payment status"
//	@Success		200		{object}	models.Order			"Updated order"
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse	"Order not found"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders/{id}/payment-status [patch]
func (h *CheckoutHandler) UpdatePaymentStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		if _, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims); !ok {
			logger.Warn("Unauthorized payment status update attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		orderID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order ID", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		var req models.UpdatePaymentStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid payment status input")
			return
		}

		order, err := h.checkoutService.UpdatePaymentStatus(r.Context(), orderID, req.PaymentStatus)
		if err != nil {
			logger.Error("Failed to update payment status",
				slog.String("orderId", orderID.String()),
				slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Payment status updated",
			slog.String("orderId", orderID.String()),
			slog.String("status", string(order.PaymentStatus)))
		response.Success(w, http.StatusOK, order)
	}
}
