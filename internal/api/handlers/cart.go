package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/storefront-labs/checkout-core/internal/api/middleware"
	"github.com/storefront-labs/checkout-core/internal/models"
	service "github.com/storefront-labs/checkout-core/internal/services"
	"github.com/storefront-labs/checkout-core/internal/utils"
	"github.com/storefront-labs/checkout-core/internal/utils/response"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

// CreateCart godoc
//	@Summary		Create a new cart
//	@Description	Creates an empty cart and returns its identifier. Carts are anonymous; keep the ID client-side.
//	@Tags			Carts
//	@Produce		json
//	@Success		201	{object}	models.Cart				"Successfully created cart"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/carts [post]
func (h *CartHandler) CreateCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		cart, err := h.cartService.CreateCart(r.Context())
		if err != nil {
			logger.Error("Failed to create cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart created", slog.String("cartId", cart.ID.String()))
		response.Success(w, http.StatusCreated, cart)
	}
}

// GetCart godoc
//	@Summary		Get a cart by ID
//	@Description	Retrieves a cart with its items and estimated totals computed from current product prices.
//	@Tags			Carts
//	@Produce		json
//	@Param			id	path		string					true	"Cart ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Cart				"Successfully retrieved cart"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid cart ID format"
//	@Failure		404	{object}	response.ErrorResponse	"Cart not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/carts/{id} [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		cartID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid cart ID", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), cartID)
		if err != nil {
			logger.Error("Failed to fetch cart", slog.String("cartId", cartID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// AddItem godoc
//	@Summary		Add an item to a cart
//	@Description	Adds a product to the cart. If the product is already in the cart the quantities are merged additively.
//	@Tags			Carts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Cart ID (UUID)"	Format(uuid)
//	@Param			item	body		models.AddItemRequest	true	"Product and quantity to add"
//	@Success		200		{object}	models.CartItem			"Resulting cart line after the merge"
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Failure		404		{object}	response.ErrorResponse	"Cart or product not found"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/carts/{id}/items [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		cartID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid cart ID", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add item input")
			return
		}

		item, err := h.cartService.AddItem(r.Context(), cartID, &req)
		if err != nil {
			logger.Error("Failed to add item to cart",
				slog.String("cartId", cartID.String()),
				slog.String("productId", req.ProductID.String()),
				slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart",
			slog.String("cartId", cartID.String()),
			slog.String("productId", req.ProductID.String()),
			slog.Int("quantity", item.Quantity))
		response.Success(w, http.StatusOK, item)
	}
}

// UpdateItem godoc
//	@Summary		Update a cart item's quantity
//	@Description	Replaces the stored quantity of a cart line. Unlike adding, this does not merge.
//	@Tags			Carts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Cart ID (UUID)"		Format(uuid)
//	@Param			itemId	path		string								true	"Cart item ID (UUID)"	Format(uuid)
//	@Param			item	body		models.UpdateItemQuantityRequest	true	"New quantity"
//	@Success		204		"Quantity updated"
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Failure		404		{object}	response.ErrorResponse	"Cart item not found"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/carts/{id}/items/{itemId} [put]
func (h *CartHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		cartID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid cart ID", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		itemID, err := utils.ParseID(r, "itemId")
		if err != nil {
			logger.Warn("Invalid cart item ID", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		var req models.UpdateItemQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update quantity input")
			return
		}

		if err := h.cartService.UpdateItemQuantity(r.Context(), cartID, itemID, req.Quantity); err != nil {
			logger.Error("Failed to update cart item",
				slog.String("cartId", cartID.String()),
				slog.String("itemId", itemID.String()),
				slog.Any("error", err))
			response.Error(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// RemoveItem godoc
//	@Summary		Remove an item from a cart
//	@Description	Deletes a cart line. Removing an item that is already gone succeeds.
//	@Tags			Carts
//	@Param			id		path	string	true	"Cart ID (UUID)"		Format(uuid)
//	@Param			itemId	path	string	true	"Cart item ID (UUID)"	Format(uuid)
//	@Success		204		"Item removed"
//	@Failure		400		{object}	response.ErrorResponse	"Invalid ID format"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/carts/{id}/items/{itemId} [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		cartID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid cart ID", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		itemID, err := utils.ParseID(r, "itemId")
		if err != nil {
			logger.Warn("Invalid cart item ID", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if err := h.cartService.RemoveItem(r.Context(), cartID, itemID); err != nil {
			logger.Error("Failed to remove cart item",
				slog.String("cartId", cartID.String()),
				slog.String("itemId", itemID.String()),
				slog.Any("error", err))
			response.Error(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
