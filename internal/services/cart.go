package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	apperrors "github.com/storefront-labs/checkout-core/internal/errors"
	"github.com/storefront-labs/checkout-core/internal/models"
	repository "github.com/storefront-labs/checkout-core/internal/repositories"
)

// CartService is the Cart Store: carts, line items, merge-on-add.
type CartService interface {
	CreateCart(ctx context.Context) (*models.Cart, error)
	GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, cartID uuid.UUID, req *models.AddItemRequest) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

func (s *cartService) CreateCart(ctx context.Context) (*models.Cart, error) {

	cart := &models.Cart{
		ID:    uuid.New(),
		Items: []models.CartItem{},
	}

	if err := s.cartRepo.CreateCart(ctx, cart); err != nil {
		return nil, apperrors.StorageError("Failed to create cart").WithError(err)
	}

	return cart, nil
}

func (s *cartService) GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {

	cart, err := s.cartRepo.GetCart(ctx, cartID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, apperrors.NotFoundError("Cart not found").WithError(err)
		}
		return nil, apperrors.StorageError("Failed to retrieve cart").WithError(err)
	}

	return cart, nil
}

// AddItem merges quantity into an existing (cart, product) line or creates
// one. The merge is additive; use UpdateItemQuantity to replace a quantity.
func (s *cartService) AddItem(ctx context.Context, cartID uuid.UUID, req *models.AddItemRequest) (*models.CartItem, error) {

	if req.Quantity <= 0 {
		return nil, apperrors.ValidationError("Quantity must be a positive integer")
	}

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperrors.NotFoundError("Product not found").WithError(err)
		}
		return nil, apperrors.StorageError("Failed to resolve product").WithError(err)
	}

	item, err := s.cartRepo.UpsertItem(ctx, cartID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCartNotFound):
			return nil, apperrors.NotFoundError("Cart not found").WithError(err)
		case errors.Is(err, repository.ErrProductNotFound):
			return nil, apperrors.NotFoundError("Product not found").WithError(err)
		case errors.Is(err, repository.ErrInvalidQuantity):
			return nil, apperrors.ValidationError("Quantity must be a positive integer").WithError(err)
		}
		return nil, apperrors.StorageError("Failed to add item to cart").WithError(err)
	}

	item.Product = models.ProductSummary{
		ID:        product.ID,
		Title:     product.Title,
		UnitPrice: product.UnitPrice,
	}
	item.TotalPrice = float64(item.Quantity) * product.UnitPrice

	return item, nil
}

// UpdateItemQuantity replaces the stored quantity.
func (s *cartService) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error {

	if quantity <= 0 {
		return apperrors.ValidationError("Quantity must be a positive integer")
	}

	if err := s.cartRepo.SetItemQuantity(ctx, cartID, itemID, quantity); err != nil {
		switch {
		case errors.Is(err, repository.ErrItemNotFound):
			return apperrors.NotFoundError("Cart item not found").WithError(err)
		case errors.Is(err, repository.ErrInvalidQuantity):
			return apperrors.ValidationError("Quantity must be a positive integer").WithError(err)
		}
		return apperrors.StorageError("Failed to update cart item").WithError(err)
	}

	return nil
}

// RemoveItem succeeds whether or not the item still exists.
func (s *cartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {

	if err := s.cartRepo.RemoveItem(ctx, cartID, itemID); err != nil {
		return apperrors.StorageError("Failed to remove cart item").WithError(err)
	}

	return nil
}
