package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	appErrors "github.com/storefront-labs/checkout-core/internal/errors"
	"github.com/storefront-labs/checkout-core/internal/models"
	repository "github.com/storefront-labs/checkout-core/internal/repositories"
	"github.com/storefront-labs/checkout-core/internal/repositories/mocks"
	service "github.com/storefront-labs/checkout-core/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCartServiceTest(t *testing.T) (service.CartService, *mocks.CartRepository, *mocks.ProductRepository) {
	t.Helper()
	mockCartRepo := mocks.NewCartRepository(t)
	mockProductRepo := mocks.NewProductRepository(t)
	cartService := service.NewCartService(mockCartRepo, mockProductRepo)

	return cartService, mockCartRepo, mockProductRepo
}

func TestCreateCart(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		cartService, mockCartRepo, _ := setupCartServiceTest(t)
		mockCartRepo.On("CreateCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil).Once()

		// Act
		cart, err := cartService.CreateCart(ctx)

		// Assert
		assert.NoError(t, err)
		assert.NotNil(t, cart)
		assert.NotEqual(t, uuid.Nil, cart.ID)
		assert.Empty(t, cart.Items)
		assert.Equal(t, float64(0), cart.TotalPrice)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		cartService, mockCartRepo, _ := setupCartServiceTest(t)
		dbError := errors.New("database connection failed")
		mockCartRepo.On("CreateCart", ctx, mock.AnythingOfType("*models.Cart")).Return(dbError).Once()

		// Act
		cart, err := cartService.CreateCart(ctx)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, cart)
		var appErr *appErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeStorage, appErr.Code)
		assert.ErrorIs(t, err, dbError)
	})
}

func TestGetCart(t *testing.T) {
	ctx := context.Background()
	cartID := uuid.New()

	t.Run("Success - Cart Found", func(t *testing.T) {
		// Arrange
		cartService, mockCartRepo, _ := setupCartServiceTest(t)
		existingCart := &models.Cart{ID: cartID, Items: []models.CartItem{}}
		mockCartRepo.On("GetCart", ctx, cartID).Return(existingCart, nil).Once()

		// Act
		cart, err := cartService.GetCart(ctx, cartID)

		// Assert
		assert.NoError(t, err)
		require.NotNil(t, cart)
		assert.Equal(t, cartID, cart.ID)
	})

	t.Run("Failure - Cart Not Found", func(t *testing.T) {
		// Arrange
		cartService, mockCartRepo, _ := setupCartServiceTest(t)
		mockCartRepo.On("GetCart", ctx, cartID).Return(nil, repository.ErrCartNotFound).Once()

		// Act
		cart, err := cartService.GetCart(ctx, cartID)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, cart)
		var appErr *appErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})

	t.Run("Failure - Other Database Error", func(t *testing.T) {
		// Arrange
		cartService, mockCartRepo, _ := setupCartServiceTest(t)
		dbError := errors.New("unexpected database error")
		mockCartRepo.On("GetCart", ctx, cartID).Return(nil, dbError).Once()

		// Act
		cart, err := cartService.GetCart(ctx, cartID)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, cart)
		var appErr *appErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeStorage, appErr.Code)
	})
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()
	cartID := uuid.New()
	productID := uuid.New()
	product := &models.Product{ID: productID, Title: "Monstera Deliciosa", UnitPrice: 24.5}

	t.Run("Success - New Line", func(t *testing.T) {
		// Arrange
		cartService, mockCartRepo, mockProductRepo := setupCartServiceTest(t)
		mockProductRepo.On("GetProductByID", ctx, productID).Return(product, nil).Once()
		mockCartRepo.On("UpsertItem", ctx, cartID, productID, 2).
			Return(&models.CartItem{ID: uuid.New(), CartID: cartID, Quantity: 2}, nil).Once()

		// Act
		item, err := cartService.AddItem(ctx, cartID, &models.AddItemRequest{ProductID: productID, Quantity: 2})

		// Assert
		assert.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, 2, item.Quantity)
		assert.Equal(t, productID, item.Product.ID)
		assert.Equal(t, 49.0, item.TotalPrice)
	})

	t.Run("Success - Merge Into Existing Line", func(t *testing.T) {
		// Arrange
		cartService, mockCartRepo, mockProductRepo := setupCartServiceTest(t)
		mockProductRepo.On("GetProductByID", ctx, productID).Return(product, nil).Once()

		// the repository reports the post-merge quantity, not the delta
		mockCartRepo.On("UpsertItem", ctx, cartID, productID, 3).
			Return(&models.CartItem{ID: uuid.New(), CartID: cartID, Quantity: 5}, nil).Once()

		// Act
		item, err := cartService.AddItem(ctx, cartID, &models.AddItemRequest{ProductID: productID, Quantity: 3})

		// Assert
		assert.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, 5, item.Quantity)
		assert.Equal(t, float64(5)*product.UnitPrice, item.TotalPrice)
	})

	t.Run("Failure - Non Positive Quantity", func(t *testing.T) {
		// Arrange
		cartService, _, _ := setupCartServiceTest(t)

		// Act
		item, err := cartService.AddItem(ctx, cartID, &models.AddItemRequest{ProductID: productID, Quantity: 0})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, item)
		var appErr *appErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		// Arrange
		cartService, _, mockProductRepo := setupCartServiceTest(t)
		mockProductRepo.On("GetProductByID", ctx, productID).Return(nil, repository.ErrProductNotFound).Once()

		// Act
		item, err := cartService.AddItem(ctx, cartID, &models.AddItemRequest{ProductID: productID, Quantity: 1})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, item)
		var appErr *appErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})

	t.Run("Failure - Cart Not Found", func(t *testing.T) {
		// Arrange
		cartService, mockCartRepo, mockProductRepo := setupCartServiceTest(t)
		mockProductRepo.On("GetProductByID", ctx, productID).Return(product, nil).Once()
		mockCartRepo.On("UpsertItem", ctx, cartID, productID, 1).Return(nil, repository.ErrCartNotFound).Once()

		// Act
		item, err := cartService.AddItem(ctx, cartID, &models.AddItemRequest{ProductID: productID, Quantity: 1})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, item)
		var appErr *appErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

// fakeCartRepo is a minimal in-memory CartRepository whose UpsertItem merges
// atomically, mirroring the database-side increment.
type fakeCartRepo struct {
	mu         sync.Mutex
	quantities map[uuid.UUID]int
	items      map[uuid.UUID]uuid.UUID
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{
		quantities: make(map[uuid.UUID]int),
		items:      make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *fakeCartRepo) CreateCart(ctx context.Context, cart *models.Cart) error { return nil }

func (f *fakeCartRepo) GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	return &models.Cart{ID: cartID}, nil
}

func (f *fakeCartRepo) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.quantities[productID] += quantity

	itemID, ok := f.items[productID]
	if !ok {
		itemID = uuid.New()
		f.items[productID] = itemID
	}

	return &models.CartItem{ID: itemID, CartID: cartID, Quantity: f.quantities[productID]}, nil
}

func (f *fakeCartRepo) SetItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error {
	return nil
}

func (f *fakeCartRepo) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error { return nil }

// Two clients adding the same product at the same time must both land; the
// final quantity is the sum of every add, with a single line per product.
func TestAddItemConcurrentMerge(t *testing.T) {
	ctx := context.Background()
	cartID := uuid.New()
	productID := uuid.New()
	product := &models.Product{ID: productID, Title: "Fiddle Leaf Fig", UnitPrice: 10}

	fakeRepo := newFakeCartRepo()
	mockProductRepo := mocks.NewProductRepository(t)
	mockProductRepo.On("GetProductByID", ctx, productID).Return(product, nil)

	cartService := service.NewCartService(fakeRepo, mockProductRepo)

	const writers = 8
	const addsPerWriter = 25

	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range addsPerWriter {
				_, err := cartService.AddItem(ctx, cartID, &models.AddItemRequest{ProductID: productID, Quantity: 1})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, writers*addsPerWriter, fakeRepo.quantities[productID])
	assert.Len(t, fakeRepo.items, 1)
}

func TestUpdateItemQuantity(t *testing.T) {
	ctx := context.Background()
	cartID := uuid.New()
	itemID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		cartService, mockCartRepo, _ := setupCartServiceTest(t)
		mockCartRepo.On("SetItemQuantity", ctx, cartID, itemID, 4).Return(nil).Once()

		// Act
		err := cartService.UpdateItemQuantity(ctx, cartID, itemID, 4)

		// Assert
		assert.NoError(t, err)
	})

	t.Run("Failure - Non Positive Quantity", func(t *testing.T) {
		// Arrange
		cartService, _, _ := setupCartServiceTest(t)

		// Act
		err := cartService.UpdateItemQuantity(ctx, cartID, itemID, -1)

		// Assert
		var appErr *appErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
	})

	t.Run("Failure - Item Not Found", func(t *testing.T) {
		// Arrange
		cartService, mockCartRepo, _ := setupCartServiceTest(t)
		mockCartRepo.On("SetItemQuantity", ctx, cartID, itemID, 4).Return(repository.ErrItemNotFound).Once()

		// Act
		err := cartService.UpdateItemQuantity(ctx, cartID, itemID, 4)

		// Assert
		var appErr *appErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	cartID := uuid.New()
	itemID := uuid.New()

	t.Run("Success - Idempotent", func(t *testing.T) {
		// Arrange
		cartService, mockCartRepo, _ := setupCartServiceTest(t)
		mockCartRepo.On("RemoveItem", ctx, cartID, itemID).Return(nil).Twice()

		// Act
		err1 := cartService.RemoveItem(ctx, cartID, itemID)
		err2 := cartService.RemoveItem(ctx, cartID, itemID)

		// Assert
		assert.NoError(t, err1)
		assert.NoError(t, err2)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		cartService, mockCartRepo, _ := setupCartServiceTest(t)
		mockCartRepo.On("RemoveItem", ctx, cartID, itemID).Return(errors.New("connection reset")).Once()

		// Act
		err := cartService.RemoveItem(ctx, cartID, itemID)

		// Assert
		var appErr *appErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeStorage, appErr.Code)
	})
}
