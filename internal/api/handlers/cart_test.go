package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront-labs/checkout-core/internal/api/handlers"
	appErrors "github.com/storefront-labs/checkout-core/internal/errors"
	"github.com/storefront-labs/checkout-core/internal/models"
	"github.com/storefront-labs/checkout-core/internal/services/mocks"
	"github.com/storefront-labs/checkout-core/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type cartEnvelope struct {
	Success bool        `json:"success"`
	Data    models.Cart `json:"data"`
}

func TestCreateCartHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)
		cartID := uuid.New()

		mockCartService.On("CreateCart", mock.Anything).
			Return(&models.Cart{ID: cartID, Items: []models.CartItem{}}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/carts", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		cartHandler.CreateCart().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)

		var body cartEnvelope
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, cartID, body.Data.ID)
	})

	t.Run("Failure - Service Error", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)

		mockCartService.On("CreateCart", mock.Anything).
			Return(nil, appErrors.StorageError("Failed to create cart")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/carts", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		cartHandler.CreateCart().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestGetCartHandler(t *testing.T) {
	cartID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)

		mockCartService.On("GetCart", mock.Anything, cartID).
			Return(&models.Cart{ID: cartID, TotalPrice: 27.0}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/carts/"+cartID.String(), nil,
			map[string]string{"id": cartID.String()})
		rr := httptest.NewRecorder()

		// Act
		cartHandler.GetCart().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var body cartEnvelope
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, 27.0, body.Data.TotalPrice)
	})

	t.Run("Failure - Invalid ID", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/carts/not-a-uuid", nil,
			map[string]string{"id": "not-a-uuid"})
		rr := httptest.NewRecorder()

		// Act
		cartHandler.GetCart().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockCartService.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)

		mockCartService.On("GetCart", mock.Anything, cartID).
			Return(nil, appErrors.NotFoundError("Cart not found")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/carts/"+cartID.String(), nil,
			map[string]string{"id": cartID.String()})
		rr := httptest.NewRecorder()

		// Act
		cartHandler.GetCart().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestAddItemHandler(t *testing.T) {
	cartID := uuid.New()
	productID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)

		mockCartService.On("AddItem", mock.Anything, cartID, mock.AnythingOfType("*models.AddItemRequest")).
			Return(&models.CartItem{ID: uuid.New(), Quantity: 5}, nil).Once()

		bodyBytes, _ := json.Marshal(models.AddItemRequest{ProductID: productID, Quantity: 2})
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/carts/"+cartID.String()+"/items",
			bytes.NewReader(bodyBytes), map[string]string{"id": cartID.String()})
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		// Act
		cartHandler.AddItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Missing Quantity", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)

		bodyBytes, _ := json.Marshal(map[string]any{"product_id": productID})
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/carts/"+cartID.String()+"/items",
			bytes.NewReader(bodyBytes), map[string]string{"id": cartID.String()})
		rr := httptest.NewRecorder()

		// Act
		cartHandler.AddItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockCartService.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)

		mockCartService.On("AddItem", mock.Anything, cartID, mock.AnythingOfType("*models.AddItemRequest")).
			Return(nil, appErrors.NotFoundError("Product not found")).Once()

		bodyBytes, _ := json.Marshal(models.AddItemRequest{ProductID: productID, Quantity: 1})
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/carts/"+cartID.String()+"/items",
			bytes.NewReader(bodyBytes), map[string]string{"id": cartID.String()})
		rr := httptest.NewRecorder()

		// Act
		cartHandler.AddItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestUpdateItemHandler(t *testing.T) {
	cartID := uuid.New()
	itemID := uuid.New()
	pathParams := map[string]string{"id": cartID.String(), "itemId": itemID.String()}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)

		mockCartService.On("UpdateItemQuantity", mock.Anything, cartID, itemID, 4).Return(nil).Once()

		bodyBytes, _ := json.Marshal(models.UpdateItemQuantityRequest{Quantity: 4})
		req := testutils.CreateTestRequestWithoutContext(http.MethodPut,
			"/api/v1/carts/"+cartID.String()+"/items/"+itemID.String(), bytes.NewReader(bodyBytes), pathParams)
		rr := httptest.NewRecorder()

		// Act
		cartHandler.UpdateItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("Failure - Item Not Found", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)

		mockCartService.On("UpdateItemQuantity", mock.Anything, cartID, itemID, 4).
			Return(appErrors.NotFoundError("Cart item not found")).Once()

		bodyBytes, _ := json.Marshal(models.UpdateItemQuantityRequest{Quantity: 4})
		req := testutils.CreateTestRequestWithoutContext(http.MethodPut,
			"/api/v1/carts/"+cartID.String()+"/items/"+itemID.String(), bytes.NewReader(bodyBytes), pathParams)
		rr := httptest.NewRecorder()

		// Act
		cartHandler.UpdateItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestRemoveItemHandler(t *testing.T) {
	cartID := uuid.New()
	itemID := uuid.New()
	pathParams := map[string]string{"id": cartID.String(), "itemId": itemID.String()}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)

		mockCartService.On("RemoveItem", mock.Anything, cartID, itemID).Return(nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodDelete,
			"/api/v1/carts/"+cartID.String()+"/items/"+itemID.String(), nil, pathParams)
		rr := httptest.NewRecorder()

		// Act
		cartHandler.RemoveItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}
