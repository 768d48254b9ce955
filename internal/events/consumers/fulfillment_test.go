package consumers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront-labs/checkout-core/internal/events/consumers"
	"github.com/storefront-labs/checkout-core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEventProducer struct {
	mock.Mock
}

func (m *mockEventProducer) PublishEvent(ctx context.Context, topic, key string, event any) error {
	args := m.Called(ctx, topic, key, event)
	return args.Error(0)
}

func TestFulfillmentHandle(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()

	event := models.OrderPlacedEvent{
		Order:      models.Order{ID: orderID},
		CustomerID: uuid.New(),
	}

	t.Run("Success - Keyed By Order ID", func(t *testing.T) {
		// Arrange
		producer := new(mockEventProducer)
		fulfillment := consumers.NewFulfillment(producer, "order_events")

		producer.On("PublishEvent", mock.Anything, "order_events", orderID.String(), event).
			Return(nil).Once()

		// Act
		err := fulfillment.Handle(ctx, event)

		// Assert
		assert.NoError(t, err)
		producer.AssertExpectations(t)
	})

	t.Run("Error - Broker Failure Propagates", func(t *testing.T) {
		// Arrange
		producer := new(mockEventProducer)
		fulfillment := consumers.NewFulfillment(producer, "order_events")

		brokerErr := errors.New("broker unreachable")
		producer.On("PublishEvent", mock.Anything, "order_events", orderID.String(), event).
			Return(brokerErr).Once()

		// Act
		err := fulfillment.Handle(ctx, event)

		// Assert
		assert.ErrorIs(t, err, brokerErr)
		producer.AssertExpectations(t)
	})

	t.Run("Error - Wrong Payload Type", func(t *testing.T) {
		// Arrange
		producer := new(mockEventProducer)
		fulfillment := consumers.NewFulfillment(producer, "order_events")

		// Act
		err := fulfillment.Handle(ctx, struct{}{})

		// Assert
		require.Error(t, err)
		producer.AssertNotCalled(t, "PublishEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
