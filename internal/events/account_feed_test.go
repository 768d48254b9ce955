package events_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront-labs/checkout-core/internal/events"
	"github.com/storefront-labs/checkout-core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMessageSource replays a fixed sequence of messages and then reports
// the reader as closed.
type stubMessageSource struct {
	messages [][]byte
}

func (s *stubMessageSource) ReadMessage(_ context.Context) ([]byte, error) {
	if len(s.messages) == 0 {
		return nil, io.EOF
	}

	msg := s.messages[0]
	s.messages = s.messages[1:]

	return msg, nil
}

func TestAccountFeedRun(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Success - Messages Reach Registered Handlers", func(t *testing.T) {
		// Arrange
		userID := uuid.New()
		payload, err := json.Marshal(models.AccountCreatedEvent{
			UserID: userID,
			Email:  "robin@example.com",
			Name:   "Robin",
		})
		require.NoError(t, err)

		source := &stubMessageSource{messages: [][]byte{payload}}
		dispatcher := events.NewDispatcher(logger)

		var received []models.AccountCreatedEvent
		dispatcher.Register(events.AccountCreated, events.HandlerFunc{
			HandlerName: "recorder",
			Fn: func(_ context.Context, payload any) error {
				received = append(received, payload.(models.AccountCreatedEvent))
				return nil
			},
		})

		feed := events.NewAccountFeed(source, dispatcher, logger)

		// Act
		feed.Run(t.Context())

		// Assert
		require.Len(t, received, 1)
		assert.Equal(t, userID, received[0].UserID)
		assert.Equal(t, "robin@example.com", received[0].Email)
	})

	t.Run("Malformed Payload Is Skipped", func(t *testing.T) {
		// Arrange
		userID := uuid.New()
		good, err := json.Marshal(models.AccountCreatedEvent{UserID: userID, Email: "robin@example.com"})
		require.NoError(t, err)

		source := &stubMessageSource{messages: [][]byte{[]byte("not json"), good}}
		dispatcher := events.NewDispatcher(logger)

		var received []models.AccountCreatedEvent
		dispatcher.Register(events.AccountCreated, events.HandlerFunc{
			HandlerName: "recorder",
			Fn: func(_ context.Context, payload any) error {
				received = append(received, payload.(models.AccountCreatedEvent))
				return nil
			},
		})

		feed := events.NewAccountFeed(source, dispatcher, logger)

		// Act
		feed.Run(t.Context())

		// Assert
		require.Len(t, received, 1, "the event after the malformed one is still delivered")
		assert.Equal(t, userID, received[0].UserID)
	})

	t.Run("Stops On Cancelled Context", func(t *testing.T) {
		// Arrange
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		source := &cancelledSource{}
		feed := events.NewAccountFeed(source, events.NewDispatcher(logger), logger)

		// Act: returns instead of spinning
		feed.Run(ctx)
	})
}

type cancelledSource struct{}

func (c *cancelledSource) ReadMessage(ctx context.Context) ([]byte, error) {
	return nil, ctx.Err()
}
