package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"github.com/storefront-labs/checkout-core/internal/models"
)

// MessageSource abstracts the broker reader feeding account events.
type MessageSource interface {
	ReadMessage(ctx context.Context) ([]byte, error)
}

// AccountFeed bridges the account service's user-created topic into the
// in-process dispatcher, so the customer provisioner runs on signup.
type AccountFeed struct {
	source     MessageSource
	dispatcher *Dispatcher
	logger     *slog.Logger
}

func NewAccountFeed(source MessageSource, dispatcher *Dispatcher, logger *slog.Logger) *AccountFeed {
	if logger == nil {
		logger = slog.Default()
	}

	return &AccountFeed{source: source, dispatcher: dispatcher, logger: logger}
}

// Run consumes until ctx is cancelled or the source is closed. Malformed
// messages are logged and skipped.
func (f *AccountFeed) Run(ctx context.Context) {

	for {
		value, err := f.source.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				f.logger.Info("account feed stopped")
				return
			}
			f.logger.Error("account feed read failed", slog.String("error", err.Error()))
			continue
		}

		var event models.AccountCreatedEvent
		if err := json.Unmarshal(value, &event); err != nil {
			f.logger.Error("account feed received malformed payload", slog.String("error", err.Error()))
			continue
		}

		f.dispatcher.Publish(ctx, AccountCreated, event)
	}
}
