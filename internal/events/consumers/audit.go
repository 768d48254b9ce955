package consumers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/storefront-labs/checkout-core/internal/models"
)

// AuditLogger writes one structured line per placed order. It is the
// cheapest consumer and doubles as a liveness signal for the dispatcher.
type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

func (a *AuditLogger) Name() string { return "audit-logger" }

func (a *AuditLogger) Handle(ctx context.Context, payload any) error {

	event, ok := payload.(models.OrderPlacedEvent)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", payload)
	}

	var total float64
	for _, item := range event.Order.Items {
		total += float64(item.Quantity) * item.UnitPrice
	}

	a.logger.Info("order placed",
		slog.String("orderId", event.Order.ID.String()),
		slog.String("customerId", event.CustomerID.String()),
		slog.Int("items", len(event.Order.Items)),
		slog.Float64("total", total),
		slog.Time("placedAt", event.Order.PlacedAt))

	return nil
}
