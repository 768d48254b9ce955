package consumers

import (
	"context"
	"fmt"
	"strings"

	"github.com/storefront-labs/checkout-core/internal/models"
	"github.com/storefront-labs/checkout-core/pkg/sendgrid"
)

// EmailReceipt mails the customer an order confirmation. Delivery is best
// effort; a bounced receipt never touches the committed order.
type EmailReceipt struct {
	email sendgrid.EmailService
}

func NewEmailReceipt(email sendgrid.EmailService) *EmailReceipt {
	return &EmailReceipt{email: email}
}

func (e *EmailReceipt) Name() string { return "email-receipt" }

func (e *EmailReceipt) Handle(ctx context.Context, payload any) error {

	event, ok := payload.(models.OrderPlacedEvent)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", payload)
	}

	if event.Customer.Email == "" {
		return fmt.Errorf("customer %s has no email address", event.CustomerID)
	}

	var (
		body  strings.Builder
		total float64
	)

	fmt.Fprintf(&body, "Thanks for your order %s.\n\n", event.Order.ID)

	for _, item := range event.Order.Items {
		lineTotal := float64(item.Quantity) * item.UnitPrice
		total += lineTotal
		fmt.Fprintf(&body, "%d x %s @ %.2f = %.2f\n", item.Quantity, item.ProductID, item.UnitPrice, lineTotal)
	}

	fmt.Fprintf(&body, "\nTotal: %.2f\n", total)

	req := &models.EmailNotificationRequest{
		To:      event.Customer.Email,
		Subject: fmt.Sprintf("Order confirmation %s", event.Order.ID),
		Content: body.String(),
	}

	return e.email.Send(ctx, req)
}
