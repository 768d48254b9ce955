package consumers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/storefront-labs/checkout-core/internal/models"
	repository "github.com/storefront-labs/checkout-core/internal/repositories"
)

// CustomerProvisioner creates a customer profile when an account-created
// event arrives, so checkout can resolve a customer for any authenticated
// user. Creation is idempotent; redelivery of the same event is harmless.
type CustomerProvisioner struct {
	customers repository.CustomerRepository
	sanitizer *bluemonday.Policy
}

func NewCustomerProvisioner(customers repository.CustomerRepository) *CustomerProvisioner {
	return &CustomerProvisioner{
		customers: customers,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (p *CustomerProvisioner) Name() string { return "customer-provisioner" }

func (p *CustomerProvisioner) Handle(ctx context.Context, payload any) error {

	event, ok := payload.(models.AccountCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", payload)
	}

	if event.UserID == uuid.Nil {
		return fmt.Errorf("account created event without user id")
	}

	customer := &models.Customer{
		ID:         uuid.New(),
		UserID:     event.UserID,
		Email:      p.sanitizer.Sanitize(event.Email),
		Phone:      p.sanitizer.Sanitize(event.Phone),
		Membership: "B",
	}

	return p.customers.CreateCustomer(ctx, customer)
}
