package consumers

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront-labs/checkout-core/internal/models"
)

// EventProducer is what Fulfillment needs from the Kafka producer.
type EventProducer interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// Fulfillment forwards the order-placed event onto the fulfillment topic so
// downstream services can pick it up. Same best-effort contract as every
// other consumer: a broker outage loses the event for fulfillment only.
type Fulfillment struct {
	producer EventProducer
	topic    string
}

func NewFulfillment(producer EventProducer, topic string) *Fulfillment {
	return &Fulfillment{producer: producer, topic: topic}
}

func (f *Fulfillment) Name() string { return "fulfillment-kickoff" }

func (f *Fulfillment) Handle(ctx context.Context, payload any) error {

	event, ok := payload.(models.OrderPlacedEvent)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", payload)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return f.producer.PublishEvent(publishCtx, f.topic, event.Order.ID.String(), event)
}
