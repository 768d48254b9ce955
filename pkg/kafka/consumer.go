package kafka

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})

	return &Consumer{reader: reader}
}

// ReadMessage blocks until a message arrives, the reader is closed, or ctx
// is cancelled.
func (c *Consumer) ReadMessage(ctx context.Context) ([]byte, error) {

	msg, err := c.reader.ReadMessage(ctx)
	if err != nil {
		return nil, fmt.Errorf("kafka: read failed: %w", err)
	}

	return msg.Value, nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
