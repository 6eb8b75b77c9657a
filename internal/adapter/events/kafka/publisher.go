package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/simaogato/kidbank-backend/internal/domain"
)

// DefaultTopic is the topic transaction events are written to
const DefaultTopic = "transaction_posted"

// Events are written one at a time from the request path, so the writer
// flushes immediately and gives up quickly on an unresponsive broker.
const (
	batchTimeout = 5 * time.Millisecond
	writeTimeout = time.Second
	maxAttempts  = 2
)

// Publisher writes TransactionPosted events to Kafka
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a publisher for the given brokers and topic
func NewPublisher(brokers []string, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}

	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			BatchSize:    1,
			BatchTimeout: batchTimeout,
			WriteTimeout: writeTimeout,
			MaxAttempts:  maxAttempts,
		},
	}
}

// Publish implements domain.EventPublisher
func (p *Publisher) Publish(ctx context.Context, event domain.TransactionPosted) error {
	msg, err := newMessage(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write transaction event: %w", err)
	}
	return nil
}

// Close flushes pending writes and closes the writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// newMessage keys the message by transaction ID so retries land on the same partition
func newMessage(event domain.TransactionPosted) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode transaction event: %w", err)
	}

	return kafka.Message{
		Key:   []byte(event.TransactionID.String()),
		Value: data,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(event.Kind)},
		},
	}, nil
}

var _ domain.EventPublisher = (*Publisher)(nil)
