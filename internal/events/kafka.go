// Package events publishes domain events about orders and expenses.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event types emitted by the services.
const (
	OrderCreated   = "order.created"
	OrderUpdated   = "order.updated"
	OrderDeleted   = "order.deleted"
	ExpenseCreated = "expense.created"
	ExpenseUpdated = "expense.updated"
	ExpenseDeleted = "expense.deleted"
)

// Event is a change to a user's records.
type Event struct {
	Type       string      `json:"type"`
	UserID     string      `json:"userId"`
	EntityID   string      `json:"entityId"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload,omitempty"`
}

// Publisher delivers events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON messages keyed by user id, so a user's
// events stay ordered within a partition.
type KafkaPublisher struct {
	writer MessageWriter
	logger *zap.Logger
}

// NewKafkaWriter builds a writer for topic on the given brokers.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaPublisher wraps writer.
func NewKafkaPublisher(writer MessageWriter, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaPublisher{writer: writer, logger: logger}
}

// Publish serializes event and writes it synchronously.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write event %s: %w", event.Type, err)
	}

	p.logger.Debug("event published", zap.String("type", event.Type), zap.String("entity_id", event.EntityID))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. It is used when no brokers are configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }
