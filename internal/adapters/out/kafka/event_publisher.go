// Package kafka provides the outbound messaging adapters: the domain event
// publisher and the courier notification gateway. Both are best-effort by
// contract; callers log failures instead of failing committed transactions.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"dispatch/internal/core/domain/events"
)

// EventPublisher implements ports.EventPublisher on a Kafka topic. Events
// are keyed by their aggregate identifier so events of one aggregate stay
// in order within a partition.
type EventPublisher struct {
	writer *kafka.Writer
}

// NewEventPublisher creates a publisher writing to the given topic.
func NewEventPublisher(brokers []string, topic string) *EventPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &EventPublisher{writer: writer}
}

// Publish writes one domain event. The event name travels in a message
// header so consumers can route without decoding the payload.
func (p *EventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key()),
		Value: data,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(event.Name())},
		},
	})
}

// Close flushes and closes the underlying writer.
func (p *EventPublisher) Close() error {
	return p.writer.Close()
}
