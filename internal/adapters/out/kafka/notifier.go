package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// notification message kinds on the wire.
const (
	kindNotify = "notify"
	kindRetire = "retire"
)

// notificationMessage is the wire format consumed by the notification
// delivery service.
type notificationMessage struct {
	Kind      string `json:"kind"`
	Recipient string `json:"recipient,omitempty"`
	OrderID   string `json:"order_id"`
	Subject   string `json:"subject,omitempty"`
	Body      string `json:"body,omitempty"`
}

// Notifier implements ports.Notifier by handing notifications to the
// notification topic. Actual push or email delivery happens downstream;
// from the engine's perspective a successful write is a successful notify.
type Notifier struct {
	writer *kafka.Writer
}

// NewNotifier creates a notifier writing to the given topic.
func NewNotifier(brokers []string, topic string) *Notifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Notifier{writer: writer}
}

// Notify hands one courier notification to the delivery pipeline.
func (n *Notifier) Notify(ctx context.Context, notification ports.Notification) error {
	return n.write(ctx, notificationMessage{
		Kind:      kindNotify,
		Recipient: notification.Recipient.String(),
		OrderID:   notification.OrderID.String(),
		Subject:   notification.Subject,
		Body:      notification.Body,
	})
}

// Retire withdraws pending notifications tied to an order.
func (n *Notifier) Retire(ctx context.Context, orderID kernel.UUID) error {
	return n.write(ctx, notificationMessage{
		Kind:    kindRetire,
		OrderID: orderID.String(),
	})
}

func (n *Notifier) write(ctx context.Context, msg notificationMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.OrderID),
		Value: data,
		Time:  time.Now(),
	})
}

// Close flushes and closes the underlying writer.
func (n *Notifier) Close() error {
	return n.writer.Close()
}
