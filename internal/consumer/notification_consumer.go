package consumer

import (
	"encoding/json"
	"log"

	"github.com/minishop/minishop/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Notifier delivers an order notification somewhere external.
type Notifier interface {
	OrderCreated(event models.OrderCreatedEvent) error
}

type NotificationConsumer struct {
	notifier Notifier
}

func NewNotificationConsumer(notifier Notifier) *NotificationConsumer {
	return &NotificationConsumer{notifier: notifier}
}

// ProcessOrderCreated handles order.created events
func (c *NotificationConsumer) ProcessOrderCreated(messages <-chan amqp.Delivery) {
	for msg := range messages {
		log.Printf("📥 Received order.created event")

		var event models.OrderCreatedEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			log.Printf("❌ Failed to parse event: %v", err)
			msg.Nack(false, false) // Don't requeue bad messages
			continue
		}

		log.Printf("📦 Processing Order #%d shipping to %q", event.OrderID, event.ShipAddr)

		if err := c.notifier.OrderCreated(event); err != nil {
			log.Printf("❌ Failed to notify for order #%d: %v", event.OrderID, err)
			msg.Nack(false, true) // Requeue for retry
			continue
		}

		msg.Ack(false) // Acknowledge message
		log.Printf("✅ Order #%d processed successfully", event.OrderID)
	}
}
