package publisher

import (
	"github.com/minishop/minishop/internal/messaging"
	"github.com/minishop/minishop/internal/metrics"
	"github.com/minishop/minishop/internal/models"
)

const OrderCreatedQueue = "order.created"

type OrderPublisher struct {
	mq *messaging.RabbitMQ
}

func NewOrderPublisher(mq *messaging.RabbitMQ) (*OrderPublisher, error) {
	// Declare the queue
	if err := mq.DeclareQueue(OrderCreatedQueue); err != nil {
		return nil, err
	}

	return &OrderPublisher{mq: mq}, nil
}

// PublishOrderCreated publishes an order.created event
func (p *OrderPublisher) PublishOrderCreated(order *models.Order) error {
	event := models.OrderCreatedEvent{
		OrderID:   order.ID,
		ShipAddr:  order.ShipAddr,
		OrderDate: order.OrderDate,
	}

	for _, detail := range order.Details {
		event.Details = append(event.Details, models.OrderDetailEvent{
			ProductID: detail.ProductID,
			Quantity:  detail.Quantity,
			Discount:  detail.Discount,
		})
	}

	if err := p.mq.PublishJSON(OrderCreatedQueue, event); err != nil {
		return err
	}

	metrics.EventsPublished.Inc()
	return nil
}
