package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minishop/minishop/internal/db"
	"github.com/minishop/minishop/internal/metrics"
	"github.com/minishop/minishop/internal/models"
)

// EventPublisher pushes an order.created event to the broker.
type EventPublisher interface {
	PublishOrderCreated(order *models.Order) error
}

type OrderHandler struct {
	repo      *db.CachedOrderRepository
	publisher EventPublisher
}

func NewOrderHandler(repo *db.CachedOrderRepository, pub EventPublisher) *OrderHandler {
	return &OrderHandler{
		repo:      repo,
		publisher: pub,
	}
}

// ListOrders returns all orders with their details
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.repo.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// CreateOrder stores a new order with its details
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order := models.Order{
		ShipAddr: req.ShipAddr,
	}

	for _, detail := range req.Details {
		order.Details = append(order.Details, models.OrderDetail{
			ProductID: detail.ProductID,
			Quantity:  detail.Quantity,
			Discount:  detail.Discount,
		})
	}

	// Save to database. A detail naming an unknown product fails here on
	// the FK constraint, rolling back the whole aggregate.
	if err := h.repo.Create(c.Request.Context(), &order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.OrdersCreated.Inc()

	// Publish order.created event
	if err := h.publisher.PublishOrderCreated(&order); err != nil {
		log.Printf("⚠️ Failed to publish event: %v", err)
		// Don't fail the request, order is already created
	} else {
		log.Printf("📤 Published order.created event for Order #%d", order.ID)
	}

	log.Printf("✅ Order #%d created with %d details", order.ID, len(order.Details))
	c.JSON(http.StatusCreated, order)
}
