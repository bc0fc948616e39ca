package models

import "time"

// OrderCreatedEvent is published when a new order is created
type OrderCreatedEvent struct {
	OrderID   int                `json:"order_id"`
	ShipAddr  string             `json:"ship_addr"`
	OrderDate time.Time          `json:"order_date"`
	Details   []OrderDetailEvent `json:"details"`
}

type OrderDetailEvent struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Discount  float64 `json:"discount"`
}
