package models

import "time"

// Order owns its detail lines. Details reference their parents by plain
// foreign-key ids, so the aggregate serializes without cycles.
type Order struct {
	ID        int           `json:"id"`
	ShipAddr  string        `json:"ship_addr"`
	OrderDate time.Time     `json:"order_date"`
	Details   []OrderDetail `json:"details"`
}

type OrderDetail struct {
	ID        int     `json:"id"`
	OrderID   int     `json:"order_id"`
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Discount  float64 `json:"discount"`
}

// CreateOrderRequest has no date field: the order date is stamped server
// side and client-supplied values never reach the store. Quantity and
// discount are persisted as sent, without range checks.
type CreateOrderRequest struct {
	ShipAddr string                     `json:"ship_addr"`
	Details  []CreateOrderDetailRequest `json:"details"`
}

type CreateOrderDetailRequest struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Discount  float64 `json:"discount"`
}
