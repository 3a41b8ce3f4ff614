package domain

import "time"

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// CanTransitionTo reports whether the status progression from -> to is
// allowed. The canonical progression is processing -> shipped -> delivered,
// with cancelled reachable from processing or shipped.
func CanTransitionTo(from, to OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StatusEvent is one entry in an order's append-only status history.
type StatusEvent struct {
	Status      OrderStatus `json:"status"`
	Timestamp   time.Time   `json:"timestamp"`
	Description string      `json:"description"`
}

type Order struct {
	ID                string        `json:"id"`
	Items             []CartLine    `json:"items"`
	TotalAmount       float64       `json:"total_amount"`
	ShippingAddress   ShippingInfo  `json:"shipping_address"`
	Status            OrderStatus   `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
	TrackingNumber    string        `json:"tracking_number"`
	EstimatedDelivery time.Time     `json:"estimated_delivery"`
	StatusHistory     []StatusEvent `json:"status_history"`
}

// OrderTracking is the read model served to the order tracking view.
type OrderTracking struct {
	CurrentStatus     OrderStatus   `json:"current_status"`
	History           []StatusEvent `json:"history"`
	EstimatedDelivery time.Time     `json:"estimated_delivery"`
	TrackingNumber    string        `json:"tracking_number"`
}
