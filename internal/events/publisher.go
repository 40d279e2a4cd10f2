// Package events publishes order-lifecycle notifications for kitchen displays
// and other external consumers. Publishing is best-effort: a broker outage
// must never fail the customer-facing operation that triggered the event.
package events

import (
	"time"

	"tableorder_backend/internal/models"
)

// Routing keys on the orders topic exchange.
const (
	KeyOrderCreated       = "order.created"
	KeyOrderStatusChanged = "order.status_changed"
	KeyTableCheckedOut    = "table.checked_out"
)

// OrderItemMsg is one line item as carried in event payloads.
type OrderItemMsg struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderEvent is the payload for order.created and order.status_changed.
type OrderEvent struct {
	OrderID   int64          `json:"order_id"`
	TableID   int64          `json:"table_id"`
	TableName string         `json:"table_name,omitempty"`
	Status    string         `json:"status"`
	Items     []OrderItemMsg `json:"items,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// CheckoutEvent is the payload for table.checked_out.
type CheckoutEvent struct {
	BillID    string    `json:"bill_id"`
	TableID   int64     `json:"table_id"`
	TableName string    `json:"table_name"`
	Total     float64   `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher is the capability interface for event delivery. Two
// implementations exist: the AMQP adapter and a no-op used when no broker is
// configured. Selected once at startup.
type Publisher interface {
	PublishOrderEvent(key string, event OrderEvent)
	PublishCheckoutEvent(event CheckoutEvent)
	Close()
}

// ItemsToMsg converts order items (with menu metadata attached) to the event
// representation.
func ItemsToMsg(items []models.OrderItem) []OrderItemMsg {
	msgs := make([]OrderItemMsg, 0, len(items))
	for _, item := range items {
		msg := OrderItemMsg{Quantity: item.Quantity, Price: item.UnitPrice}
		if item.MenuItem != nil {
			msg.Name = item.MenuItem.Name
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

// NoopPublisher discards every event. Used when AMQP_URL is unset and in
// tests.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderEvent(string, OrderEvent) {}
func (NoopPublisher) PublishCheckoutEvent(CheckoutEvent)   {}
func (NoopPublisher) Close()                               {}
