package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is a domain event published when an order changes state.
type Event interface {
	EventType() string
}

// OrderCreated is emitted after a new order is persisted.
type OrderCreated struct {
	EventID    string          `json:"event_id"`
	OrderID    int64           `json:"order_id"`
	CustomerID int64           `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (e OrderCreated) EventType() string { return "OrderCreated" }

// OrderPaid is emitted after an order transitions to PAID.
type OrderPaid struct {
	EventID string    `json:"event_id"`
	OrderID int64     `json:"order_id"`
	PaidAt  time.Time `json:"paid_at"`
}

func (e OrderPaid) EventType() string { return "OrderPaid" }

// OrderCancelled is emitted after an order transitions to CANCELLED.
// StockRestored records whether the item quantities went back to stock.
type OrderCancelled struct {
	EventID       string    `json:"event_id"`
	OrderID       int64     `json:"order_id"`
	StockRestored bool      `json:"stock_restored"`
	CancelledAt   time.Time `json:"cancelled_at"`
}

func (e OrderCancelled) EventType() string { return "OrderCancelled" }
