package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusCreated   Status = "CREATED"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
	StatusLate      Status = "LATE"
)

// OrderItem is a line item within an order. UnitPrice is a snapshot of the
// product's gross price at order time. A nil Discount means zero.
type OrderItem struct {
	ID          int64            `json:"id"`
	ProductID   int64            `json:"product_id"`
	ProductName string           `json:"product_name"`
	Quantity    int              `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	Discount    *decimal.Decimal `json:"discount,omitempty"`
}

// Subtotal is unit price times quantity, rounded to 2 decimals.
func (i OrderItem) Subtotal() decimal.Decimal {
	return Round2(i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))))
}

// DiscountTotal is the per-unit discount times quantity, rounded to 2 decimals.
func (i OrderItem) DiscountTotal() decimal.Decimal {
	if i.Discount == nil {
		return Round2(decimal.Zero)
	}
	return Round2(i.Discount.Mul(decimal.NewFromInt(int64(i.Quantity))))
}

// Total is the line subtotal minus the line discount.
func (i OrderItem) Total() decimal.Decimal {
	return Round2(i.Subtotal().Sub(i.DiscountTotal()))
}

// Order is the order aggregate. Status changes only through Pay, Cancel and
// MarkAsLate; totals are recomputed from Items on every read.
type Order struct {
	ID           int64       `json:"id"`
	CustomerID   int64       `json:"customer_id"`
	CustomerName string      `json:"customer_name"`
	Status       Status      `json:"status"`
	Items        []OrderItem `json:"items"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// NewOrder builds an order in the CREATED state. Items is never nil afterwards.
func NewOrder(customerID int64, customerName string, items []OrderItem) *Order {
	if items == nil {
		items = []OrderItem{}
	}
	now := time.Now()
	return &Order{
		CustomerID:   customerID,
		CustomerName: customerName,
		Status:       StatusCreated,
		Items:        items,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Subtotal sums the line subtotals, rounded to 2 decimals.
func (o *Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range o.Items {
		sum = sum.Add(item.Subtotal())
	}
	return Round2(sum)
}

// Discounts sums the line discount totals, rounded to 2 decimals.
func (o *Order) Discounts() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range o.Items {
		sum = sum.Add(item.DiscountTotal())
	}
	return Round2(sum)
}

// Total is subtotal minus discounts.
func (o *Order) Total() decimal.Decimal {
	return Round2(o.Subtotal().Sub(o.Discounts()))
}

// Pay transitions the order to PAID. Only CREATED and LATE orders can be paid.
func (o *Order) Pay() error {
	if o.Status != StatusCreated && o.Status != StatusLate {
		return &InvalidOrderStateError{Current: o.Status, Target: StatusPaid}
	}
	o.Status = StatusPaid
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel transitions the order to CANCELLED. Paid orders cannot be cancelled,
// and cancelling twice fails on the second call.
func (o *Order) Cancel() error {
	if o.Status == StatusPaid || o.Status == StatusCancelled {
		return &InvalidOrderStateError{Current: o.Status, Target: StatusCancelled}
	}
	o.Status = StatusCancelled
	o.UpdatedAt = time.Now()
	return nil
}

// MarkAsLate transitions a CREATED order to LATE. On any other status it is
// a no-op.
func (o *Order) MarkAsLate() {
	if o.Status == StatusCreated {
		o.Status = StatusLate
		o.UpdatedAt = time.Now()
	}
}

// CanRestoreStock reports whether cancelling this order should return its
// item quantities to stock. Captured before Cancel, since Cancel may fail.
func (o *Order) CanRestoreStock() bool {
	return o.Status != StatusPaid
}
