package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goldenerp/backend/internal/entity"
	"github.com/goldenerp/backend/internal/messaging"
	"github.com/goldenerp/backend/internal/repository"
)

// RateProvider supplies the current BRL→USD conversion rate. The boolean is
// false when no rate is available at all; callers treat that as a recoverable
// absence, not a fatal error.
type RateProvider interface {
	Rate(ctx context.Context) (decimal.Decimal, bool)
}

// CreateOrderItem is one requested line of a new order.
type CreateOrderItem struct {
	ProductID int64            `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Discount  *decimal.Decimal `json:"discount,omitempty"`
}

// USDTotal is the result of converting an order's total to USD.
type USDTotal struct {
	OrderID  int64           `json:"order_id"`
	TotalBRL decimal.Decimal `json:"total_brl"`
	TotalUSD decimal.Decimal `json:"total_usd"`
	Rate     decimal.Decimal `json:"exchange_rate"`
}

// OrderService orchestrates the order lifecycle: stock reservation on create,
// state transitions, compensating stock restoration on cancel, and currency
// conversion of totals.
type OrderService struct {
	orders    repository.OrderRepository
	customers repository.CustomerRepository
	products  repository.ProductRepository
	rates     RateProvider
	publisher messaging.Publisher
}

func NewOrderService(
	orders repository.OrderRepository,
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	rates RateProvider,
	publisher messaging.Publisher,
) *OrderService {
	return &OrderService{
		orders:    orders,
		customers: customers,
		products:  products,
		rates:     rates,
		publisher: publisher,
	}
}

// Create builds and persists an order for the customer. Stock is decremented
// for every item before any product is persisted; a failing item aborts the
// whole operation with nothing persisted.
func (s *OrderService) Create(ctx context.Context, customerID int64, items []CreateOrderItem) (*entity.Order, error) {
	if len(items) == 0 {
		return nil, &entity.InvalidInputError{Message: "order must have at least one item"}
	}

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	if customer == nil {
		return nil, &entity.NotFoundError{Entity: "customer", ID: customerID}
	}

	orderItems := make([]entity.OrderItem, 0, len(items))
	productsToUpdate := make([]*entity.Product, 0, len(items))
	// Items referencing the same product share one loaded instance so their
	// decrements accumulate on the same stock count.
	loaded := make(map[int64]*entity.Product, len(items))

	for _, req := range items {
		product, ok := loaded[req.ProductID]
		if !ok {
			var err error
			product, err = s.products.FindByID(ctx, req.ProductID)
			if err != nil {
				return nil, fmt.Errorf("failed to load product: %w", err)
			}
			if product == nil {
				return nil, &entity.NotFoundError{Entity: "product", ID: req.ProductID}
			}
			loaded[req.ProductID] = product
			productsToUpdate = append(productsToUpdate, product)
		}

		if err := product.DecreaseStock(req.Quantity); err != nil {
			return nil, err
		}

		orderItems = append(orderItems, entity.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    req.Quantity,
			UnitPrice:   product.GrossPrice,
			Discount:    req.Discount,
		})
	}

	for _, product := range productsToUpdate {
		if err := s.products.Save(ctx, product); err != nil {
			return nil, fmt.Errorf("failed to persist product stock: %w", err)
		}
	}

	order := entity.NewOrder(customer.ID, customer.Name, orderItems)
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.publish(ctx, "orders.created", order.ID, entity.OrderCreated{
		EventID:    uuid.NewString(),
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Total:      order.Total(),
		CreatedAt:  order.CreatedAt,
	})

	slog.Info("Order created", "order_id", order.ID, "customer", customer.Name, "items", len(order.Items))
	return order, nil
}

// FindByID returns the order or a NotFound error.
func (s *OrderService) FindByID(ctx context.Context, id int64) (*entity.Order, error) {
	return s.load(ctx, id)
}

// List returns orders filtered by status and/or customer. Zero values mean
// no filter.
func (s *OrderService) List(ctx context.Context, status *entity.Status, customerID int64) ([]entity.Order, error) {
	return s.orders.FindAll(ctx, status, customerID)
}

// Pay transitions the order to PAID and persists it.
func (s *OrderService) Pay(ctx context.Context, id int64) (*entity.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.Pay(); err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.publish(ctx, "orders.paid", order.ID, entity.OrderPaid{
		EventID: uuid.NewString(),
		OrderID: order.ID,
		PaidAt:  order.UpdatedAt,
	})

	slog.Info("Order paid", "order_id", order.ID)
	return order, nil
}

// Cancel transitions the order to CANCELLED and, unless the order had been
// paid, returns every item's quantity to stock. Products that no longer
// exist are skipped silently.
func (s *OrderService) Cancel(ctx context.Context, id int64) (*entity.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// Captured before Cancel: the check means "could this order's payment
	// state have allowed stock reversal", and Cancel may fail.
	restoreStock := order.CanRestoreStock()

	if err := order.Cancel(); err != nil {
		return nil, err
	}

	if restoreStock {
		for _, item := range order.Items {
			product, err := s.products.FindByID(ctx, item.ProductID)
			if err != nil {
				return nil, fmt.Errorf("failed to load product: %w", err)
			}
			if product == nil {
				continue
			}
			product.IncreaseStock(item.Quantity)
			if err := s.products.Save(ctx, product); err != nil {
				return nil, fmt.Errorf("failed to persist product stock: %w", err)
			}
		}
		slog.Info("Stock restored for order", "order_id", order.ID)
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.publish(ctx, "orders.cancelled", order.ID, entity.OrderCancelled{
		EventID:       uuid.NewString(),
		OrderID:       order.ID,
		StockRestored: restoreStock,
		CancelledAt:   order.UpdatedAt,
	})

	slog.Info("Order cancelled", "order_id", order.ID)
	return order, nil
}

// GetUSDTotal converts the order's total to USD at the current exchange rate.
func (s *OrderService) GetUSDTotal(ctx context.Context, id int64) (*USDTotal, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	rate, ok := s.rates.Rate(ctx)
	if !ok {
		return nil, &entity.DomainError{Message: "exchange rate unavailable"}
	}

	totalBRL := order.Total()
	totalUSD := entity.Round2(totalBRL.Mul(rate))

	return &USDTotal{
		OrderID:  order.ID,
		TotalBRL: totalBRL,
		TotalUSD: totalUSD,
		Rate:     rate,
	}, nil
}

func (s *OrderService) load(ctx context.Context, id int64) (*entity.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, &entity.NotFoundError{Entity: "order", ID: id}
	}
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, topic string, orderID int64, event entity.Event) {
	if err := s.publisher.PublishEvent(ctx, topic, strconv.FormatInt(orderID, 10), event); err != nil {
		slog.Error("Failed to publish event", "topic", topic, "order_id", orderID, "err", err)
	}
}

// MarkLateOrders transitions CREATED orders older than threshold to LATE and
// returns how many were updated. Invoked by the late-order scheduler.
func (s *OrderService) MarkLateOrders(ctx context.Context, threshold time.Duration) (int, error) {
	cutoff := time.Now().Add(-threshold)
	late, err := s.orders.FindCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to load late orders: %w", err)
	}

	count := 0
	for i := range late {
		order := &late[i]
		order.MarkAsLate()
		if err := s.orders.Save(ctx, order); err != nil {
			return count, fmt.Errorf("failed to persist order: %w", err)
		}
		count++
	}
	return count, nil
}
