package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goldenerp/backend/internal/entity"
	"github.com/goldenerp/backend/internal/repository"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new OrderRepository backed by Postgres.
func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*entity.Order, error) {
	var o entity.Order
	err := r.db.QueryRowContext(ctx,
		"SELECT id, customer_id, customer_name, status, created_at, updated_at FROM orders WHERE id = $1", id,
	).Scan(&o.ID, &o.CustomerID, &o.CustomerName, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) FindAll(ctx context.Context, status *entity.Status, customerID int64) ([]entity.Order, error) {
	query := "SELECT id, customer_id, customer_name, status, created_at, updated_at FROM orders WHERE 1=1"
	args := []any{}
	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if customerID != 0 {
		args = append(args, customerID)
		query += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	return r.queryOrders(ctx, query, args...)
}

func (r *orderRepository) FindCreatedBefore(ctx context.Context, cutoff time.Time) ([]entity.Order, error) {
	return r.queryOrders(ctx,
		"SELECT id, customer_id, customer_name, status, created_at, updated_at FROM orders WHERE status = $1 AND created_at < $2 ORDER BY created_at",
		entity.StatusCreated, cutoff)
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.CustomerName, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *orderRepository) loadItems(ctx context.Context, o *entity.Order) error {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, product_id, product_name, quantity, unit_price, discount FROM order_items WHERE order_id = $1 ORDER BY id",
		o.ID)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	o.Items = []entity.OrderItem{}
	for rows.Next() {
		var item entity.OrderItem
		var discount decimal.NullDecimal
		if err := rows.Scan(&item.ID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice, &discount); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if discount.Valid {
			d := discount.Decimal
			item.Discount = &d
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}

// Save inserts the order with its items in one transaction, or updates the
// order row in place. Items are immutable after creation.
func (r *orderRepository) Save(ctx context.Context, o *entity.Order) error {
	if o.ID != 0 {
		_, err := r.db.ExecContext(ctx,
			"UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3",
			o.Status, o.UpdatedAt, o.ID)
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		"INSERT INTO orders (customer_id, customer_name, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		o.CustomerID, o.CustomerName, o.Status, o.CreatedAt, o.UpdatedAt,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range o.Items {
		item := &o.Items[i]
		discount := decimal.NullDecimal{}
		if item.Discount != nil {
			discount = decimal.NullDecimal{Decimal: *item.Discount, Valid: true}
		}
		err = tx.QueryRowContext(ctx,
			"INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, discount) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id",
			o.ID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, discount,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
