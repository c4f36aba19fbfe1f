package repository

import (
	"context"
	"time"

	"github.com/goldenerp/backend/internal/entity"
)

// Find methods return (nil, nil) when the entity does not exist; callers
// decide whether absence is an error.

// CustomerRepository handles persistence for Customers.
type CustomerRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Customer, error)
	FindAll(ctx context.Context, name, email string) ([]entity.Customer, error)
	// ExistsByEmail ignores the customer with excludeID, so updates can keep
	// their own email. Pass 0 on create.
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	ExistsByCPF(ctx context.Context, cpf string, excludeID int64) (bool, error)
	Save(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// ProductRepository handles persistence for Products.
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Product, error)
	FindAll(ctx context.Context, active *bool) ([]entity.Product, error)
	ExistsBySKU(ctx context.Context, sku string, excludeID int64) (bool, error)
	FindLowStock(ctx context.Context) ([]entity.Product, error)
	Save(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// OrderRepository handles persistence for Orders and their items.
type OrderRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Order, error)
	FindAll(ctx context.Context, status *entity.Status, customerID int64) ([]entity.Order, error)
	// FindCreatedBefore returns orders still in CREATED older than cutoff.
	FindCreatedBefore(ctx context.Context, cutoff time.Time) ([]entity.Order, error)
	Save(ctx context.Context, order *entity.Order) error
}
