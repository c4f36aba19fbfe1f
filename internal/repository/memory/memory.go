// Package memory provides mutex-guarded in-memory repositories. They back
// the service when no database is configured and the package tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goldenerp/backend/internal/entity"
)

// CustomerRepository is an in-memory repository.CustomerRepository.
type CustomerRepository struct {
	mu     sync.RWMutex
	m      map[int64]entity.Customer
	nextID int64
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{m: make(map[int64]entity.Customer)}
}

func (r *CustomerRepository) FindByID(_ context.Context, id int64) (*entity.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	cp := cloneCustomer(c)
	return &cp, nil
}

func (r *CustomerRepository) FindAll(_ context.Context, name, email string) ([]entity.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.Customer
	for _, c := range r.m {
		if name != "" && !containsFold(c.Name, name) {
			continue
		}
		if email != "" && !containsFold(c.Email, email) {
			continue
		}
		out = append(out, cloneCustomer(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CustomerRepository) ExistsByEmail(_ context.Context, email string, excludeID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.m {
		if c.Email == email && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *CustomerRepository) ExistsByCPF(_ context.Context, cpf string, excludeID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.m {
		if c.CPF == cpf && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *CustomerRepository) Save(_ context.Context, c *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == 0 {
		r.nextID++
		c.ID = r.nextID
	}
	r.m[c.ID] = cloneCustomer(*c)
	return nil
}

func (r *CustomerRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[id]; !ok {
		return false, nil
	}
	delete(r.m, id)
	return true, nil
}

// ProductRepository is an in-memory repository.ProductRepository.
type ProductRepository struct {
	mu     sync.RWMutex
	m      map[int64]entity.Product
	nextID int64
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{m: make(map[int64]entity.Product)}
}

func (r *ProductRepository) FindByID(_ context.Context, id int64) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepository) FindAll(_ context.Context, active *bool) ([]entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.Product
	for _, p := range r.m {
		if active != nil && p.Active != *active {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ProductRepository) ExistsBySKU(_ context.Context, sku string, excludeID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.m {
		if p.SKU == sku && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ProductRepository) FindLowStock(_ context.Context) ([]entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.Product
	for _, p := range r.m {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ProductRepository) Save(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		r.nextID++
		p.ID = r.nextID
	}
	r.m[p.ID] = *p
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[id]; !ok {
		return false, nil
	}
	delete(r.m, id)
	return true, nil
}

// OrderRepository is an in-memory repository.OrderRepository.
type OrderRepository struct {
	mu     sync.RWMutex
	m      map[int64]entity.Order
	nextID int64
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{m: make(map[int64]entity.Order)}
}

func (r *OrderRepository) FindByID(_ context.Context, id int64) (*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	cp := cloneOrder(o)
	return &cp, nil
}

func (r *OrderRepository) FindAll(_ context.Context, status *entity.Status, customerID int64) ([]entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.Order
	for _, o := range r.m {
		if status != nil && o.Status != *status {
			continue
		}
		if customerID != 0 && o.CustomerID != customerID {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *OrderRepository) FindCreatedBefore(_ context.Context, cutoff time.Time) ([]entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.Order
	for _, o := range r.m {
		if o.Status == entity.StatusCreated && o.CreatedAt.Before(cutoff) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *OrderRepository) Save(_ context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == 0 {
		r.nextID++
		o.ID = r.nextID
		for i := range o.Items {
			r.nextID++
			o.Items[i].ID = r.nextID
		}
	}
	r.m[o.ID] = cloneOrder(*o)
	return nil
}

func cloneCustomer(c entity.Customer) entity.Customer {
	if c.Address != nil {
		addr := *c.Address
		c.Address = &addr
	}
	return c
}

func cloneOrder(o entity.Order) entity.Order {
	items := make([]entity.OrderItem, len(o.Items))
	for i, item := range o.Items {
		if item.Discount != nil {
			d := *item.Discount
			item.Discount = &d
		}
		items[i] = item
	}
	o.Items = items
	return o
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
