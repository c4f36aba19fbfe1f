package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goldenerp/backend/internal/entity"
	"github.com/goldenerp/backend/internal/repository"
)

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new CustomerRepository backed by Postgres.
func NewCustomerRepository(db *sql.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = "id, name, email, cpf, street, number, complement, neighborhood, city, state, postal_code"

func (r *customerRepository) FindByID(ctx context.Context, id int64) (*entity.Customer, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE id = $1", id)
	c, err := scanCustomer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query customer: %w", err)
	}
	return c, nil
}

func (r *customerRepository) FindAll(ctx context.Context, name, email string) ([]entity.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE ($1 = '' OR name ILIKE '%' || $1 || '%') AND ($2 = '' OR email ILIKE '%' || $2 || '%') ORDER BY name",
		name, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer rows: %w", err)
	}
	return customers, nil
}

func (r *customerRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.existsBy(ctx, "email", email, excludeID)
}

func (r *customerRepository) ExistsByCPF(ctx context.Context, cpf string, excludeID int64) (bool, error) {
	return r.existsBy(ctx, "cpf", cpf, excludeID)
}

func (r *customerRepository) existsBy(ctx context.Context, column, value string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM customers WHERE "+column+" = $1 AND id <> $2)", value, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check %s uniqueness: %w", column, err)
	}
	return exists, nil
}

func (r *customerRepository) Save(ctx context.Context, c *entity.Customer) error {
	addr := c.Address
	if addr == nil {
		addr = &entity.Address{}
	}

	if c.ID == 0 {
		err := r.db.QueryRowContext(ctx,
			`INSERT INTO customers (name, email, cpf, street, number, complement, neighborhood, city, state, postal_code)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
			c.Name, c.Email, c.CPF, addr.Street, addr.Number, addr.Complement,
			addr.Neighborhood, addr.City, addr.State, addr.PostalCode,
		).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("failed to insert customer: %w", err)
		}
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE customers SET name = $1, email = $2, cpf = $3, street = $4, number = $5,
		 complement = $6, neighborhood = $7, city = $8, state = $9, postal_code = $10 WHERE id = $11`,
		c.Name, c.Email, c.CPF, addr.Street, addr.Number, addr.Complement,
		addr.Neighborhood, addr.City, addr.State, addr.PostalCode, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete customer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*entity.Customer, error) {
	var c entity.Customer
	var addr entity.Address
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.CPF, &addr.Street, &addr.Number,
		&addr.Complement, &addr.Neighborhood, &addr.City, &addr.State, &addr.PostalCode)
	if err != nil {
		return nil, err
	}
	if addr != (entity.Address{}) {
		c.Address = &addr
	}
	return &c, nil
}
