package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goldenerp/backend/internal/entity"
	"github.com/goldenerp/backend/internal/repository"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new ProductRepository backed by Postgres.
func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindByID(ctx context.Context, id int64) (*entity.Product, error) {
	var p entity.Product
	err := r.db.QueryRowContext(ctx,
		"SELECT id, sku, name, gross_price, stock, min_stock, active FROM products WHERE id = $1", id,
	).Scan(&p.ID, &p.SKU, &p.Name, &p.GrossPrice, &p.Stock, &p.MinStock, &p.Active)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return &p, nil
}

func (r *productRepository) FindAll(ctx context.Context, active *bool) ([]entity.Product, error) {
	query := "SELECT id, sku, name, gross_price, stock, min_stock, active FROM products"
	args := []any{}
	if active != nil {
		query += " WHERE active = $1"
		args = append(args, *active)
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *productRepository) ExistsBySKU(ctx context.Context, sku string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM products WHERE sku = $1 AND id <> $2)", sku, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check sku uniqueness: %w", err)
	}
	return exists, nil
}

func (r *productRepository) FindLowStock(ctx context.Context) ([]entity.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, sku, name, gross_price, stock, min_stock, active FROM products WHERE stock < min_stock ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query low-stock products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *productRepository) Save(ctx context.Context, p *entity.Product) error {
	if p.ID == 0 {
		err := r.db.QueryRowContext(ctx,
			"INSERT INTO products (sku, name, gross_price, stock, min_stock, active) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id",
			p.SKU, p.Name, p.GrossPrice, p.Stock, p.MinStock, p.Active,
		).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		"UPDATE products SET sku = $1, name = $2, gross_price = $3, stock = $4, min_stock = $5, active = $6 WHERE id = $7",
		p.SKU, p.Name, p.GrossPrice, p.Stock, p.MinStock, p.Active, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return n > 0, nil
}

func scanProducts(rows *sql.Rows) ([]entity.Product, error) {
	var products []entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.GrossPrice, &p.Stock, &p.MinStock, &p.Active); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}
	return products, nil
}
