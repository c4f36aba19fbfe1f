package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/goldenerp/backend/internal/entity"
	"github.com/goldenerp/backend/internal/repository"
)

// ProductInput is the data for creating or updating a product.
type ProductInput struct {
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	GrossPrice decimal.Decimal `json:"gross_price"`
	Stock      int             `json:"stock"`
	MinStock   int             `json:"min_stock"`
	Active     *bool           `json:"active,omitempty"`
}

// ProductService manages the product catalog, enforcing SKU uniqueness.
type ProductService struct {
	products repository.ProductRepository
}

func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) Create(ctx context.Context, input ProductInput) (*entity.Product, error) {
	taken, err := s.products.ExistsBySKU(ctx, input.SKU, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check sku uniqueness: %w", err)
	}
	if taken {
		return nil, &entity.DuplicateFieldError{Field: "sku", Value: input.SKU}
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	product := &entity.Product{
		SKU:        input.SKU,
		Name:       input.Name,
		GrossPrice: input.GrossPrice,
		Stock:      input.Stock,
		MinStock:   input.MinStock,
		Active:     active,
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to persist product: %w", err)
	}

	slog.Info("Product created", "product_id", product.ID, "sku", product.SKU)
	return product, nil
}

func (s *ProductService) FindByID(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, &entity.NotFoundError{Entity: "product", ID: id}
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context, active *bool) ([]entity.Product, error) {
	return s.products.FindAll(ctx, active)
}

func (s *ProductService) Update(ctx context.Context, id int64, input ProductInput) (*entity.Product, error) {
	existing, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.products.ExistsBySKU(ctx, input.SKU, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check sku uniqueness: %w", err)
	}
	if taken {
		return nil, &entity.DuplicateFieldError{Field: "sku", Value: input.SKU}
	}

	existing.SKU = input.SKU
	existing.Name = input.Name
	existing.GrossPrice = input.GrossPrice
	existing.Stock = input.Stock
	existing.MinStock = input.MinStock
	if input.Active != nil {
		existing.Active = *input.Active
	}

	if err := s.products.Save(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to persist product: %w", err)
	}

	slog.Info("Product updated", "product_id", existing.ID)
	return existing, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return &entity.NotFoundError{Entity: "product", ID: id}
	}
	slog.Info("Product deleted", "product_id", id)
	return nil
}

// LowStock returns products whose stock fell below their minimum threshold.
func (s *ProductService) LowStock(ctx context.Context) ([]entity.Product, error) {
	return s.products.FindLowStock(ctx)
}
