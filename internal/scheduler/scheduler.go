// Package scheduler runs the periodic maintenance jobs: marking stale
// CREATED orders as late and reporting products below their minimum stock.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/goldenerp/backend/internal/service"
)

// LateOrderScheduler periodically marks CREATED orders older than Threshold
// as LATE.
type LateOrderScheduler struct {
	Orders    *service.OrderService
	Threshold time.Duration
	Interval  time.Duration
}

// Run ticks until the context is cancelled.
func (s *LateOrderScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep.
func (s *LateOrderScheduler) RunOnce(ctx context.Context) {
	count, err := s.Orders.MarkLateOrders(ctx, s.Threshold)
	if err != nil {
		slog.Error("Late-order sweep failed", "err", err)
		return
	}
	if count == 0 {
		slog.Info("No late orders found")
		return
	}
	slog.Info("Orders marked as late", "count", count)
}

// LowStockScheduler periodically logs a warning for every product whose
// stock fell below its minimum threshold.
type LowStockScheduler struct {
	Products *service.ProductService
	Interval time.Duration
}

// Run ticks until the context is cancelled.
func (s *LowStockScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep.
func (s *LowStockScheduler) RunOnce(ctx context.Context) {
	products, err := s.Products.LowStock(ctx)
	if err != nil {
		slog.Error("Low-stock sweep failed", "err", err)
		return
	}
	if len(products) == 0 {
		slog.Info("All products above minimum stock")
		return
	}

	slog.Warn("Products below minimum stock", "count", len(products))
	for _, p := range products {
		slog.Warn("Low stock", "product", p.Name, "sku", p.SKU, "stock", p.Stock, "min_stock", p.MinStock)
	}
}
