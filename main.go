package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/goldenerp/backend/internal/client/exchange"
	"github.com/goldenerp/backend/internal/client/viacep"
	"github.com/goldenerp/backend/internal/config"
	delivery "github.com/goldenerp/backend/internal/delivery/http"
	"github.com/goldenerp/backend/internal/entity"
	"github.com/goldenerp/backend/internal/messaging"
	"github.com/goldenerp/backend/internal/messaging/kafka"
	"github.com/goldenerp/backend/internal/repository"
	"github.com/goldenerp/backend/internal/repository/memory"
	"github.com/goldenerp/backend/internal/repository/postgres"
	"github.com/goldenerp/backend/internal/scheduler"
	"github.com/goldenerp/backend/internal/service"
)

func main() {
	cfg := config.Load()

	if cfg.LogJSON {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	} else {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	// --- Repositories ---
	var (
		customerRepo repository.CustomerRepository
		productRepo  repository.ProductRepository
		orderRepo    repository.OrderRepository
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.InitDB(cfg.DatabaseURL)
		if err != nil {
			slog.Error("Failed to init database", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		customerRepo = postgres.NewCustomerRepository(db)
		productRepo = postgres.NewProductRepository(db)
		orderRepo = postgres.NewOrderRepository(db)
	} else {
		slog.Warn("DATABASE_URL not set, using in-memory repositories")
		customerRepo = memory.NewCustomerRepository()
		productRepo = memory.NewProductRepository()
		orderRepo = memory.NewOrderRepository()
	}

	// --- Messaging ---
	var publisher messaging.Publisher = messaging.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = kafka.NewPublisher(cfg.KafkaBrokers)
		slog.Info("Kafka publisher enabled", "brokers", cfg.KafkaBrokers)
	}

	// --- External clients ---
	addressLookup := viacep.New(viacep.Config{
		BaseURL:     cfg.ViaCepBaseURL,
		Timeout:     cfg.ViaCepTimeout,
		MaxAttempts: cfg.ViaCepMaxAttempts,
		BackoffBase: cfg.ViaCepBackoffBase,
	})
	rates := exchange.New(exchange.Config{
		BaseURL:  cfg.ExchangeBaseURL,
		Timeout:  cfg.ExchangeTimeout,
		CacheTTL: cfg.RateCacheTTL,
	})

	// --- Services ---
	customerSvc := service.NewCustomerService(customerRepo, addressLookup)
	productSvc := service.NewProductService(productRepo)
	orderSvc := service.NewOrderService(orderRepo, customerRepo, productRepo, rates, publisher)

	if cfg.DatabaseURL == "" {
		seedDemoData(context.Background(), customerSvc, productSvc)
	}

	// --- HTTP API ---
	handler := delivery.NewHandler(customerSvc, productSvc, orderSvc)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: delivery.EnableCORS(mux),
	}

	// --- Start everything ---
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	lateOrders := &scheduler.LateOrderScheduler{
		Orders:    orderSvc,
		Threshold: cfg.LateOrderThreshold,
		Interval:  cfg.LateOrderInterval,
	}
	go lateOrders.Run(ctx)

	lowStock := &scheduler.LowStockScheduler{
		Products: productSvc,
		Interval: cfg.LowStockInterval,
	}
	go lowStock.Run(ctx)

	go func() {
		slog.Info("HTTP server starting", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown error", "err", err)
	}
}

// seedDemoData loads a small demo catalog and customer set into the
// in-memory repositories so the API is usable out of the box.
func seedDemoData(ctx context.Context, customers *service.CustomerService, products *service.ProductService) {
	demoCustomers := []service.CustomerInput{
		{
			Name:  "Maria Silva",
			Email: "maria.silva@example.com",
			CPF:   "39053344705",
			Address: &entity.Address{
				Street: "Praça da Sé", Number: "100", Neighborhood: "Sé",
				City: "São Paulo", State: "SP", PostalCode: "01001000",
			},
		},
		{
			Name:  "João Souza",
			Email: "joao.souza@example.com",
			CPF:   "52998224725",
			Address: &entity.Address{
				Street: "Av. Paulista", Number: "1578", Neighborhood: "Bela Vista",
				City: "São Paulo", State: "SP", PostalCode: "01310200",
			},
		},
	}
	for _, input := range demoCustomers {
		if _, err := customers.Create(ctx, input); err != nil {
			slog.Warn("Failed to seed customer", "email", input.Email, "err", err)
		}
	}

	demoProducts := []service.ProductInput{
		{SKU: "KB-001", Name: "Mechanical Keyboard", GrossPrice: decimal.NewFromFloat(349.90), Stock: 25, MinStock: 5},
		{SKU: "MS-001", Name: "Wireless Mouse", GrossPrice: decimal.NewFromFloat(129.90), Stock: 40, MinStock: 10},
		{SKU: "MN-001", Name: "27\" Monitor", GrossPrice: decimal.NewFromFloat(1899.00), Stock: 8, MinStock: 3},
	}
	for _, input := range demoProducts {
		if _, err := products.Create(ctx, input); err != nil {
			slog.Warn("Failed to seed product", "sku", input.SKU, "err", err)
		}
	}

	slog.Info("Demo data seeded", "customers", len(demoCustomers), "products", len(demoProducts))
}
