package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/mrops-br/storefront-api/internal/app/service"
	"github.com/mrops-br/storefront-api/internal/infrastructure/auth"
	"github.com/mrops-br/storefront-api/internal/infrastructure/config"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/storefront-api/internal/infrastructure/repository"
	"github.com/mrops-br/storefront-api/internal/infrastructure/telemetry"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry
	var (
		telem *telemetry.Telemetry
		err   error
	)
	if cfg.OTLP.Enabled {
		telem, err = telemetry.NewTelemetry(ctx, &cfg.OTLP)
	} else {
		telem, err = telemetry.NewNoOpTelemetry(ctx, &cfg.OTLP)
	}
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	// Get tracer, meter, and logger instances
	tracer := telem.TracerProvider.Tracer(cfg.OTLP.ServiceName)
	meter := telem.MeterProvider.Meter(cfg.OTLP.ServiceName)
	logger := telem.Logger

	logger.Info("Starting Storefront API")

	// Open the configured stores (memory, mongo or postgres)
	stores, err := repository.Open(ctx, &cfg.Store, tracer, logger)
	if err != nil {
		logger.Error("Failed to open stores", "driver", cfg.Store.Driver, "error", err.Error())
		_ = telem.Shutdown(context.Background())
		log.Fatalf("Failed to open stores: %v", err)
	}

	// Initialize services
	catalogService := service.NewCatalogService(stores.Products, cfg.Catalog.PageSize, cfg.Store.QueryTimeout, tracer, meter, logger)
	productService := service.NewProductService(stores.Products, tracer, meter, logger)
	userService := service.NewUserService(stores.Users, cfg.Auth.BcryptCost, tracer, meter, logger)
	contactService := service.NewContactService(stores.Contacts, tracer, meter, logger)
	checkoutService := service.NewCheckoutService(stores.Products, tracer, meter, logger)

	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL, cfg.OTLP.ServiceName)

	// Initialize handlers
	handlers := http.Handlers{
		Products: handler.NewProductHandler(productService, catalogService, logger),
		Users:    handler.NewUserHandler(userService, tokens, logger),
		Contacts: handler.NewContactHandler(contactService, logger),
		Checkout: handler.NewCheckoutHandler(checkoutService, logger),
	}

	// Initialize HTTP server
	server := http.NewServer(&cfg.Server, handlers, tokens, logger, telem)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)

	// Wait for a signal or a server failure, then drain in order
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", "error", err.Error())
		}
		if err := stores.Close(shutdownCtx); err != nil {
			logger.Error("Error closing stores", "error", err.Error())
		}
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err.Error())
	}

	logger.Info("Server stopped")
}
