package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockroom/internal/config"
	"stockroom/internal/database"
	"stockroom/internal/handler"
	"stockroom/internal/invoice"
	"stockroom/internal/repository"
	"stockroom/internal/router"
	"stockroom/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting stockroom API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	supplierRepo := repository.NewSupplierRepository(pool, logger)
	cartonRepo := repository.NewCartonRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	analyticsRepo := repository.NewAnalyticsRepository(pool, logger)

	// Initialize invoice storage with S3 and local fallback
	fileStore, err := invoice.NewFileStore(cfg.Invoice.LocalDir, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize invoice storage: %w", err)
	}

	invoiceStore := fileStore
	if cfg.Invoice.S3Enabled {
		s3Store, err := invoice.NewS3Store(ctx, cfg.Invoice.Bucket, cfg.Invoice.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 invoice storage, falling back to local file system only")
		} else {
			invoiceStore = invoice.NewFallbackStore(s3Store, fileStore, logger)
		}
	} else {
		logger.Info().Msg("using local file system for invoice artifacts (S3 disabled)")
	}

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	supplierService := service.NewSupplierService(supplierRepo, logger)
	cartonService := service.NewCartonService(cartonRepo, productRepo, logger)
	orderService := service.NewOrderService(orderRepo, cartonRepo, productRepo, invoiceStore, cfg.Invoice.Prefix, logger)
	analyticsService := service.NewAnalyticsService(analyticsRepo, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	supplierHandler := handler.NewSupplierHandler(supplierService, logger)
	cartonHandler := handler.NewCartonHandler(cartonService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, logger)

	// Initialize router
	mux := router.New(
		productHandler,
		supplierHandler,
		cartonHandler,
		orderHandler,
		analyticsHandler,
		cfg.Auth.APIKey,
		logger,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
