package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"storefront-bookings/config"
	"storefront-bookings/controllers"
	"storefront-bookings/metrics"
	"storefront-bookings/repository"
	"storefront-bookings/routes"
	"storefront-bookings/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := config.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.WebhookSecret == "" {
		logger.Warn("SHOPIFY_WEBHOOK_SECRET is not set; every webhook will be rejected with 500 until it is configured")
	}

	var (
		bookingStore  services.BookingStore
		deliveryStore services.DeliveryStore
	)
	if cfg.DBDriver == config.DriverMemory {
		mem := repository.NewMemoryStore()
		bookingStore, deliveryStore = mem, mem
		logger.Warn("using in-memory storage; bookings are lost on restart")
	} else {
		db, err := config.ConnectDatabase(cfg, logger)
		if err != nil {
			logger.Fatal("database connect failed", zap.Error(err))
		}
		bookingStore = repository.NewBookingRepository(db)
		deliveryStore = repository.NewDeliveryRepository(db)
		logger.Info("database connection established", zap.String("driver", cfg.DBDriver), zap.Bool("auto_migrate", cfg.DBAutoMigrate))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Initialize services
	bookingService := services.NewBookingService(bookingStore, logger.Named("bookings"), cfg.ReconcileConcurrency)
	webhookService := services.NewWebhookService(
		services.NewSignatureVerifier(cfg.WebhookSecret),
		bookingService,
		deliveryStore,
		m,
		logger.Named("webhooks"),
	)

	// Initialize controllers
	webhookController := controllers.NewWebhookController(webhookService, logger)
	bookingController := controllers.NewBookingController(bookingService, logger)

	router := routes.SetupRouter(cfg, logger.Named("http"), webhookController, bookingController, reg)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("ListenAndServe failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received, shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped gracefully")
}
