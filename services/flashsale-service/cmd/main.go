package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flashsale-system/services/flashsale-service/internal/catalog"
	"flashsale-system/services/flashsale-service/internal/config"
	"flashsale-system/services/flashsale-service/internal/handlers"
	"flashsale-system/services/flashsale-service/internal/ledger"
	"flashsale-system/services/flashsale-service/internal/lock"
	"flashsale-system/services/flashsale-service/internal/middleware"
	"flashsale-system/services/flashsale-service/internal/repository"
	"flashsale-system/services/flashsale-service/internal/service"
	"flashsale-system/services/flashsale-service/internal/worker"
	"flashsale-system/shared/kafka"

	"github.com/redis/go-redis/v9"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	// Initialize dependencies
	pgRepo, err := repository.NewPostgresOrderRepo(cfg.Postgres.BuildDSN())
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgRepo.Close()

	orderRepo := repository.NewCachedOrderRepository(pgRepo, rdb, 5*time.Minute)

	cat := catalog.NewProvider(cfg.Sale)

	// Seed the stock ledger once; an existing counter from a previous run
	// is left untouched.
	stockLedger := ledger.NewRedisLedger(rdb)
	if err := stockLedger.Seed(ctx, cat.Product().ID, cat.Product().Stock); err != nil {
		log.Error("failed to seed stock ledger", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer
	producer, err := kafka.NewProducer(cfg.Kafka.Brokers)
	if err != nil {
		log.Error("failed to start kafka producer", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	admission := service.NewAdmissionService(cat, stockLedger, producer, cfg.Kafka.Topic, log)
	status := service.NewStatusService(orderRepo)

	locker := lock.NewRedisLocker(rdb, cfg.Lock.TTL, cfg.Lock.AcquireTimeout, cfg.Lock.RetryInterval, log)
	fulfillment := worker.NewFulfillmentWorker(locker, orderRepo, cat.Product().Price, log)

	consumer, err := kafka.NewConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.ConsumerGroup,
		cfg.Kafka.Topic,
		fulfillment.HandleMessage,
		log,
	)
	if err != nil {
		log.Error("failed to start kafka consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	// Drain the fulfillment queue in the background; a broken broker
	// connection is fatal for the process.
	consumerErr := make(chan error, 1)
	go func() {
		consumerErr <- consumer.Run(ctx)
	}()

	purchaseHandler := &handlers.PurchaseHandler{Admission: admission, Status: status}
	flashHandler := &handlers.FlashSaleHandler{Catalog: cat}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: setupRoutes(rdb, cfg, purchaseHandler, flashHandler),
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("starting flashsale service", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	select {
	case <-quit:
		log.Info("shutting down server")
	case err := <-consumerErr:
		if err != nil && err != context.Canceled {
			log.Error("queue consumer failed", "error", err)
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server exited properly")
}

func setupRoutes(rdb *redis.Client, cfg config.Config, ph *handlers.PurchaseHandler, fh *handlers.FlashSaleHandler) http.Handler {
	mux := http.NewServeMux()

	limited := middleware.RateLimit(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window)
	mux.Handle("POST /purchase", limited(http.HandlerFunc(ph.HandlePurchase)))
	mux.HandleFunc("GET /orders/status", ph.HandleOrderStatus)
	mux.HandleFunc("GET /flashsale/status", fh.HandleProgramStatus)
	mux.HandleFunc("GET /flashsale/product", fh.HandleProduct)

	// Add health check endpoint for Kubernetes
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return mux
}
