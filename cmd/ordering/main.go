package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/SeeratPeroz/Omran-Kebab/internal/cache"
	"github.com/SeeratPeroz/Omran-Kebab/internal/consumer"
	h "github.com/SeeratPeroz/Omran-Kebab/internal/http"
	"github.com/SeeratPeroz/Omran-Kebab/internal/repository"
	"github.com/SeeratPeroz/Omran-Kebab/internal/service"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("ordering service starting...")
	var wg sync.WaitGroup

	// Configuration
	httpPort := getEnv("HTTP_PORT", "8080")
	kafkaBrokers := getEnv("KAFKA_BROKERS", "localhost:9092")
	requestTimeout := 30 * time.Second
	shutdownTimeout := 10 * time.Second

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "ordering")
	migrationsPath := getEnv("MIGRATIONS_PATH", "./internal/repository/migrations")

	port, err := strconv.Atoi(dbPort)
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}

	creds := &repository.Credentials{
		Host:              dbHost,
		Port:              port,
		User:              dbUser,
		Password:          dbPass,
		DBName:            dbName,
		MigrationsDirPath: migrationsPath,
	}

	repo, err := repository.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()
	log.Println("Connected to postgres")

	if err := repo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Println("Redis ping succeeded")

	configCache := cache.NewRedisCache(redisClient)
	catalogService := service.NewCatalogService(repo, configCache)
	orderService := service.NewOrderService(repo, catalogService)

	// Payment confirmations arrive over Kafka from the payment collaborator.
	paymentConsumer := consumer.NewConsumer(orderService, strings.Split(kafkaBrokers, ",")...)
	wg.Add(1)
	go func() {
		defer wg.Done()
		paymentConsumer.Run(ctx)
	}()

	orderHandler := h.NewOrderHandler(orderService, requestTimeout)
	paymentHandler := h.NewPaymentHandler(orderService, requestTimeout)
	catalogHandler := h.NewCatalogHandler(catalogService, requestTimeout)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/orders", orderHandler.CreateOrder)
		r.Get("/orders/{order_id}", orderHandler.GetOrder)
		r.Post("/orders/{order_id}/lines", orderHandler.AddLine)
		r.Delete("/orders/{order_id}/lines/{product_id}", orderHandler.RemoveProduct)
		r.Put("/orders/{order_id}/customer", orderHandler.SetCustomerInfo)
		r.Post("/orders/{order_id}/place-cash", orderHandler.PlaceCashOrder)
		r.Get("/orders/{order_id}/checkout-lines", orderHandler.CheckoutLines)
		r.Post("/payments/confirmations", paymentHandler.ConfirmPayment)
		r.Get("/order-status/{order_number}", orderHandler.TrackOrder)
		r.Get("/products/{product_id}/config", catalogHandler.GetProductConfig)
	})

	server := &http.Server{
		Addr:    ":" + httpPort,
		Handler: r,
	}

	go func() {
		log.Printf("HTTP server listening on port %s", httpPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down ordering service...")
	cancel()
	paymentConsumer.Close()
	wg.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Println("Ordering service stopped")
}
