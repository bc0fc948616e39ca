package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/minishop/minishop/internal/cache"
	"github.com/minishop/minishop/internal/config"
	"github.com/minishop/minishop/internal/db"
	"github.com/minishop/minishop/internal/discovery"
	"github.com/minishop/minishop/internal/handlers"
	"github.com/minishop/minishop/internal/messaging"
	"github.com/minishop/minishop/internal/metrics"
	"github.com/minishop/minishop/internal/publisher"
)

const (
	serviceName = "shop-api"
	serviceID   = "shop-api-1"
)

func main() {
	cfg := config.Load()

	// Connect to PostgreSQL
	database, err := db.NewPostgresDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Connect to Redis
	redisCache, err := cache.NewRedisCache(cfg.RedisHost, cfg.RedisPort, cfg.CacheTTL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	// Connect to RabbitMQ
	rabbitMQ, err := messaging.NewRabbitMQ(cfg.RabbitHost, cfg.RabbitPort, cfg.RabbitUser, cfg.RabbitPassword)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rabbitMQ.Close()

	// Connect to Consul
	consul, err := discovery.NewConsulClient(cfg.ConsulHost, cfg.ConsulPort)
	if err != nil {
		log.Fatalf("Failed to connect to Consul: %v", err)
	}

	// Register with Consul
	err = consul.Register(discovery.ServiceConfig{
		Name: serviceName,
		ID:   serviceID,
		Port: cfg.HTTPPort,
		Tags: []string{"api", "products", "orders"},
	})
	if err != nil {
		log.Fatalf("Failed to register service: %v", err)
	}

	// Deregister on shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		consul.Deregister(serviceID)
		os.Exit(0)
	}()

	// Create publisher
	orderPublisher, err := publisher.NewOrderPublisher(rabbitMQ)
	if err != nil {
		log.Fatalf("Failed to create publisher: %v", err)
	}

	// Create repositories
	productRepo := db.NewProductRepository(database)
	cachedProducts := db.NewCachedProductRepository(productRepo, redisCache)
	orderRepo := db.NewOrderRepository(database)
	cachedOrders := db.NewCachedOrderRepository(orderRepo, redisCache)

	// Create handlers
	productHandler := handlers.NewProductHandler(cachedProducts)
	orderHandler := handlers.NewOrderHandler(cachedOrders, orderPublisher)

	// Setup router
	router := gin.Default()
	router.Use(metrics.Middleware())

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/products", productHandler.ListProducts)
	router.GET("/products/:id", productHandler.GetProduct)
	router.POST("/products", productHandler.CreateProduct)
	router.PUT("/products", productHandler.UpdateProduct)
	router.DELETE("/products/:id", productHandler.DeleteProduct)

	router.GET("/orders", orderHandler.ListOrders)
	router.POST("/orders", orderHandler.CreateOrder)

	// Start server
	log.Printf("🚀 %s starting on http://localhost:%d", serviceName, cfg.HTTPPort)
	log.Println("   Registered with Consul")
	router.Run(fmt.Sprintf(":%d", cfg.HTTPPort))
}
