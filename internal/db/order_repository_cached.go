package db

import (
	"context"
	"log"

	"github.com/minishop/minishop/internal/cache"
	"github.com/minishop/minishop/internal/metrics"
	"github.com/minishop/minishop/internal/models"
	"github.com/redis/go-redis/v9"
)

// CachedOrderRepository wraps OrderRepository with a read-through Redis cache
// for the order listing. Writes go straight to Postgres and invalidate it.
type CachedOrderRepository struct {
	repo  *OrderRepository
	cache *cache.RedisCache
}

func NewCachedOrderRepository(repo *OrderRepository, cache *cache.RedisCache) *CachedOrderRepository {
	return &CachedOrderRepository{
		repo:  repo,
		cache: cache,
	}
}

func allOrdersKey() string {
	return "orders:all"
}

// GetAll returns all orders with their details (with caching)
func (r *CachedOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	cacheKey := allOrdersKey()

	// Try cache first
	var orders []models.Order
	err := r.cache.Get(ctx, cacheKey, &orders)
	if err == nil {
		log.Println("📦 Cache HIT: all orders")
		metrics.CacheHits.WithLabelValues("orders").Inc()
		return orders, nil
	}

	if err != redis.Nil {
		log.Printf("⚠️ Cache error: %v", err)
	}

	// Cache miss - get from database
	log.Println("💾 Cache MISS: all orders - fetching from DB")
	metrics.CacheMisses.WithLabelValues("orders").Inc()
	orders, err = r.repo.GetAll()
	if err != nil {
		return nil, err
	}

	// Store in cache
	if err := r.cache.Set(ctx, cacheKey, orders); err != nil {
		log.Printf("⚠️ Failed to cache orders: %v", err)
	}

	return orders, nil
}

// Create persists a new order aggregate and invalidates the listing cache
func (r *CachedOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.repo.Create(order); err != nil {
		return err
	}

	if err := r.cache.Delete(ctx, allOrdersKey()); err != nil {
		log.Printf("⚠️ Failed to invalidate cache: %v", err)
	}
	log.Println("🗑️ Cache invalidated: all orders")

	return nil
}
