package db

import (
	"context"
	"fmt"
	"log"

	"github.com/minishop/minishop/internal/cache"
	"github.com/minishop/minishop/internal/metrics"
	"github.com/minishop/minishop/internal/models"
	"github.com/redis/go-redis/v9"
)

// CachedProductRepository wraps ProductRepository with a read-through Redis
// cache. Cache failures are logged and never surfaced to callers.
type CachedProductRepository struct {
	repo  *ProductRepository
	cache *cache.RedisCache
}

func NewCachedProductRepository(repo *ProductRepository, cache *cache.RedisCache) *CachedProductRepository {
	return &CachedProductRepository{
		repo:  repo,
		cache: cache,
	}
}

// Cache key helpers
func productKey(id int) string {
	return fmt.Sprintf("product:%d", id)
}

func allProductsKey() string {
	return "products:all"
}

// GetAll returns all products (with caching)
func (r *CachedProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	cacheKey := allProductsKey()

	// Try cache first
	var products []models.Product
	err := r.cache.Get(ctx, cacheKey, &products)
	if err == nil {
		log.Println("📦 Cache HIT: all products")
		metrics.CacheHits.WithLabelValues("products").Inc()
		return products, nil
	}

	if err != redis.Nil {
		log.Printf("⚠️ Cache error: %v", err)
	}

	// Cache miss - get from database
	log.Println("💾 Cache MISS: all products - fetching from DB")
	metrics.CacheMisses.WithLabelValues("products").Inc()
	products, err = r.repo.GetAll()
	if err != nil {
		return nil, err
	}

	// Store in cache
	if err := r.cache.Set(ctx, cacheKey, products); err != nil {
		log.Printf("⚠️ Failed to cache products: %v", err)
	}

	return products, nil
}

// GetByID returns a single product (with caching)
func (r *CachedProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	cacheKey := productKey(id)

	// Try cache first
	var product models.Product
	err := r.cache.Get(ctx, cacheKey, &product)
	if err == nil {
		log.Printf("📦 Cache HIT: product %d", id)
		metrics.CacheHits.WithLabelValues("product").Inc()
		return &product, nil
	}

	if err != redis.Nil {
		log.Printf("⚠️ Cache error: %v", err)
	}

	// Cache miss - get from database
	log.Printf("💾 Cache MISS: product %d - fetching from DB", id)
	metrics.CacheMisses.WithLabelValues("product").Inc()
	p, err := r.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if p == nil {
		return nil, nil
	}

	// Store in cache
	if err := r.cache.Set(ctx, cacheKey, p); err != nil {
		log.Printf("⚠️ Failed to cache product: %v", err)
	}

	return p, nil
}

// Create inserts a new product and invalidates cache
func (r *CachedProductRepository) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	product, err := r.repo.Create(req)
	if err != nil {
		return nil, err
	}

	// Invalidate all products cache
	if err := r.cache.Delete(ctx, allProductsKey()); err != nil {
		log.Printf("⚠️ Failed to invalidate cache: %v", err)
	}
	log.Println("🗑️ Cache invalidated: all products")

	return product, nil
}

// Update rewrites a product and invalidates cache
func (r *CachedProductRepository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	updated, err := r.repo.Update(product)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Delete(ctx, productKey(updated.ID), allProductsKey()); err != nil {
		log.Printf("⚠️ Failed to invalidate cache: %v", err)
	}
	log.Printf("🗑️ Cache invalidated: product %d and all products", updated.ID)

	return updated, nil
}

// Delete removes a product and invalidates cache
func (r *CachedProductRepository) Delete(ctx context.Context, id int) error {
	err := r.repo.Delete(id)
	if err != nil {
		return err
	}

	// The FK cascade also rewrote order aggregates, so cached order
	// listings are stale along with the product keys.
	if err := r.cache.Delete(ctx, productKey(id), allProductsKey(), allOrdersKey()); err != nil {
		log.Printf("⚠️ Failed to invalidate cache: %v", err)
	}
	log.Printf("🗑️ Cache invalidated: product %d, all products and all orders", id)

	return nil
}
