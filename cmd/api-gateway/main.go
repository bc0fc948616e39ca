package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/minishop/minishop/internal/config"
	"github.com/minishop/minishop/internal/discovery"
)

const upstreamService = "shop-api"

type Gateway struct {
	consul   *discovery.ConsulClient
	fallback string
	proxies  map[string]*httputil.ReverseProxy
	mutex    sync.RWMutex
	services map[string]string
}

// NewGateway builds the proxy table once and keeps refreshing it in the
// background. consul may be nil, in which case the static fallback URL is
// used for every route.
func NewGateway(consul *discovery.ConsulClient, fallback string) *Gateway {
	g := &Gateway{
		consul:   consul,
		fallback: fallback,
		proxies:  make(map[string]*httputil.ReverseProxy),
		services: make(map[string]string),
	}

	g.discoverServices()
	go g.watchServices()

	return g
}

func (g *Gateway) discoverServices() {
	serviceURL := g.fallback

	if g.consul != nil {
		discovered, err := g.consul.GetServiceURL(upstreamService)
		if err != nil {
			log.Printf("⚠️ Service %s not found, using fallback: %v", upstreamService, err)
		} else {
			serviceURL = discovered
		}
	}

	g.updateProxy(upstreamService, serviceURL)
}

func (g *Gateway) updateProxy(serviceName, serviceURL string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	target, err := url.Parse(serviceURL)
	if err != nil {
		log.Printf("❌ Invalid URL for %s: %v", serviceName, err)
		return
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("❌ Proxy error for %s: %v", serviceName, err)
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, `{"error": "service unavailable"}`)
	}

	g.proxies[serviceName] = proxy
	g.services[serviceName] = serviceURL
	log.Printf("✅ Updated route: %s → %s", serviceName, serviceURL)
}

func (g *Gateway) watchServices() {
	ticker := time.NewTicker(10 * time.Second)
	for range ticker.C {
		g.discoverServices()
	}
}

func (g *Gateway) getProxy(serviceName string) *httputil.ReverseProxy {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return g.proxies[serviceName]
}

// ProxyAPI forwards product and order traffic to the shop API.
func (g *Gateway) ProxyAPI(c *gin.Context) {
	proxy := g.getProxy(upstreamService)
	if proxy == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "shop-api unavailable"})
		return
	}
	log.Printf("🔀 Routing %s %s → %s", c.Request.Method, c.Request.URL.Path, upstreamService)
	proxy.ServeHTTP(c.Writer, c.Request)
}

func (g *Gateway) HealthCheck(c *gin.Context) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	statuses := make(map[string]string)
	allHealthy := true

	client := &http.Client{Timeout: 2 * time.Second}

	for name, url := range g.services {
		resp, err := client.Get(url + "/health")
		if err != nil || resp.StatusCode != http.StatusOK {
			statuses[name] = "unhealthy"
			allHealthy = false
		} else {
			statuses[name] = "healthy"
		}
		if resp != nil {
			resp.Body.Close()
		}
	}

	status := "healthy"
	if !allHealthy {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"service":  "api-gateway",
		"services": statuses,
	})
}

func (g *Gateway) ListServices(c *gin.Context) {
	g.mutex.RLock()
	routes := make(map[string]string, len(g.services))
	for name, serviceURL := range g.services {
		routes[name] = serviceURL
	}
	g.mutex.RUnlock()

	resp := gin.H{"routes": routes}

	// Include the Consul catalog when discovery is up.
	if g.consul != nil {
		if catalog, err := g.consul.GetAllServices(); err == nil {
			resp["catalog"] = catalog
		}
	}

	c.JSON(http.StatusOK, resp)
}

// requestID tags every request with an X-Request-ID so a call can be traced
// through the gateway into the API logs.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Request.Header.Set("X-Request-ID", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func main() {
	cfg := config.Load()

	consul, err := discovery.NewConsulClient(cfg.ConsulHost, cfg.ConsulPort)
	if err != nil {
		log.Printf("⚠️ Failed to connect to Consul, using static fallback: %v", err)
		consul = nil
	}

	fallback := fmt.Sprintf("http://localhost:%d", cfg.HTTPPort)
	gateway := NewGateway(consul, fallback)

	router := gin.Default()
	router.Use(requestID())

	router.GET("/health", gateway.HealthCheck)
	router.GET("/services", gateway.ListServices)

	router.Any("/products", gateway.ProxyAPI)
	router.Any("/products/*path", gateway.ProxyAPI)
	router.Any("/orders", gateway.ProxyAPI)
	router.Any("/orders/*path", gateway.ProxyAPI)

	log.Printf("🚀 API Gateway starting on http://0.0.0.0:%d", cfg.GatewayPort)
	router.Run(fmt.Sprintf(":%d", cfg.GatewayPort))
}
