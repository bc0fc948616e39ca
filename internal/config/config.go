package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every knob the binaries need. Defaults match a local
// docker-compose style setup so `go run` works without any environment.
type Config struct {
	HTTPPort    int
	GatewayPort int

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisHost string
	RedisPort int
	CacheTTL  time.Duration

	RabbitHost     string
	RabbitPort     int
	RabbitUser     string
	RabbitPassword string

	ConsulHost string
	ConsulPort int

	WebhookURL string
}

// Load reads configuration from the environment, optionally seeded from a
// .env file in the working directory.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		HTTPPort:    getEnvInt("HTTP_PORT", 8081),
		GatewayPort: getEnvInt("GATEWAY_PORT", 8080),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "minishop"),
		DBPassword: getEnv("DB_PASSWORD", "minishop123"),
		DBName:     getEnv("DB_NAME", "minishop"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnvInt("REDIS_PORT", 6379),
		CacheTTL:  getEnvDuration("CACHE_TTL", 5*time.Minute),

		RabbitHost:     getEnv("RABBITMQ_HOST", "localhost"),
		RabbitPort:     getEnvInt("RABBITMQ_PORT", 5672),
		RabbitUser:     getEnv("RABBITMQ_USER", "guest"),
		RabbitPassword: getEnv("RABBITMQ_PASSWORD", "guest"),

		ConsulHost: getEnv("CONSUL_HOST", "localhost"),
		ConsulPort: getEnvInt("CONSUL_PORT", 8500),

		WebhookURL: getEnv("WEBHOOK_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️ Invalid integer for %s: %q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("⚠️ Invalid duration for %s: %q, using %s", key, value, fallback)
		return fallback
	}
	return d
}
