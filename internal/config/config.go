package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Service identifies which process is loading the config.
// Port and database name defaults depend on it.
type Service string

const (
	ServiceBook   Service = "book-service"
	ServiceOrder  Service = "order-service"
	ServiceUser   Service = "user-service"
	ServiceWorker Service = "worker"
)

// Stock write strategies for the purchase workflow
const (
	StockModeAtomic    = "atomic"
	StockModeOverwrite = "overwrite"
)

// Config holds the whole application configuration, populated from env
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	BookService BookServiceConfig
	Order       OrderConfig
	Kafka       KafkaConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiry     time.Duration
	BcryptCost int
}

// BookServiceConfig is how the order service reaches the book service.
// Resolved once at startup and injected into the HTTP client.
type BookServiceConfig struct {
	BaseURL string
	Timeout time.Duration
}

type OrderConfig struct {
	StockMode          string // atomic | overwrite
	EnforceTransitions bool
}

type KafkaConfig struct {
	Brokers    []string
	OrderTopic string
}

// Enabled reports whether an event producer should be started
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// Load reads config from environment variables
func Load(service Service) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", string(service)),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", defaultPort(service)),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", defaultDatabase(service)),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", defaultJWTSecret),
			Expiry:     getEnvDuration("JWT_EXPIRY", 24*time.Hour),
			BcryptCost: getEnvInt("BCRYPT_COST", 12),
		},
		BookService: BookServiceConfig{
			BaseURL: strings.TrimRight(getEnv("BOOK_SERVICE_URL", "http://localhost:8081"), "/"),
			Timeout: getEnvDuration("BOOK_SERVICE_TIMEOUT", 5*time.Second),
		},
		Order: OrderConfig{
			StockMode:          strings.ToLower(getEnv("ORDER_STOCK_MODE", StockModeAtomic)),
			EnforceTransitions: getEnvBool("ORDER_ENFORCE_TRANSITIONS", true),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(getEnv("KAFKA_BROKERS", "")),
			OrderTopic: getEnv("KAFKA_ORDER_TOPIC", "orders.events"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks for settings that must not reach a running service
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	switch c.Order.StockMode {
	case StockModeAtomic, StockModeOverwrite:
	default:
		return fmt.Errorf("ORDER_STOCK_MODE must be %q or %q, got %q",
			StockModeAtomic, StockModeOverwrite, c.Order.StockMode)
	}

	if c.BookService.Timeout <= 0 {
		return fmt.Errorf("BOOK_SERVICE_TIMEOUT must be positive")
	}

	return nil
}

func defaultPort(service Service) string {
	switch service {
	case ServiceBook:
		return "8081"
	case ServiceOrder:
		return "8082"
	case ServiceUser:
		return "8083"
	}
	return "8090"
}

func defaultDatabase(service Service) string {
	switch service {
	case ServiceBook:
		return "bookdb"
	case ServiceOrder:
		return "orderdb"
	case ServiceUser:
		return "userdb"
	}
	return "marketplace"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
