package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Postgres  PostgresConfig
	Kafka     KafkaConfig
	Sale      SaleConfig
	Lock      LockConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type PostgresConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName   string `envconfig:"DB_NAME" default:"flashsale"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type KafkaConfig struct {
	Brokers       []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic         string   `envconfig:"KAFKA_ORDER_TOPIC" default:"order.purchase"`
	ConsumerGroup string   `envconfig:"KAFKA_CONSUMER_GROUP" default:"flashsale-fulfillment"`
}

// SaleConfig describes the single flash-sale program: its window, the one
// product on offer, and the stock the ledger is seeded with at startup.
type SaleConfig struct {
	Enabled          bool      `envconfig:"FLASH_ENABLED" default:"true"`
	Start            time.Time `envconfig:"FLASH_START" default:"2026-01-01T00:00:00Z"`
	End              time.Time `envconfig:"FLASH_END" default:"2027-01-01T00:00:00Z"`
	Stock            int64     `envconfig:"FLASH_STOCK" default:"1000"`
	ProductID        string    `envconfig:"FLASH_PRODUCT_ID" default:"10001"`
	ProductName      string    `envconfig:"FLASH_PRODUCT_NAME" default:"iPhone 16 Pro"`
	ProductPrice     float64   `envconfig:"FLASH_PRODUCT_PRICE" default:"3100"`
	ProductThumbnail string    `envconfig:"FLASH_PRODUCT_THUMBNAIL" default:""`
}

type LockConfig struct {
	TTL            time.Duration `envconfig:"LOCK_TTL" default:"30s"`
	AcquireTimeout time.Duration `envconfig:"LOCK_ACQUIRE_TIMEOUT" default:"5s"`
	RetryInterval  time.Duration `envconfig:"LOCK_RETRY_INTERVAL" default:"100ms"`
}

type RateLimitConfig struct {
	Limit  int           `envconfig:"RATE_LIMIT" default:"20"`
	Window time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

func (c *PostgresConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}
