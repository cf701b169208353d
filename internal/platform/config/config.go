// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full service configuration.
type Config struct {
	Server       Server
	Auth         AuthConfig
	Store        StoreConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Announcement AnnouncementConfig
	Telemetry    TelemetryConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"CONFCENTRAL_ADDR" envDefault:":8080"`
	RequestTimeout  time.Duration `env:"CONFCENTRAL_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"CONFCENTRAL_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel        string        `env:"CONFCENTRAL_LOG_LEVEL" envDefault:"info"`
}

// AuthConfig configures bearer token validation. Tokens are issued by an
// external identity provider sharing the HMAC key.
type AuthConfig struct {
	JWTSigningKey string `env:"CONFCENTRAL_JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	JWTIssuer     string `env:"CONFCENTRAL_JWT_ISSUER" envDefault:"confcentral"`
	JWTAudience   string `env:"CONFCENTRAL_JWT_AUDIENCE" envDefault:"confcentral-api"`
}

// StoreConfig bounds entity store transactions.
type StoreConfig struct {
	TxTimeout   time.Duration `env:"CONFCENTRAL_TX_TIMEOUT" envDefault:"5s"`
	LockTimeout time.Duration `env:"CONFCENTRAL_LOCK_TIMEOUT" envDefault:"2s"`
}

// PostgresConfig selects the PostgreSQL store. An empty DSN keeps the
// in-memory store.
type PostgresConfig struct {
	DSN             string        `env:"CONFCENTRAL_POSTGRES_DSN"`
	MaxOpenConns    int           `env:"CONFCENTRAL_POSTGRES_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"CONFCENTRAL_POSTGRES_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONFCENTRAL_POSTGRES_CONN_MAX_LIFETIME" envDefault:"30m"`
	ConnectTimeout  time.Duration `env:"CONFCENTRAL_POSTGRES_CONNECT_TIMEOUT" envDefault:"5s"`
	Migrate         bool          `env:"CONFCENTRAL_POSTGRES_MIGRATE" envDefault:"true"`
}

// RedisConfig selects the Redis announcement cache. An empty URL keeps the
// in-memory cache.
type RedisConfig struct {
	URL          string        `env:"CONFCENTRAL_REDIS_URL"`
	PoolSize     int           `env:"CONFCENTRAL_REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"CONFCENTRAL_REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"CONFCENTRAL_REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"CONFCENTRAL_REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"CONFCENTRAL_REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// KafkaConfig selects the Kafka trigger queue. No brokers keeps the
// in-process queue.
type KafkaConfig struct {
	Brokers []string `env:"CONFCENTRAL_KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"CONFCENTRAL_KAFKA_TOPIC" envDefault:"confcentral.featured-speaker"`
	GroupID string   `env:"CONFCENTRAL_KAFKA_GROUP" envDefault:"confcentral-announcements"`
}

// AnnouncementConfig drives the announcement refresher.
type AnnouncementConfig struct {
	RefreshInterval   time.Duration `env:"CONFCENTRAL_ANNOUNCEMENT_INTERVAL" envDefault:"1h"`
	NearlySoldOutMax  int           `env:"CONFCENTRAL_NEARLY_SOLD_OUT_SEATS" envDefault:"5"`
	TriggerBufferSize int           `env:"CONFCENTRAL_TRIGGER_BUFFER" envDefault:"256"`
}

// TelemetryConfig enables OTLP trace export. An empty endpoint disables it.
type TelemetryConfig struct {
	Enabled     bool   `env:"CONFCENTRAL_OTEL_ENABLED" envDefault:"true"`
	Endpoint    string `env:"CONFCENTRAL_OTEL_ENDPOINT"`
	ServiceName string `env:"CONFCENTRAL_OTEL_SERVICE_NAME" envDefault:"confcentral"`
}

// FromEnv builds the configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Announcement.NearlySoldOutMax < 1 {
		return Config{}, fmt.Errorf("CONFCENTRAL_NEARLY_SOLD_OUT_SEATS must be positive")
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
