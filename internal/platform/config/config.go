// Package config builds runtime configuration from the environment so main
// stays lean. Every knob has a development default; production overrides all
// of them.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
}

// PostgresConfig captures the pool store / ledger database settings.
type PostgresConfig struct {
	DSN string
}

// RedisConfig captures the distributed pool lock settings.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LockTTL      time.Duration
}

// KafkaConfig captures the audit publisher settings.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Config is the full service configuration.
type Config struct {
	Server   Server
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

// FromEnv builds a Config from TANDA_* environment variables.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:          envOr("TANDA_ADDR", ":8080"),
			JWTSigningKey: envOr("TANDA_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:     envOr("TANDA_JWT_ISSUER", "tanda"),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("TANDA_POSTGRES_DSN"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("TANDA_REDIS_URL"),
			PoolSize:     envIntOr("TANDA_REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("TANDA_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			LockTTL:      envDurationOr("TANDA_REDIS_LOCK_TTL", 15*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("TANDA_KAFKA_BROKERS")),
			Topic:   envOr("TANDA_KAFKA_AUDIT_TOPIC", "tanda.pool.audit"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
