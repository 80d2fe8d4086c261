package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds runtime configuration shared across the application. Loaded
// once in main and passed down; no package-level state.
type Config struct {
	Addr string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	// RedisAddr empty selects the in-process rate limiter.
	RedisAddr string

	JWTSecret     string
	PublicBaseURL string

	RateLimit  int
	RateWindow time.Duration

	LogLevel string
}

func Load() (Config, error) {
	cfg := Config{
		Addr:             envOrDefault("HTTP_ADDR", "0.0.0.0:8080"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     os.Getenv("POSTGRES_PORT"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		PublicBaseURL:    envOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"),
		RateLimit:        envOrDefaultInt("RATE_LIMIT", 5),
		RateWindow:       envOrDefaultDuration("RATE_WINDOW", 60*time.Second),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
	}

	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET must be configured")
	}

	return cfg, nil
}

// DatabaseURL builds the Postgres connection string from its parts.
func (c Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
