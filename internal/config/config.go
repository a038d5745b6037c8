package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ServerConfig is the HTTP listener configuration
type ServerConfig struct {
	Host string
	Port int
}

// Addr formats the listen address
func (s ServerConfig) Addr() string {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// JWTConfig configures session token signing
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// RedisConfig configures the optional Redis-backed key-value store.
// An empty Addr keeps the in-memory store.
type RedisConfig struct {
	Addr string
}

// RatesConfig configures the exchange-rate feed client
type RatesConfig struct {
	FeedURL string
	Timeout time.Duration
}

// AdminConfig seeds the initial admin account
type AdminConfig struct {
	Email    string
	Password string
}

// Config is the application configuration
type Config struct {
	Server ServerConfig
	JWT    JWTConfig
	Redis  RedisConfig
	Rates  RatesConfig
	Admin  AdminConfig
}

// Default returns the configuration used when no environment overrides are set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		JWT: JWTConfig{
			Secret: "dev-secret-change-me",
			TTL:    2 * time.Hour,
		},
		Rates: RatesConfig{
			Timeout: 10 * time.Second,
		},
		Admin: AdminConfig{
			Email:    "admin@auction.local",
			Password: "admin123",
		},
	}
}

// Load builds the configuration from defaults plus environment overrides:
// PORT, JWT_SECRET, REDIS_ADDR, RATES_FEED_URL, ADMIN_EMAIL, ADMIN_PASSWORD.
func Load() *Config {
	cfg := Default()

	if p := os.Getenv("PORT"); p != "" {
		if port, err := strconv.Atoi(p); err == nil {
			cfg.Server.Port = port
		}
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if url := os.Getenv("RATES_FEED_URL"); url != "" {
		cfg.Rates.FeedURL = url
	}
	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		cfg.Admin.Email = email
	}
	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		cfg.Admin.Password = password
	}

	return cfg
}
