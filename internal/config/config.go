package config

import (
	"errors"
	"os"
	"time"
)

type Config struct {
	ListenAddr  string
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTExpiry   time.Duration
}

func Load() *Config {
	config := &Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTIssuer:   getEnv("JWT_ISS", "itam-inventory-api"),
		JWTAudience: getEnv("JWT_AUD", "itam-inventory-api"),
		JWTExpiry:   24 * time.Hour, // Default to 24 hours
	}

	// Parse JWT expiry from environment if provided
	if expiryStr := os.Getenv("JWT_EXPIRY"); expiryStr != "" {
		if expiry, err := time.ParseDuration(expiryStr); err == nil {
			config.JWTExpiry = expiry
		}
	}

	return config
}

// LoadAndValidate loads the configuration and rejects values the server
// cannot start with.
func LoadAndValidate() (*Config, error) {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.JWTIssuer == "" || c.JWTAudience == "" {
		return errors.New("JWT_ISS and JWT_AUD must not be empty")
	}
	if c.JWTExpiry <= 0 {
		return errors.New("JWT_EXPIRY must be positive")
	}
	if c.ListenAddr == "" {
		return errors.New("LISTEN_ADDR must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
