// Package config loads server configuration from the environment.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration.
type Config struct {
	// BindAddr is the host:port the HTTP server listens on.
	BindAddr string

	// DBPath is the SQLite database file path.
	DBPath string

	// JWTSecret signs session tokens.
	JWTSecret string

	// TokenTTL is how long issued tokens stay valid.
	TokenTTL time.Duration
}

// Load reads configuration from the environment, loading a .env file first
// if one is present (missing .env is not an error).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BindAddr:  getEnvDefault("BIND_ADDR", ":8080"),
		DBPath:    getEnvDefault("DB_PATH", "./data/rosca.db"),
		JWTSecret: getEnvDefault("JWT_SECRET", "dev-only-change-me"),
		TokenTTL:  24 * time.Hour,
	}

	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, err
		}
		cfg.TokenTTL = d
	}

	return cfg, nil
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
