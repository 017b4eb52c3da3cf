// pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string
	HTTPAddr  string // private-api-service
	AdminAddr string // admin-api-service

	// Private client tokens
	JWTSecret     string        // HMAC signing key, required
	TokenLifetime time.Duration // default 1h

	// Admin API
	AdminAPIToken string

	// Power BI upstream
	PowerBITimeout time.Duration

	// Redis & Postgres
	RedisURL    string
	DatabaseURL string

	// Dev seeding
	SeedFile string
}

// Load reads configuration from the environment (.env honored in dev).
// The signing secret is mandatory: the process must not come up able to
// issue tokens signed with an empty key.
func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:            env("EMBEDHUB_ENV", "dev"),
		HTTPAddr:       env("PRIVATE_HTTP_ADDR", ":8080"),
		AdminAddr:      env("ADMIN_HTTP_ADDR", ":8082"),
		JWTSecret:      env("PRIVATE_JWT_SECRET", ""),
		TokenLifetime:  envDur("JWT_EXPIRATION", 3600) * time.Second,
		AdminAPIToken:  env("ADMIN_API_TOKEN", ""),
		PowerBITimeout: envDur("POWERBI_HTTP_TIMEOUT_SEC", 30) * time.Second,
		RedisURL:       env("REDIS_URL", ""),
		DatabaseURL:    env("DATABASE_URL", ""),
		SeedFile:       env("EMPRESA_SEED_FILE", ""),
	}
	if cfg.JWTSecret == "" {
		log.Fatal("PRIVATE_JWT_SECRET not set")
	}
	if cfg.DatabaseURL == "" {
		log.Println("[WARN] DATABASE_URL not set — using in-memory empresa store for dev")
	}
	return cfg
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envDur(k string, def int) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return time.Duration(def)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] %s=%q is not an integer, using default %d", k, v, def)
		return time.Duration(def)
	}
	return time.Duration(i)
}
