package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Port     int

	// RedisURL enables the Redis rate limiter and API key store.
	RedisURL   string
	AdminToken string

	RateLimitTokens int
	RateLimitRefill time.Duration

	// LogIdentityRaw logs SSN and email unmasked.
	LogIdentityRaw bool
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Env:        getEnv("ENV", "dev"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		RedisURL:   os.Getenv("REDIS_URL"),
		AdminToken: os.Getenv("ADMIN_TOKEN"),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.RateLimitTokens, err = getEnvInt("RATE_LIMIT_TOKENS", 3); err != nil {
		return nil, err
	}
	refill, err := getEnvInt("RATE_LIMIT_REFILL_SECONDS", 1)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitRefill = time.Duration(refill) * time.Second
	if cfg.LogIdentityRaw, err = getEnvBool("LOG_IDENTITY_RAW", false); err != nil {
		return nil, err
	}

	if cfg.Env != "dev" && cfg.Env != "prod" {
		log.Printf("Invalid ENV %q, using prod", cfg.Env)
		cfg.Env = "prod"
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT out of range: %d", cfg.Port)
	}
	if cfg.RateLimitTokens <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_TOKENS must be positive, got %d", cfg.RateLimitTokens)
	}
	if refill <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_REFILL_SECONDS must be positive, got %d", refill)
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}
