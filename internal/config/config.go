package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Default sizing for room caches, session send buffers and the
// persistence queue.
const (
	DefaultCacheSize    = 50
	DefaultSendBuffer   = 64
	DefaultPersistQueue = 1024
)

// Config holds all configuration for the application.
type Config struct {
	Port string
	Env  string

	// History store selection. HistoryBackend is "postgres", "sqlite" or
	// "redis"; when empty the backend is inferred from which URL is set,
	// falling back to SQLite.
	HistoryBackend string
	DatabaseURL    string
	RedisURL       string
	SQLitePath     string

	CacheSize    int // per-room in-memory event cache capacity
	SendBuffer   int // per-session outbound channel capacity
	PersistQueue int // persistence queue capacity
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics on missing required variables.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		HistoryBackend: os.Getenv("HISTORY_BACKEND"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		SQLitePath:     os.Getenv("SQLITE_PATH"),
		CacheSize:      getEnvInt("CACHE_SIZE", DefaultCacheSize),
		SendBuffer:     getEnvInt("SEND_BUFFER", DefaultSendBuffer),
		PersistQueue:   getEnvInt("PERSIST_QUEUE", DefaultPersistQueue),
	}

	if cfg.HistoryBackend == "" {
		switch {
		case cfg.DatabaseURL != "":
			cfg.HistoryBackend = "postgres"
		case cfg.RedisURL != "":
			cfg.HistoryBackend = "redis"
		default:
			cfg.HistoryBackend = "sqlite"
		}
	}

	// In production, require an explicit durable backend
	if cfg.Env == "production" {
		if cfg.HistoryBackend == "postgres" && cfg.DatabaseURL == "" {
			panic("DATABASE_URL is required for the postgres history backend")
		}
		if cfg.HistoryBackend == "redis" && cfg.RedisURL == "" {
			panic("REDIS_URL is required for the redis history backend")
		}
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
