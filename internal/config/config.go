// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Datastore DatastoreConfig
	Cache     CacheConfig
	Contexts  ContextsConfig
	Webhook   WebhookConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host    string
	Port    int
	GinMode string
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatastoreConfig holds billing data store configuration.
type DatastoreConfig struct {
	Type     string
	DataPath string
	MongoURI string
	MongoDB  string
}

// CacheConfig holds turn log cache configuration.
type CacheConfig struct {
	Type     string
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// ContextsConfig holds the context lifespans, in turns.
type ContextsConfig struct {
	StatePendingLifespan int
	StateLifespan        int
	AwaitingLifespan     int
	VerifiedLifespan     int
}

// WebhookConfig holds webhook-facing settings.
type WebhookConfig struct {
	// Token is the shared secret the NLU engine sends per call. Empty
	// disables verification.
	Token string
	// EncryptionKey protects the turn log at rest.
	EncryptionKey string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:    getEnvAsInt("SERVER_PORT", 8008),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Datastore: DatastoreConfig{
			Type:     getEnv("DATASTORE_TYPE", "jsonfile"),
			DataPath: getEnv("BILLING_DATA_PATH", "data/sample_data.json"),
			MongoURI: getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			MongoDB:  getEnv("MONGODB_DATABASE", "energix"),
		},
		Cache: CacheConfig{
			Type:     getEnv("CACHE_TYPE", "none"),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvAsInt("TURNLOG_TTL_SECONDS", 1800)) * time.Second,
		},
		Contexts: ContextsConfig{
			StatePendingLifespan: getEnvAsInt("CTX_STATE_PENDING_LIFESPAN", 7),
			StateLifespan:        getEnvAsInt("CTX_STATE_LIFESPAN", 10),
			AwaitingLifespan:     getEnvAsInt("CTX_AWAITING_LIFESPAN", 3),
			VerifiedLifespan:     getEnvAsInt("CTX_VERIFIED_LIFESPAN", 20),
		},
		Webhook: WebhookConfig{
			Token:         getEnv("WEBHOOK_TOKEN", ""),
			EncryptionKey: getEnv("TURNLOG_ENCRYPTION_KEY", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
