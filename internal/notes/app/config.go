package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	JWTSecret      string        // Required: shared secret for HS256 access tokens
	Issuer         string        // Issuer claim for tokens (default: quill-notes)
	AccessTokenTTL time.Duration // Access token lifetime (default: 24h)
	BootstrapToken string        // Optional: if set, required to perform bootstrap

	DatabaseFile        string        // Path to SQLite database file (default: ./notes.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads configuration from the environment, with an optional
// .env file for local development. Real environment variables win over the
// file.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		JWTSecret:           os.Getenv("NOTES_JWT_SECRET"),
		Issuer:              getEnvOrDefault("NOTES_ISSUER", "quill-notes"),
		AccessTokenTTL:      getEnvDurationOrDefault("NOTES_ACCESS_TOKEN_TTL", 24*time.Hour),
		BootstrapToken:      os.Getenv("NOTES_BOOTSTRAP_TOKEN"),
		DatabaseFile:        getEnvOrDefault("NOTES_DATABASE_FILE", "notes.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("NOTES_JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
