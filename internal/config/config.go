// Package config handles application configuration loading from environment
// variables, optionally seeded from a .env file. It provides a centralized
// Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBMaxConns int

	// Valkey (Redis-compatible cache); the category tree cache is skipped
	// when Valkey is unreachable.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	CacheTTL       time.Duration

	// S3-compatible object storage for staged uploads, product images and
	// digital format files. Empty endpoint or keys disable file features.
	S3Endpoint      string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3BucketPublic  string
	S3BucketPrivate string
	S3PublicURL     string

	// Kafka brokers (comma separated) for catalog events. Empty disables
	// publishing.
	KafkaBrokers string
	KafkaTopic   string

	// Catalog limits
	FormatMaxFileMB int64 // largest e-book or audiobook source
	UploadRateLimit int   // uploads per client per minute
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory,
// if present, fills in variables that are not already set. Returns an
// error if critical values are missing in production mode or a numeric
// value does not parse.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "folio"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "folio"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Region:        envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3BucketPublic:  envOrDefault("S3_BUCKET_PUBLIC", "folio-public"),
		S3BucketPrivate: envOrDefault("S3_BUCKET_PRIVATE", "folio-private"),
		S3PublicURL:     os.Getenv("S3_PUBLIC_URL"),

		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "catalog.events"),
	}

	var err error
	if cfg.CacheTTL, err = time.ParseDuration(envOrDefault("CATALOG_CACHE_TTL", "10m")); err != nil {
		return nil, fmt.Errorf("CATALOG_CACHE_TTL: %w", err)
	}
	if cfg.FormatMaxFileMB, err = positiveInt("FORMAT_MAX_FILE_MB", 6); err != nil {
		return nil, err
	}
	limit, err := positiveInt("UPLOAD_RATE_LIMIT", 30)
	if err != nil {
		return nil, err
	}
	cfg.UploadRateLimit = int(limit)
	conns, err := positiveInt("POSTGRES_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	cfg.DBMaxConns = int(conns)

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// FormatMaxFileSize returns the format file limit in bytes.
func (c *Config) FormatMaxFileSize() int64 {
	return c.FormatMaxFileMB << 20
}

// StorageEnabled reports whether object storage is configured.
func (c *Config) StorageEnabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// positiveInt reads a positive integer environment variable.
func positiveInt(key string, fallback int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}
