package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis backs rate limiting; empty disables it
	RedisURL string

	// JWT configuration
	JWTSecret string

	LogLevel         string
	CORSOrigins      []string
	RateLimitPerHour int
}

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{Environment: env}

	switch env {
	case Development, Test:
		loadDefaults(cfg)
	case CI, Production:
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}
	if err := loadValues(cfg); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDefaults fills development values so the API runs with no setup
func loadDefaults(cfg *Config) {
	cfg.ServerHost = "0.0.0.0"
	cfg.ServerPort = "8080"
	cfg.DBDriver = DriverSQLite
	cfg.DBHost = "localhost"
	cfg.DBPort = "5432"
	cfg.DBUser = "postgres"
	cfg.DBName = "recipebook"
	cfg.DBSSLMode = "disable"
	cfg.SQLitePath = "recipebook.db"
	cfg.JWTSecret = "dev-insecure-secret"
	cfg.LogLevel = "debug"
	cfg.CORSOrigins = []string{"http://localhost:5173"}
	cfg.RateLimitPerHour = 100
}

// loadValues overrides defaults with environment variables, falling back to Docker secrets
func loadValues(cfg *Config) error {
	set := func(dst *string, key string) {
		if v := lookup(key); v != "" {
			*dst = v
		}
	}

	set(&cfg.ServerHost, "SERVER_HOST")
	set(&cfg.ServerPort, "SERVER_PORT")
	set(&cfg.DBDriver, "DB_DRIVER")
	set(&cfg.DBHost, "DB_HOST")
	set(&cfg.DBPort, "DB_PORT")
	set(&cfg.DBUser, "DB_USER")
	set(&cfg.DBPassword, "DB_PASSWORD")
	set(&cfg.DBName, "DB_NAME")
	set(&cfg.DBSSLMode, "DB_SSL_MODE")
	set(&cfg.SQLitePath, "SQLITE_PATH")
	set(&cfg.RedisURL, "REDIS_URL")
	set(&cfg.JWTSecret, "JWT_SECRET")
	set(&cfg.LogLevel, "LOG_LEVEL")

	if cfg.DBDriver == "" {
		cfg.DBDriver = DriverPostgres
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if origins := lookup("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if limit := lookup("RATE_LIMIT_PER_HOUR"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_PER_HOUR must be an integer: %w", err)
		}
		cfg.RateLimitPerHour = n
	}

	return nil
}

// Addr returns the host:port the server listens on
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// PostgresDSN builds a postgres:// URL; credentials are percent-encoded
func (c *Config) PostgresDSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSSLMode}}.Encode(),
	}
	return dsn.String()
}

// lookup reads an environment variable, then the matching lower-case Docker secret
func lookup(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return readSecret(strings.ToLower(key))
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
