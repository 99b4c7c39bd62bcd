package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Media storage configuration
	MediaBackend string
	MediaRoot    string
	MediaURL     string
	S3BucketName string
	AWSRegion    string

	// API behaviour
	PageSize int

	// Logging
	LogLevel  string
	LogFormat string

	// Initial data
	AdminPassword string
}

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Media backends
const (
	MediaLocal = "local"
	MediaS3    = "s3"
)

// sensitive values are never read from the environment in production
var sensitiveKeys = map[string]bool{
	"DB_PASSWORD":    true,
	"JWT_SECRET":     true,
	"REDIS_PASSWORD": true,
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	src := source{env: env}

	cfg := &Config{
		ServerPort:    src.get("SERVER_PORT", "8000"),
		ServerHost:    src.get("SERVER_HOST", "0.0.0.0"),
		CORSOrigins:   splitList(src.get("CORS_ORIGINS", "http://localhost:3000")),
		DBDriver:      strings.ToLower(src.get("DB_DRIVER", DriverPostgres)),
		DBHost:        src.get("DB_HOST", "localhost"),
		DBPort:        src.get("DB_PORT", "5432"),
		DBUser:        src.get("DB_USER", "postgres"),
		DBPassword:    src.get("DB_PASSWORD", ""),
		DBName:        src.get("DB_NAME", "foodgram"),
		DBSSLMode:     src.get("DB_SSL_MODE", "disable"),
		SQLitePath:    src.get("SQLITE_PATH", "foodgram.db"),
		RedisHost:     src.get("REDIS_HOST", ""),
		RedisPort:     src.get("REDIS_PORT", "6379"),
		RedisPassword: src.get("REDIS_PASSWORD", ""),
		RedisURL:      src.get("REDIS_URL", ""),
		RedisDB:       0, // This is a constant, not a secret
		JWTSecret:     src.get("JWT_SECRET", ""),
		MediaBackend:  strings.ToLower(src.get("MEDIA_BACKEND", MediaLocal)),
		MediaRoot:     src.get("MEDIA_ROOT", "media"),
		MediaURL:      src.get("MEDIA_URL", "/media/"),
		S3BucketName:  src.get("S3_BUCKET_NAME", "foodgram-recipe-images"),
		AWSRegion:     src.get("AWS_REGION", ""),
		LogLevel:      src.get("LOG_LEVEL", "info"),
		LogFormat:     src.get("LOG_FORMAT", "json"),
		AdminPassword: src.get("ADMIN_TEST_PASSWORD", "testmeplease"),
	}

	pageSize, err := strconv.Atoi(src.get("PAGE_SIZE", "6"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAGE_SIZE: %w", err)
	}
	cfg.PageSize = pageSize

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DSN builds the PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// source resolves a key from the environment first and Docker secrets second.
// In CI only the environment is consulted, in production sensitive keys only
// come from secrets.
type source struct {
	env Environment
}

func (s source) get(key, def string) string {
	if !(s.env == Production && sensitiveKeys[key]) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
	}
	if s.env != CI {
		if v := readSecret(strings.ToLower(key)); v != "" {
			return v
		}
	}
	return def
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

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
