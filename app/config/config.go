package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the service. It is constructed once at
// process start and handed into every component constructor; nothing in the
// core reads environment variables after Load returns.
type Config struct {
	// Server
	Port     string
	Host     string
	LogLevel string

	// Database
	DatabaseURL      string
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseSSLMode  string

	// Tenancy
	TenantHeader      string
	BaseDomain        string
	DefaultTenantSlug string

	// Tokens
	TokenSecret     string
	TokenIssuer     string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration
	CSRFTokenLength int

	// Cookies
	CookieDomain string
	CookieSecure bool

	// Redis tenant cache (optional; empty address disables the cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TenantCacheTTL time.Duration

	// Features
	EnableMetrics bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{}

	// Server configuration
	config.Port = getEnvOrDefault("PORT", "9600")
	config.Host = getEnvOrDefault("HOST", "0.0.0.0")
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	// Database configuration
	config.DatabaseURL = os.Getenv("DATABASE_URL")
	config.DatabaseHost = getEnvOrDefault("DB_HOST", "shop-postgres")
	config.DatabasePort = getEnvOrDefault("DB_PORT", "5432")
	config.DatabaseName = getEnvOrDefault("DB_NAME", "shop_db")
	config.DatabaseUser = getEnvOrDefault("DB_USER", "shop_app")
	config.DatabasePassword = os.Getenv("DB_PASSWORD")
	if config.DatabasePassword == "" && config.DatabaseURL == "" {
		return nil, fmt.Errorf("DB_PASSWORD or DATABASE_URL is required")
	}
	config.DatabaseSSLMode = getEnvOrDefault("DB_SSL_MODE", "require")

	// Tenancy configuration
	config.TenantHeader = getEnvOrDefault("TENANT_HEADER", "X-Tenant-Id")
	config.BaseDomain = os.Getenv("BASE_DOMAIN")
	config.DefaultTenantSlug = os.Getenv("DEFAULT_TENANT_SLUG")

	// Token configuration
	config.TokenSecret = os.Getenv("TOKEN_SECRET")
	if config.TokenSecret == "" {
		return nil, fmt.Errorf("TOKEN_SECRET is required")
	}
	config.TokenIssuer = getEnvOrDefault("TOKEN_ISSUER", "shopcore")

	var err error
	config.AccessTokenTTL, err = getDurationEnv("ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_TTL: %w", err)
	}

	config.RefreshTokenTTL, err = getDurationEnv("REFRESH_TOKEN_TTL", 14*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_TOKEN_TTL: %w", err)
	}

	config.ResetTokenTTL, err = getDurationEnv("RESET_TOKEN_TTL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid RESET_TOKEN_TTL: %w", err)
	}

	csrfLengthStr := getEnvOrDefault("CSRF_TOKEN_LENGTH", "32")
	csrfLength, err := strconv.Atoi(csrfLengthStr)
	if err != nil {
		return nil, fmt.Errorf("invalid CSRF_TOKEN_LENGTH: %w", err)
	}
	config.CSRFTokenLength = csrfLength

	// Cookie configuration
	config.CookieDomain = os.Getenv("COOKIE_DOMAIN")
	config.CookieSecure = getBoolEnv("COOKIE_SECURE", true)

	// Redis tenant cache
	config.RedisAddr = os.Getenv("REDIS_ADDR")
	config.RedisPassword = os.Getenv("REDIS_PASSWORD")
	redisDBStr := getEnvOrDefault("REDIS_DB", "0")
	config.RedisDB, err = strconv.Atoi(redisDBStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	config.TenantCacheTTL, err = getDurationEnv("TENANT_CACHE_TTL", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid TENANT_CACHE_TTL: %w", err)
	}

	// Feature flags
	config.EnableMetrics = getBoolEnv("ENABLE_METRICS", true)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("invalid port: %s", c.Port)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535: %s", c.Port)
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	// HS256 secrets shorter than 32 bytes are brute-forceable
	if len(c.TokenSecret) < 32 {
		return fmt.Errorf("TOKEN_SECRET must be at least 32 bytes, got: %d", len(c.TokenSecret))
	}

	if c.CSRFTokenLength < 16 {
		return fmt.Errorf("CSRF token length must be at least 16, got: %d", c.CSRFTokenLength)
	}

	if c.AccessTokenTTL < time.Minute || c.AccessTokenTTL > time.Hour {
		return fmt.Errorf("access token ttl must be between 1m and 1h, got: %v", c.AccessTokenTTL)
	}

	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		return fmt.Errorf("refresh token ttl must exceed access token ttl")
	}

	if c.ResetTokenTTL < time.Minute {
		return fmt.Errorf("reset token ttl must be at least 1 minute, got: %v", c.ResetTokenTTL)
	}

	// Default tenant is meant for single-tenant deployments only; having
	// both a base domain and a default is almost always a misconfig.
	if c.DefaultTenantSlug != "" && c.BaseDomain != "" {
		return fmt.Errorf("DEFAULT_TENANT_SLUG cannot be combined with BASE_DOMAIN")
	}

	return nil
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	return time.ParseDuration(value)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
