package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Object storage
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	S3Endpoint         string
	ReportBucket       string
	ReportPrefix       string

	// Reports
	ReportTimezone  *time.Location
	ReportCacheTTL  time.Duration
	RefreshInterval time.Duration
	FetchTimeout    time.Duration

	// Optional cache; empty disables it
	RedisURL string
}

// Load loads configuration from environment variables, reading a .env file
// first when one is present. It returns an error if critical configuration
// is invalid.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		AWSAccessKeyID:     getEnvFirst("AWS_ACCESS_KEY_ID", "PERSONAL_AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: getEnvFirst("AWS_SECRET_ACCESS_KEY", "PERSONAL_AWS_SECRET_ACCESS_KEY"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		S3Endpoint:         getEnv("S3_ENDPOINT", ""),
		ReportBucket:       getEnv("REPORT_BUCKET", "college-basketball"),
		ReportPrefix:       getEnv("REPORT_PREFIX", "ScoutingReports/"),

		ReportCacheTTL:  getEnvDuration("REPORT_CACHE_TTL", 10*time.Minute),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 5*time.Minute),
		FetchTimeout:    getEnvDuration("FETCH_TIMEOUT", 20*time.Second),

		RedisURL: getEnv("REDIS_URL", ""),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	zone := getEnv("REPORT_TIMEZONE", "America/New_York")
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", zone, err)
	}
	cfg.ReportTimezone = loc

	if cfg.ReportBucket == "" {
		return nil, fmt.Errorf("missing required environment variable: %s", "REPORT_BUCKET")
	}
	if (cfg.AWSAccessKeyID == "") != (cfg.AWSSecretAccessKey == "") {
		return nil, fmt.Errorf("AWS access key id and secret access key must be set together")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvFirst returns the first non-empty value among keys.
func getEnvFirst(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
