package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port               string
	RateLimitPerMinute int

	// Storage
	DataBackend  string
	SQLiteDBPath string
	DataDir      string

	// Calendar
	Timezone string
	Location *time.Location

	// Tips
	TipsURL           string
	TipsTimeout       time.Duration
	TipsRetryAttempts int
	TipsCacheTTL      time.Duration

	// Sync
	AMQPURL       string
	AMQPExchange  string
	AMQPQueue     string
	SyncStubDelay time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

const DefaultTipsURL = "https://jsonplaceholder.typicode.com/posts?_limit=5"

func Load() *Config {
	cfg := &Config{
		Port:               getEnv("PORT", "8081"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/spendlog.db"),
		DataDir:      getEnv("DATA_DIR", "data"),

		Timezone: getEnv("TIMEZONE", "Local"),

		TipsURL:           getEnv("TIPS_URL", DefaultTipsURL),
		TipsTimeout:       getEnvDuration("TIPS_TIMEOUT", 10*time.Second),
		TipsRetryAttempts: getEnvInt("TIPS_RETRY_ATTEMPTS", 3),
		TipsCacheTTL:      getEnvDuration("TIPS_CACHE_TTL", 5*time.Minute),

		AMQPURL:       getEnv("AMQP_URL", ""),
		AMQPExchange:  getEnv("AMQP_EXCHANGE", "spendlog"),
		AMQPQueue:     getEnv("AMQP_QUEUE", "sync_expenses"),
		SyncStubDelay: getEnvDuration("SYNC_STUB_DELAY", time.Second),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid.
// It also resolves Timezone into Location.
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RateLimitPerMinute < 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must not be negative", c.RateLimitPerMinute))
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate timezone
	if loc, err := loadLocation(c.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	} else {
		c.Location = loc
	}

	// Validate tips endpoint
	if parsedURL, err := url.Parse(c.TipsURL); err != nil || c.TipsURL == "" {
		errors = append(errors, fmt.Sprintf("invalid tips URL '%s'", c.TipsURL))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid tips URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
	}
	if c.TipsTimeout < 100*time.Millisecond || c.TipsTimeout > 2*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid tips timeout %v: must be between 100ms and 2m", c.TipsTimeout))
	}
	if c.TipsRetryAttempts < 1 || c.TipsRetryAttempts > 10 {
		errors = append(errors, fmt.Sprintf("invalid tips retry attempts %d: must be between 1 and 10", c.TipsRetryAttempts))
	}
	if c.TipsCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid tips cache TTL %v: must not be negative", c.TipsCacheTTL))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SyncStubDelay < 0 || c.SyncStubDelay > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid sync stub delay %v: must be between 0 and 1m", c.SyncStubDelay))
	}

	// Validate logging
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// SyncEnabled reports whether sync publishes to a broker instead of the stub.
func (c *Config) SyncEnabled() bool {
	return c.AMQPURL != ""
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
