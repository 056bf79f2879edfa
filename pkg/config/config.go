package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

type AppConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Port           string

	Database DatabaseConfig

	RateLimitEnabled bool
	RateLimitStore   string
	RedisAddr        string
	RateLimitConfigs map[string]RateLimitConfig

	EnforceHTTPS bool

	TelemetryEnabled bool
	MetricsPort      string
	OTLPEndpoint     string
	LokiURL          string

	SeedDemoData    bool
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver         string
	Path           string
	URL            string
	MigrationsPath string
	LogQueries     bool
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		ServiceName:    "taskapp",
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Port:           "8080",
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			Path:   "database.db",
		},
		RateLimitEnabled: true,
		RateLimitStore:   RateLimitStoreMemory,
		RedisAddr:        "localhost:6379",
		RateLimitConfigs: map[string]RateLimitConfig{
			"GET /tasks": {
				Requests: 100,
				Window:   time.Minute,
			},
			"POST /tasks": {
				Requests: 20,
				Window:   time.Minute,
			},
			"/tasks/:id": {
				Requests: 60,
				Window:   time.Minute,
			},
			"default": {
				Requests: 60,
				Window:   time.Minute,
			},
		},
		EnforceHTTPS:     false,
		TelemetryEnabled: false,
		MetricsPort:      "9091",
		OTLPEndpoint:     "localhost:4317",
		ShutdownTimeout:  10 * time.Second,
	}
}

// Load starts from GetDefaultConfig and applies every environment variable
// that is set.
func Load() *AppConfig {
	config := GetDefaultConfig()

	config.Port = getEnv("PORT", config.Port)

	if env := os.Getenv("APP_ENV"); env != "" {
		config.Environment = env
	}

	if os.Getenv("GIN_MODE") == "release" {
		config.Environment = "production"
		config.EnforceHTTPS = true
	}

	config.Database.Driver = strings.ToLower(getEnv("DB_DRIVER", config.Database.Driver))
	config.Database.Path = getEnv("DATABASE_PATH", config.Database.Path)
	config.Database.URL = os.Getenv("DATABASE_URL")

	if config.Database.URL == "" && os.Getenv("DB_HOST") != "" {
		config.Database.URL = postgresURL(
			os.Getenv("DB_HOST"),
			getEnv("DB_PORT", "5432"),
			os.Getenv("DB_USERNAME"),
			os.Getenv("DB_PASSWORD"),
			getEnv("DB_NAME", "tasks"),
		)
	}

	config.Database.MigrationsPath = getEnv("MIGRATIONS_PATH", "db/migrations/"+config.Database.Driver)
	config.Database.LogQueries = getBool("DB_LOG_QUERIES", !config.IsProduction())

	config.RateLimitEnabled = getBool("RATE_LIMIT_ENABLED", config.RateLimitEnabled)
	config.RateLimitStore = strings.ToLower(getEnv("RATE_LIMIT_STORE", config.RateLimitStore))
	config.RedisAddr = getEnv("REDIS_ADDR", config.RedisAddr)

	config.EnforceHTTPS = getBool("ENFORCE_HTTPS", config.EnforceHTTPS)

	config.TelemetryEnabled = getBool("TELEMETRY_ENABLED", config.TelemetryEnabled)
	config.MetricsPort = getEnv("METRICS_PORT", config.MetricsPort)
	config.OTLPEndpoint = getEnv("OTLP_ENDPOINT", config.OTLPEndpoint)
	config.LokiURL = os.Getenv("LOKI_URL")

	config.SeedDemoData = getBool("SEED_DEMO_DATA", config.SeedDemoData)

	return config
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func (c *AppConfig) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL or DB_HOST is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.RateLimitStore {
	case RateLimitStoreMemory, RateLimitStoreRedis:
	default:
		return fmt.Errorf("unsupported RATE_LIMIT_STORE %q", c.RateLimitStore)
	}

	return nil
}

func postgresURL(host, port, user, password, name string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     host + ":" + port,
		Path:     "/" + name,
		RawQuery: "sslmode=disable",
	}

	return u.String()
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func getBool(key string, fallback bool) bool {
	value := os.Getenv(key)

	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)

	if err != nil {
		return fallback
	}

	return parsed
}
