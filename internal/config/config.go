package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App     AppConfig
	Storage StorageConfig
	Logger  LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Host                  string
	Port                  string
	RequestTimeoutSeconds int
}

// StorageConfig selects and parameterizes the metric store backend.
type StorageConfig struct {
	Backend    string // "memory" or "sqlite"
	SQLitePath string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level      int
	File       string
	Folder     string
	MaxSamples int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	backend := getEnv("STORAGE_BACKEND", "memory")
	if backend != "memory" && backend != "sqlite" {
		return nil, fmt.Errorf("invalid STORAGE_BACKEND: %s", backend)
	}

	cfg := &Config{
		App: AppConfig{
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Storage: StorageConfig{
			Backend:    backend,
			SQLitePath: getEnv("SQLITE_PATH", "../db/metrics.db"),
		},
		Logger: LoggerConfig{
			Level:      getEnvAsInt("LOG_LEVEL", 3),
			File:       getEnv("LOG_FILE", "webService.log"),
			Folder:     getEnv("LOG_FOLDER", ".."+string(os.PathSeparator)+"log"),
			MaxSamples: getEnvAsInt("LATENCY_MAX_SAMPLES", 10000),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
