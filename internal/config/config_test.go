package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.App.Host)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 3, cfg.Logger.Level)
	assert.Equal(t, 10000, cfg.Logger.MaxSamples)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9191")
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/test.db")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "9191", cfg.App.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/test.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 5, cfg.App.RequestTimeoutSeconds)
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")

	_, err := Load()
	assert.Error(t, err, "Unsupported backend should be rejected at load time")
}
