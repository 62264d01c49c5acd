package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse(`
[server]
http_port = 9090

[database]
host = "db"
password = "secret"

[redis]
enabled = true
addr = "redis:6379"
catalog_ttl_seconds = 30

[scheduling]
default_timezone = "Europe/Moscow"
`)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30, cfg.Redis.CatalogTTLSeconds)
	assert.Equal(t, "Europe/Moscow", cfg.Scheduling.DefaultTimezone)
	assert.Equal(t, 1, cfg.Scheduling.ConflictRetries)
	assert.Equal(t, "host=db port=5432 user=postgres password=secret dbname=appointments sslmode=disable", cfg.Database.DSN())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "bad port", data: "[server]\nhttp_port = 0"},
		{name: "negative retries", data: "[scheduling]\nconflict_retries = -1"},
		{name: "retries above one", data: "[scheduling]\nconflict_retries = 2"},
		{name: "redis without addr", data: "[redis]\nenabled = true\naddr = \"\""},
		{name: "rate limit without burst", data: "[server]\nrate_limit_rps = 5\nrate_limit_burst = 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := Parse("[server\n")
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[logs]\nlevel = \"debug\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logs.Level)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}
