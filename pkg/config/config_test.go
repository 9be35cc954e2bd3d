package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_MAX_OPEN_CONNS", "DB_CONN_MAX_LIFETIME", "AUTO_MIGRATE"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 100, cfg.Database.MaxOpenConns)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.True(t, cfg.AutoMigrate)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_CONN_MAX_LIFETIME", "15m")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("DB_MAX_IDLE_CONNS", "-3")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.Equal(t, 15*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PRINTSHOP_TEST_KEY=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("PRINTSHOP_TEST_KEY") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", GetEnv("PRINTSHOP_TEST_KEY", "fallback"))

	assert.Error(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}
