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
	t.Setenv("DATABASE_URL", "postgres://localhost/tradeboard")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.LogMode)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.LowStockThreshold)
	assert.Equal(t, "SLL", cfg.Currency)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.CacheEnabled())
}

func TestLoadReadsEnvFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	// godotenv never overrides variables that are already set, so make sure
	// the ones under test start out empty and are restored afterwards.
	for _, k := range []string{"DATABASE_URL", "REDIS_ADDR", "STATS_CACHE_TTL"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	path := filepath.Join(t.TempDir(), ".env")
	content := "DATABASE_URL=postgres://db/app\nREDIS_ADDR=localhost:6379\nSTATS_CACHE_TTL=30s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://db/app", cfg.DatabaseURL)
	assert.Equal(t, 30*time.Second, cfg.StatsCacheTTL)
	assert.True(t, cfg.CacheEnabled())
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tradeboard")
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{JWTTTL: time.Hour, LowStockThreshold: -1}
	assert.Error(t, cfg.Validate())

	cfg = &Config{JWTTTL: time.Hour, StatsCacheTTL: -time.Second}
	assert.Error(t, cfg.Validate())

	cfg = &Config{JWTTTL: 0}
	assert.Error(t, cfg.Validate())

	cfg = &Config{JWTTTL: time.Hour, LowStockThreshold: 5}
	assert.NoError(t, cfg.Validate())
}
