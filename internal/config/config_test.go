package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, "production", cfg.AppEnv)
	assert.False(t, cfg.IsLocal())
	assert.True(t, cfg.MigrateOnStart)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowOrigins)
	assert.Equal(t, 24*time.Hour, cfg.Security.JWTAccessTTL)
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestLoadTrustedProxies(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.10")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.10"}, cfg.Server.TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/99")
	_, err = Load()
	assert.ErrorContains(t, err, "TRUSTED_PROXIES")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ENV", "local")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "2s")
	t.Setenv("MIGRATE_ON_START", "no")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://pos.example.com, ,https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsLocal())
	assert.Equal(t, ":9090", cfg.Server.Addr())
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	assert.False(t, cfg.MigrateOnStart)
	assert.Equal(t, 50, cfg.Security.RateLimitRPS)
	assert.Equal(t, []string{"https://pos.example.com", "https://admin.example.com"}, cfg.Server.CORSAllowOrigins)
}

func TestLoadRejectsPort(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SERVER_PORT", "70000")
	_, err := Load()
	assert.ErrorContains(t, err, "SERVER_PORT")
}

func TestLoadDotEnvUp(t *testing.T) {
	const key = "MYPOS_DOTENV_PROBE"
	t.Cleanup(func() { os.Unsetenv(key) })

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte(key+"=found\n"), 0o600))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	path := LoadDotEnvUp(3)
	assert.Equal(t, ".env", filepath.Base(path))
	assert.Equal(t, "found", os.Getenv(key))
}
