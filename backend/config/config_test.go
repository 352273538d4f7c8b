package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SECRET_KEY", "")

	_, err := Load("")
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SECRET_KEY", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Secret)
	assert.True(t, cfg.Production())
	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, "postboard.sid", cfg.Session.CookieName)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "public/images", cfg.Upload.Dir)
	assert.Equal(t, "/images", cfg.Upload.URLPrefix)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("POSTBOARD_HTTP_PORT", "8081")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte(`
db:
  driver: mysql
  name: board
session:
  store: memory
  ttl: 30m
upload:
  url_prefix: /uploads/
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, "board", cfg.DB.Name)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "/uploads", cfg.Upload.URLPrefix)
	assert.Equal(t, "0.0.0.0:8081", cfg.Addr())
}
