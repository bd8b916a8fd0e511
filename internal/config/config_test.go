package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "SustainaWatt.db", cfg.Database.SQLitePath)
	assert.Equal(t, "file", cfg.Models.Source)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.False(t, cfg.Auth.EnforceUsernameFormat)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.Mongo.URI)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "8081"
database:
  driver: postgres
  postgres_dsn: postgres://file/db
redis:
  addr: redis:6379
auth:
  bcrypt_cost: 12
  enforce_username_format: true
logging:
  level: debug
  format: json
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("POSTGRES_DSN", "postgres://env/db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://env/db", cfg.Database.PostgresDSN)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.True(t, cfg.Auth.EnforceUsernameFormat)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestLoad_BadBcryptCost(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("BCRYPT_COST", "lots")

	_, err := Load()
	assert.ErrorContains(t, err, "BCRYPT_COST")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errSub string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "Driver"},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = "postgres" }, "PostgresDSN"},
		{"remote without url", func(c *Config) { c.Models.Source = "remote" }, "ServiceURL"},
		{"minio models without endpoint", func(c *Config) { c.Models.Source = "minio" }, "minio endpoint"},
		{"cost too low", func(c *Config) { c.Auth.BcryptCost = 1 }, "BcryptCost"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "Level"},
		{"non numeric port", func(c *Config) { c.Port = "http" }, "Port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.errSub == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errSub)
		})
	}
}
