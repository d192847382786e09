package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 10, cfg.Worker.Concurrency)
	assert.Equal(t, 3, cfg.Worker.MaxRetries)
	assert.Empty(t, cfg.KnowledgeBase.Path)
	assert.Equal(t, "realitycheck", cfg.Tracing.ServiceName)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("REALITYCHECK_SERVER_PORT", "9090")
	t.Setenv("REALITYCHECK_CACHE_TTL", "15m")
	t.Setenv("REALITYCHECK_WORKER_CONCURRENCY", "4")
	t.Setenv("REALITYCHECK_LOGGER_LEVEL", "DEBUG")
	t.Setenv("REALITYCHECK_KNOWLEDGE_BASE_PATH", "/etc/realitycheck/kb.toml")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 4, cfg.Worker.Concurrency)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "/etc/realitycheck/kb.toml", cfg.KnowledgeBase.Path)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "REALITYCHECK_KNOWLEDGE_BASE_PATH", EnvKey(KnowledgeBasePathKey))
	assert.Equal(t, "REALITYCHECK_SERVER_PORT", EnvKey("server.port"))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "realitycheck.yaml")
	content := `
server:
  port: 7070
redis:
  addr: redis:6379
cache:
  ttl: 1h
worker:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.False(t, cfg.Worker.Enabled)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{URL: "postgres://localhost/realitycheck"},
			Redis:    RedisConfig{Addr: "localhost:6379"},
			Cache:    CacheConfig{Enabled: true, TTL: time.Hour},
			Worker:   WorkerConfig{Enabled: true, Concurrency: 2},
			Logger:   LoggerConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"no database", func(c *Config) { c.Database.URL = "" }, true},
		{"no redis with cache", func(c *Config) { c.Redis.Addr = "" }, true},
		{"no redis without consumers", func(c *Config) {
			c.Redis.Addr = ""
			c.Cache.Enabled = false
			c.Worker.Enabled = false
		}, false},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }, true},
		{"zero concurrency", func(c *Config) { c.Worker.Concurrency = 0 }, true},
		{"bad level", func(c *Config) { c.Logger.Level = "verbose" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
