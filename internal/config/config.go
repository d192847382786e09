// Package config loads service configuration from defaults, an optional
// realitycheck.yaml and REALITYCHECK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. REALITYCHECK_SERVER_PORT
const EnvPrefix = "REALITYCHECK"

// KnowledgeBasePathKey is the config key for the knowledge base file
const KnowledgeBasePathKey = "knowledge_base.path"

var envKeyReplacer = strings.NewReplacer(".", "_")

// EnvKey returns the environment variable that overrides a config key,
// e.g. "knowledge_base.path" -> REALITYCHECK_KNOWLEDGE_BASE_PATH.
func EnvKey(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(envKeyReplacer.Replace(key))
}

// Config is the full service configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Cache         CacheConfig
	Worker        WorkerConfig
	KnowledgeBase KnowledgeBaseConfig
	Logger        LoggerConfig
	Tracing       TracingConfig
}

// ServerConfig is the HTTP listener configuration
type ServerConfig struct {
	Port int
}

// DatabaseConfig is the PostgreSQL connection configuration
type DatabaseConfig struct {
	URL string
}

// RedisConfig is shared by the result cache and the task queue
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig controls the analysis result cache
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// WorkerConfig controls the background analysis worker
type WorkerConfig struct {
	Enabled     bool
	Concurrency int
	MaxRetries  int
}

// KnowledgeBaseConfig points at an ingredient/brand TOML file.
// An empty path uses the embedded default.
type KnowledgeBaseConfig struct {
	Path string
}

// LoggerConfig is the slog configuration
type LoggerConfig struct {
	Level string
}

// TracingConfig is the OpenTelemetry configuration
type TracingConfig struct {
	Enabled     bool
	ServiceName string
}

// Load reads configuration. When path is empty, realitycheck.yaml is looked up
// in the working directory, ./config and /etc/realitycheck; a missing file is not
// an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("realitycheck")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/realitycheck/")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Server.Port = v.GetInt("server.port")
	cfg.Database.URL = v.GetString("database.url")

	cfg.Redis.Addr = v.GetString("redis.addr")
	cfg.Redis.Password = v.GetString("redis.password")
	cfg.Redis.DB = v.GetInt("redis.db")

	cfg.Cache.Enabled = v.GetBool("cache.enabled")
	cfg.Cache.TTL = v.GetDuration("cache.ttl")

	cfg.Worker.Enabled = v.GetBool("worker.enabled")
	cfg.Worker.Concurrency = v.GetInt("worker.concurrency")
	cfg.Worker.MaxRetries = v.GetInt("worker.max_retries")

	cfg.KnowledgeBase.Path = v.GetString(KnowledgeBasePathKey)
	cfg.Logger.Level = strings.ToLower(v.GetString("logger.level"))

	cfg.Tracing.Enabled = v.GetBool("tracing.enabled")
	cfg.Tracing.ServiceName = v.GetString("tracing.service_name")

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)

	v.SetDefault("database.url", "host=localhost port=5432 user=postgres password=postgres dbname=realitycheck sslmode=disable")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "24h")

	v.SetDefault("worker.enabled", true)
	v.SetDefault("worker.concurrency", 10)
	v.SetDefault("worker.max_retries", 3)

	v.SetDefault(KnowledgeBasePathKey, "")
	v.SetDefault("logger.level", "info")

	v.SetDefault("tracing.enabled", true)
	v.SetDefault("tracing.service_name", "realitycheck")
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if cfg.Redis.Addr == "" && (cfg.Cache.Enabled || cfg.Worker.Enabled) {
		return fmt.Errorf("redis.addr is required when the cache or worker is enabled")
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if cfg.Worker.Enabled && cfg.Worker.Concurrency <= 0 {
		return fmt.Errorf("worker.concurrency must be positive, got %d", cfg.Worker.Concurrency)
	}
	if cfg.Worker.MaxRetries < 0 {
		return fmt.Errorf("worker.max_retries must not be negative")
	}
	if _, err := parseLevel(cfg.Logger.Level); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured log level
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Logger.Level)
	return level
}

func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logger.level %q is not one of debug, info, warn, error", level)
	}
}
