// Package config loads the service configuration from config.toml, an
// optional environment overlay, a .env file, and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/masteryhub/pkg/cache"
	"github.com/JaimeStill/masteryhub/pkg/database"
	"github.com/JaimeStill/masteryhub/pkg/logging"
	"github.com/JaimeStill/masteryhub/pkg/metrics"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvMasteryEnv             = "MASTERY_ENV"
	EnvMasteryShutdownTimeout = "MASTERY_SHUTDOWN_TIMEOUT"
	EnvMasteryVersion         = "MASTERY_VERSION"
)

var databaseEnv = &database.Env{
	URL:             "DATABASE_URL",
	Host:            "MASTERY_DB_HOST",
	Port:            "MASTERY_DB_PORT",
	Name:            "MASTERY_DB_NAME",
	User:            "MASTERY_DB_USER",
	Password:        "MASTERY_DB_PASSWORD",
	SSLMode:         "MASTERY_DB_SSL_MODE",
	MaxOpenConns:    "MASTERY_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "MASTERY_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "MASTERY_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "MASTERY_DB_CONN_TIMEOUT",
	LogLevel:        "MASTERY_DB_LOG_LEVEL",
}

var cacheEnv = &cache.Env{
	Enabled:  "MASTERY_CACHE_ENABLED",
	Addr:     "MASTERY_CACHE_ADDR",
	Password: "MASTERY_CACHE_PASSWORD",
	DB:       "MASTERY_CACHE_DB",
	TTL:      "MASTERY_CACHE_TTL",
	Prefix:   "MASTERY_CACHE_PREFIX",
}

var loggingEnv = &logging.Env{
	Level:  "MASTERY_LOG_LEVEL",
	Format: "MASTERY_LOG_FORMAT",
	File:   "MASTERY_LOG_FILE",
}

var metricsEnv = &metrics.Env{
	Enabled:   "MASTERY_METRICS_ENABLED",
	Path:      "MASTERY_METRICS_PATH",
	Namespace: "MASTERY_METRICS_NAMESPACE",
}

// Config is the root configuration for the Mastery Hub service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Cache           cache.Config    `toml:"cache"`
	Logging         logging.Config  `toml:"logging"`
	Metrics         metrics.Config  `toml:"metrics"`
	API             APIConfig       `toml:"api"`
	Stats           StatsConfig     `toml:"stats"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the MASTERY_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvMasteryEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads .env (if present) into the environment, then the base config
// (if present), applies any environment overlay, and finalizes all values.
// Variables already set in the environment take precedence over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Cache.Merge(&overlay.Cache)
	c.Logging.Merge(&overlay.Logging)
	c.Metrics.Merge(&overlay.Metrics)
	c.API.Merge(&overlay.API)
	c.Stats.Merge(&overlay.Stats)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Cache.Finalize(cacheEnv); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Metrics.Finalize(metricsEnv); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Stats.Finalize(); err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "1.0.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvMasteryShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvMasteryVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvMasteryEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
