package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/masteryhub/pkg/formatting"
	"github.com/JaimeStill/masteryhub/pkg/middleware"
	"github.com/JaimeStill/masteryhub/pkg/openapi"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "MASTERY_CORS_ENABLED",
	Origins:          "MASTERY_CORS_ORIGINS",
	AllowedMethods:   "MASTERY_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "MASTERY_CORS_ALLOWED_HEADERS",
	AllowCredentials: "MASTERY_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "MASTERY_CORS_MAX_AGE",
}

var rateLimitEnv = &middleware.RateLimitEnv{
	RequestsPerSecond: "MASTERY_RATE_LIMIT_RPS",
	Burst:             "MASTERY_RATE_LIMIT_BURST",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "MASTERY_OPENAPI_TITLE",
	Description: "MASTERY_OPENAPI_DESCRIPTION",
	Servers:     "MASTERY_OPENAPI_SERVERS",
}

// APIConfig holds API routing, body limits, CORS, rate limiting, and
// OpenAPI metadata.
type APIConfig struct {
	BasePath    string                     `toml:"base_path"`
	MaxBodySize string                     `toml:"max_body_size"`
	CORS        middleware.CORSConfig      `toml:"cors"`
	RateLimit   middleware.RateLimitConfig `toml:"rate_limit"`
	OpenAPI     openapi.Config             `toml:"openapi"`
}

// MaxBodySizeBytes returns MaxBodySize in bytes.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxBodySize)
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.RateLimit.Finalize(rateLimitEnv); err != nil {
		return fmt.Errorf("rate_limit: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}

	c.CORS.Merge(&overlay.CORS)
	c.RateLimit.Merge(&overlay.RateLimit)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("MASTERY_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("MASTERY_API_MAX_BODY_SIZE"); v != "" {
		c.MaxBodySize = v
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 {
		return fmt.Errorf("base_path must be a single segment like /api: %q", c.BasePath)
	}
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_body_size must be positive")
	}
	return nil
}
