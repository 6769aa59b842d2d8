package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/masteryhub/pkg/formatting"
)

const (
	EnvServerHost              = "MASTERY_SERVER_HOST"
	EnvServerPort              = "MASTERY_SERVER_PORT"
	EnvServerReadTimeout       = "MASTERY_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "MASTERY_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "MASTERY_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "MASTERY_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout   = "MASTERY_SERVER_SHUTDOWN_TIMEOUT"
	EnvServerMaxHeaderSize     = "MASTERY_SERVER_MAX_HEADER_SIZE"
)

// ServerConfig holds the listen address and connection limits of the HTTP server.
// Timeouts are Go duration strings; MaxHeaderSize is a byte size such as "64KB".
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
	MaxHeaderSize     string `toml:"max_header_size"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return durationOf(c.ReadTimeout)
}

func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return durationOf(c.ReadHeaderTimeout)
}

func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return durationOf(c.WriteTimeout)
}

func (c *ServerConfig) IdleTimeoutDuration() time.Duration {
	return durationOf(c.IdleTimeout)
}

func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return durationOf(c.ShutdownTimeout)
}

// MaxHeaderBytes returns MaxHeaderSize in bytes, 0 when unset.
func (c *ServerConfig) MaxHeaderBytes() int {
	n, _ := formatting.ParseBytes(c.MaxHeaderSize)
	return int(n)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites fields set in overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for dst, src := range c.stringFields(overlay) {
		if *src != "" {
			*dst = *src
		}
	}
}

// stringFields pairs each string field of c with the same field of other.
func (c *ServerConfig) stringFields(other *ServerConfig) map[*string]*string {
	return map[*string]*string{
		&c.ReadTimeout:       &other.ReadTimeout,
		&c.ReadHeaderTimeout: &other.ReadHeaderTimeout,
		&c.WriteTimeout:      &other.WriteTimeout,
		&c.IdleTimeout:       &other.IdleTimeout,
		&c.ShutdownTimeout:   &other.ShutdownTimeout,
		&c.MaxHeaderSize:     &other.MaxHeaderSize,
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8000
	}
	setDefault(&c.ReadTimeout, "1m")
	setDefault(&c.ReadHeaderTimeout, "10s")
	setDefault(&c.WriteTimeout, "30s")
	setDefault(&c.IdleTimeout, "2m")
	setDefault(&c.ShutdownTimeout, "30s")
	setDefault(&c.MaxHeaderSize, "64KB")
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}

	overrides := map[string]*string{
		EnvServerReadTimeout:       &c.ReadTimeout,
		EnvServerReadHeaderTimeout: &c.ReadHeaderTimeout,
		EnvServerWriteTimeout:      &c.WriteTimeout,
		EnvServerIdleTimeout:       &c.IdleTimeout,
		EnvServerShutdownTimeout:   &c.ShutdownTimeout,
		EnvServerMaxHeaderSize:     &c.MaxHeaderSize,
	}
	for name, field := range overrides {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	durations := []struct {
		name  string
		value string
	}{
		{"read_timeout", c.ReadTimeout},
		{"read_header_timeout", c.ReadHeaderTimeout},
		{"write_timeout", c.WriteTimeout},
		{"idle_timeout", c.IdleTimeout},
		{"shutdown_timeout", c.ShutdownTimeout},
	}
	for _, d := range durations {
		if v, err := time.ParseDuration(d.value); err != nil || v < 0 {
			return fmt.Errorf("invalid %s: %q", d.name, d.value)
		}
	}

	if _, err := formatting.ParseBytes(c.MaxHeaderSize); err != nil {
		return fmt.Errorf("invalid max_header_size: %w", err)
	}
	return nil
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func durationOf(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
