package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/robfig/cron/v3"
)

const (
	EnvStatsEnabled  = "MASTERY_STATS_ENABLED"
	EnvStatsSchedule = "MASTERY_STATS_SCHEDULE"
)

// StatsConfig controls the periodic record count refresh that feeds the
// records gauge.
type StatsConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *StatsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *StatsConfig) Merge(overlay *StatsConfig) {
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.Schedule != "" {
		c.Schedule = overlay.Schedule
	}
}

func (c *StatsConfig) loadDefaults() {
	if c.Schedule == "" {
		c.Schedule = "@every 5m"
	}
}

func (c *StatsConfig) loadEnv() {
	if v := os.Getenv(EnvStatsEnabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Enabled = b
		}
	}
	if v := os.Getenv(EnvStatsSchedule); v != "" {
		c.Schedule = v
	}
}

func (c *StatsConfig) validate() error {
	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}
	return nil
}
