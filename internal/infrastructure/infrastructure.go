// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, cache, metrics, scheduling)
// that domain systems require.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/JaimeStill/masteryhub/internal/config"
	"github.com/JaimeStill/masteryhub/pkg/cache"
	"github.com/JaimeStill/masteryhub/pkg/database"
	"github.com/JaimeStill/masteryhub/pkg/lifecycle"
	"github.com/JaimeStill/masteryhub/pkg/logging"
	"github.com/JaimeStill/masteryhub/pkg/metrics"
	"github.com/JaimeStill/masteryhub/pkg/scheduler"
)

// Infrastructure holds the core systems required by all domain modules.
// Metrics is nil when metrics are disabled; its methods are nil-safe.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Cache     cache.System
	Metrics   *metrics.Metrics
	Scheduler scheduler.System

	logCloser io.Closer
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()

	logger, closer, err := logging.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("logging init failed: %w", err)
	}

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Cache:     cache.New(&cfg.Cache, logger),
		Metrics:   m,
		Scheduler: scheduler.New(logger),
		logCloser: closer,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Cache.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("cache start failed: %w", err)
	}
	if err := i.Scheduler.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("scheduler start failed: %w", err)
	}

	i.Lifecycle.OnShutdown(func() {
		<-i.Lifecycle.Context().Done()
		i.logCloser.Close()
	})

	return nil
}
