// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/masteryhub/internal/config"
	"github.com/JaimeStill/masteryhub/internal/infrastructure"
	"github.com/JaimeStill/masteryhub/pkg/middleware"
	"github.com/JaimeStill/masteryhub/pkg/module"
)

// NewModule creates the API module with all domain handlers and rate
// limiting, and schedules the record count job when stats are enabled.
// CORS is applied by the top-level router.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg, runtime); err != nil {
		return nil, err
	}

	if cfg.Stats.Enabled {
		if err := scheduleStats(runtime, domain, cfg.Stats.Schedule); err != nil {
			return nil, err
		}
	}

	m := module.New(cfg.API.BasePath, mux)
	if cfg.API.RateLimit.Enabled() {
		m.Use(middleware.RateLimit(&cfg.API.RateLimit, runtime.Logger))
	}

	return m, nil
}
