package main

import (
	"github.com/JaimeStill/masteryhub/internal/api"
	"github.com/JaimeStill/masteryhub/internal/config"
	"github.com/JaimeStill/masteryhub/internal/infrastructure"
	"github.com/JaimeStill/masteryhub/internal/status"
	"github.com/JaimeStill/masteryhub/pkg/middleware"
	"github.com/JaimeStill/masteryhub/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) *module.Router {
	router := module.NewRouter()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(infra.Logger))
	router.Use(middleware.Recover(infra.Logger))
	router.Use(middleware.CORS(&cfg.API.CORS))

	if infra.Metrics != nil {
		router.HandleNativeHandler("GET "+cfg.Metrics.Path, infra.Metrics.Handler())
	}

	health := status.NewHandler(
		infra.Database,
		infra.Lifecycle,
		cfg.Version,
		cfg.Database.DisplayDsn(),
		cfg.Database.ConnTimeoutDuration(),
		infra.Logger,
	)
	router.RegisterNative(infra.Metrics.Wrap, health.Routes())

	return router
}
