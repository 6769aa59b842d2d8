package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/masteryhub/internal/config"
	"github.com/JaimeStill/masteryhub/pkg/handlers"
	"github.com/JaimeStill/masteryhub/pkg/openapi"
	"github.com/JaimeStill/masteryhub/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	groups := make([]routes.Group, 0, len(domain.Systems()))
	for _, sys := range domain.Systems() {
		groups = append(groups, sys.Handler(runtime.MaxBodySize).Routes())
	}

	routes.RegisterWith(mux, runtime.Metrics.Wrap, groups...)

	spec, err := openapi.MarshalJSON(buildSpec(cfg, domain))
	if err != nil {
		return fmt.Errorf("marshal openapi: %w", err)
	}

	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))
	mux.HandleFunc("/", handlers.NotFound)

	return nil
}
