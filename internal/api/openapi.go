package api

import (
	"maps"

	"github.com/JaimeStill/masteryhub/internal/config"
	"github.com/JaimeStill/masteryhub/pkg/openapi"
)

func buildSpec(cfg *config.Config, domain *Domain) *openapi.Spec {
	spec := openapi.NewSpec(&cfg.API.OpenAPI, cfg.Version)

	for _, sys := range domain.Systems() {
		res := sys.Resource()
		spec.AddTag(res.Label, "Create, list, update, and delete "+res.Plural+".")
		spec.Components.AddSchemas(res.Schemas())
		maps.Copy(spec.Paths, res.Paths(cfg.API.BasePath))
	}

	return spec
}
