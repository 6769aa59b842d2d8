package api

import (
	"github.com/JaimeStill/masteryhub/internal/content"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Prompts      content.System
	BaseContents content.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	newSystem := func(res content.Resource) content.System {
		return content.New(
			runtime.Database.ORM(),
			res,
			runtime.Logger,
			content.WithCache(runtime.Cache),
			content.WithMetrics(runtime.Metrics),
		)
	}

	return &Domain{
		Prompts:      newSystem(content.Prompts),
		BaseContents: newSystem(content.BaseContents),
	}
}

// Systems returns every content system in route registration order.
func (d *Domain) Systems() []content.System {
	return []content.System{d.Prompts, d.BaseContents}
}
