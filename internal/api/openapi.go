package api

import (
	"github.com/JaimeStill/clearcase/internal/config"
	"github.com/JaimeStill/clearcase/internal/incidents"
	"github.com/JaimeStill/clearcase/internal/organize"
	"github.com/JaimeStill/clearcase/pkg/openapi"
	"github.com/JaimeStill/clearcase/pkg/routes"
)

// buildSpec serializes the OpenAPI document for the registered groups. Paths
// are relative to the API base path, which is listed as the server.
func buildSpec(cfg *config.Config, groups []routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(incidents.Schemas())
	spec.Components.AddSchemas(organize.Schemas())
	spec.Components.AddSchemas(categorySchemas())

	routes.Describe(spec, groups...)

	return openapi.MarshalJSON(spec)
}
