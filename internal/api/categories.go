package api

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/clearcase/internal/categories"
	"github.com/JaimeStill/clearcase/pkg/handlers"
	"github.com/JaimeStill/clearcase/pkg/openapi"
	"github.com/JaimeStill/clearcase/pkg/routes"
)

type categoriesHandler struct {
	cache  *categories.Cache
	logger *slog.Logger
}

func newCategoriesHandler(cache *categories.Cache, logger *slog.Logger) *categoriesHandler {
	return &categoriesHandler{
		cache:  cache,
		logger: logger.With("handler", "categories"),
	}
}

func (h *categoriesHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/categories",
		Routes: []routes.Route{
			{
				Method:  "GET",
				Pattern: "",
				Handler: h.taxonomy,
				OpenAPI: &openapi.Operation{
					Summary: "List categories",
					Tags:    []string{"categories"},
					Responses: map[int]*openapi.Response{
						200: {
							Description: "Category groups",
							Content: map[string]*openapi.MediaType{
								"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("CategoryGroup")}},
							},
						},
					},
				},
			},
			{
				Method:  "GET",
				Pattern: "/mappings/{key}",
				Handler: h.mapping,
				OpenAPI: &openapi.Operation{
					Summary: "Get remembered category",
					Tags:    []string{"categories"},
					Parameters: []*openapi.Parameter{{
						Name:     "key",
						In:       "path",
						Required: true,
						Schema:   &openapi.Schema{Type: "string", Example: "inc_1a2b3c4d5e6f7a8b"},
					}},
					Responses: map[int]*openapi.Response{
						200: openapi.ResponseJSON("Category mapping", "CategoryMapping"),
						404: openapi.ResponseRef("NotFound"),
					},
				},
			},
		},
	}
}

func (h *categoriesHandler) taxonomy(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, categories.Taxonomy())
}

func (h *categoriesHandler) mapping(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	m, ok := h.cache.Lookup(r.Context(), key)
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusNotFound, errMappingNotFound)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, m)
}

func categorySchemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"CategoryGroup": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"name":       {Type: "string"},
				"categories": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"CategoryMapping": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"category":       {Type: "string"},
				"user_confirmed": {Type: "boolean"},
				"updated_at":     {Type: "string", Format: "date-time"},
			},
		},
	}
}
