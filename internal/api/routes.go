package api

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/clearcase/internal/organize"
	"github.com/JaimeStill/clearcase/pkg/routes"
)

var errMappingNotFound = errors.New("category mapping not found")

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) []routes.Group {
	groups := []routes.Group{
		domain.Incidents.Handler().Routes(),
		organize.NewHandler(domain.Pipeline, domain.Organizer, runtime.Logger).Routes(),
		newCategoriesHandler(domain.Categories, runtime.Logger).routes(),
	}
	routes.Register(mux, groups...)
	return groups
}
