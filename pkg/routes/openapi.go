package routes

import "github.com/JaimeStill/clearcase/pkg/openapi"

// Describe adds a path entry to spec for every documented route in groups.
// Routes without an OpenAPI operation are skipped.
func Describe(spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		describeGroup(spec, "", group)
	}
}

func describeGroup(spec *openapi.Spec, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		if route.OpenAPI == nil {
			continue
		}

		path := fullPrefix + route.Pattern
		if path == "" {
			path = "/"
		}

		item, ok := spec.Paths[path]
		if !ok {
			item = &openapi.PathItem{}
			spec.Paths[path] = item
		}

		switch route.Method {
		case "GET":
			item.Get = route.OpenAPI
		case "POST":
			item.Post = route.OpenAPI
		case "PUT":
			item.Put = route.OpenAPI
		case "DELETE":
			item.Delete = route.OpenAPI
		}
	}
	for _, child := range group.Children {
		describeGroup(spec, fullPrefix, child)
	}
}
