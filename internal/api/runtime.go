package api

import (
	"github.com/JaimeStill/clearcase/internal/config"
	"github.com/JaimeStill/clearcase/internal/infrastructure"
	"github.com/JaimeStill/clearcase/internal/remote"
	"github.com/JaimeStill/clearcase/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration. Remote is
// nil when no remote base URL is configured.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Categories config.CategoriesConfig
	Organize   config.OrganizeConfig
	Remote     *remote.Client
	Grammar    bool
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")

	var client *remote.Client
	if cfg.Remote.Enabled() {
		client = remote.New(cfg.Remote.Client(), logger)
	}

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Storage:   infra.Storage,
			Cache:     infra.Cache,
		},
		Pagination: cfg.API.Pagination,
		Categories: cfg.Categories,
		Organize:   cfg.Organize,
		Remote:     client,
		Grammar:    cfg.Remote.Grammar && client != nil,
	}
}
