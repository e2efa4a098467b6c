// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, cache) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/clearcase/internal/config"
	"github.com/JaimeStill/clearcase/pkg/cache"
	"github.com/JaimeStill/clearcase/pkg/database"
	"github.com/JaimeStill/clearcase/pkg/lifecycle"
	"github.com/JaimeStill/clearcase/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Storage is blob storage when the category backend is "blob" and an
// in-memory store otherwise. Cache is nil unless the backend is "redis".
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Cache     cache.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	infra := &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
	}

	switch cfg.Categories.Backend {
	case config.BackendBlob:
		store, err := storage.New(&cfg.Storage, logger)
		if err != nil {
			return nil, fmt.Errorf("storage init failed: %w", err)
		}
		infra.Storage = store
	default:
		infra.Storage = storage.NewMemory(logger)
	}

	if cfg.Categories.Backend == config.BackendRedis {
		c, err := cache.New(cfg.Categories.RedisURL, logger)
		if err != nil {
			return nil, fmt.Errorf("cache init failed: %w", err)
		}
		infra.Cache = c
	}

	return infra, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if i.Cache != nil {
		if err := i.Cache.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("cache start failed: %w", err)
		}
	}
	return nil
}
