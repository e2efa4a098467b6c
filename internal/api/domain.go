package api

import (
	"github.com/JaimeStill/clearcase/internal/categories"
	"github.com/JaimeStill/clearcase/internal/config"
	"github.com/JaimeStill/clearcase/internal/incidents"
	"github.com/JaimeStill/clearcase/internal/organize"
	"github.com/JaimeStill/clearcase/internal/structure"
	"github.com/JaimeStill/clearcase/internal/voice"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Categories *categories.Cache
	Incidents  incidents.System
	Pipeline   *organize.Pipeline
	Organizer  structure.Organizer
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	cache := categories.NewCache(categoryStore(runtime), runtime.Logger)

	var improver voice.Improver
	if runtime.Grammar {
		improver = runtime.Remote
	}
	normalizer := voice.New(improver, runtime.Logger)

	var organizer structure.Organizer
	if runtime.Remote != nil {
		organizer = runtime.Remote
	}

	var parser structure.Parser = structure.Local{}
	if runtime.Organize.Parser == config.ParserRemote && organizer != nil {
		parser = structure.NewRemote(organizer)
	}

	pool := organize.NewPool(runtime.Organize.Workers, runtime.Organize.Queue, runtime.Logger)
	pool.Register(runtime.Lifecycle)

	pipeline := organize.NewPipeline(
		parser,
		pool,
		organize.Config{
			Debounce:  runtime.Organize.DebounceDuration(),
			Timeout:   runtime.Organize.TimeoutDuration(),
			CacheSize: runtime.Organize.CacheSize,
		},
		runtime.Logger,
	)

	incidentsSystem := incidents.New(
		incidents.NewRepository(runtime.Database.Connection(), runtime.Logger),
		incidents.NewProcessor(cache, normalizer, runtime.Logger),
		pipeline,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Categories: cache,
		Incidents:  incidentsSystem,
		Pipeline:   pipeline,
		Organizer:  organizer,
	}
}

// categoryStore selects the mapping store for the configured backend. The
// memory backend keeps the mapping document in the in-process blob store.
func categoryStore(runtime *Runtime) categories.Store {
	if runtime.Categories.Backend == config.BackendRedis && runtime.Cache != nil {
		return categories.NewRedisStore(
			runtime.Cache.Client(),
			runtime.Categories.RedisKey,
			runtime.Logger,
		)
	}
	return categories.NewBlobStore(runtime.Storage, runtime.Categories.BlobKey, runtime.Logger)
}
