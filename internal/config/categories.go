package config

import (
	"fmt"
	"os"
)

// Category mapping backends.
const (
	BackendMemory = "memory"
	BackendBlob   = "blob"
	BackendRedis  = "redis"
)

const (
	EnvCategoriesBackend  = "CLEARCASE_CATEGORIES_BACKEND"
	EnvCategoriesBlobKey  = "CLEARCASE_CATEGORIES_BLOB_KEY"
	EnvCategoriesRedisURL = "CLEARCASE_CATEGORIES_REDIS_URL"
	EnvCategoriesRedisKey = "CLEARCASE_CATEGORIES_REDIS_KEY"
)

// CategoriesConfig selects where sticky category mappings are kept. The blob
// backend stores one JSON document under BlobKey in the configured storage
// container; the redis backend keeps one hash field per incident key.
type CategoriesConfig struct {
	Backend  string `toml:"backend"`
	BlobKey  string `toml:"blob_key"`
	RedisURL string `toml:"redis_url"`
	RedisKey string `toml:"redis_key"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *CategoriesConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *CategoriesConfig) Merge(overlay *CategoriesConfig) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.BlobKey != "" {
		c.BlobKey = overlay.BlobKey
	}
	if overlay.RedisURL != "" {
		c.RedisURL = overlay.RedisURL
	}
	if overlay.RedisKey != "" {
		c.RedisKey = overlay.RedisKey
	}
}

func (c *CategoriesConfig) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendMemory
	}
	if c.BlobKey == "" {
		c.BlobKey = "categories/mappings.json"
	}
	if c.RedisKey == "" {
		c.RedisKey = "clearcase:categories"
	}
}

func (c *CategoriesConfig) loadEnv() {
	if v := os.Getenv(EnvCategoriesBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvCategoriesBlobKey); v != "" {
		c.BlobKey = v
	}
	if v := os.Getenv(EnvCategoriesRedisURL); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv(EnvCategoriesRedisKey); v != "" {
		c.RedisKey = v
	}
}

func (c *CategoriesConfig) validate() error {
	switch c.Backend {
	case BackendMemory, BackendBlob:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("redis_url required for backend %q", BackendRedis)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}
