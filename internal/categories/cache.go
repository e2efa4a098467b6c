package categories

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Mapping is the category remembered for one incident key.
type Mapping struct {
	Category      string    `json:"category"`
	UserConfirmed bool      `json:"user_confirmed"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Store persists category mappings. A store may be shared by several
// processes, so the first-write-wins rule for automatic mappings is enforced
// by PutIfAbsent rather than by the caller.
type Store interface {
	// Get returns the mapping stored under key. Malformed entries read as
	// missing.
	Get(ctx context.Context, key string) (Mapping, bool, error)
	// Put writes m under key, replacing any existing mapping.
	Put(ctx context.Context, key string, m Mapping) error
	// PutIfAbsent writes m only when key has no mapping. It returns the
	// mapping stored under key afterwards and whether m was written.
	PutIfAbsent(ctx context.Context, key string, m Mapping) (Mapping, bool, error)
}

// Cache keeps incident categories stable across edits. Automatic
// classifications are first-write-wins; confirmed user choices always
// overwrite and are never replaced by automatic ones. Reads go to the Store so
// writes from other processes are seen; the last mapping read for each key is
// kept as a fallback for when the Store is unreachable. A Cache is safe for
// concurrent use.
type Cache struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	mappings map[string]Mapping
}

// NewCache creates a cache backed by store.
func NewCache(store Store, logger *slog.Logger) *Cache {
	return &Cache{
		store:    store,
		logger:   logger.With("system", "categories"),
		now:      time.Now,
		mappings: make(map[string]Mapping),
	}
}

// Get returns the category stored for key. A store that cannot be read falls
// back to the last mapping seen for key.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	m, ok := c.Lookup(ctx, key)
	if !ok {
		return "", false
	}
	return m.Category, true
}

// Lookup returns the full mapping stored for key.
func (c *Cache) Lookup(ctx context.Context, key string) (Mapping, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("category mapping unavailable", "key", key, "error", err)
		m, ok = c.mappings[key]
		return m, ok
	}

	if ok {
		c.mappings[key] = m
	}
	return m, ok
}

// Save records category for key. An unconfirmed write only lands when the
// store has no mapping for key yet. A confirmed write always replaces the
// existing mapping. Save reports whether the mapping was written.
func (c *Cache) Save(ctx context.Context, key, category string, userConfirmed bool) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return false, fmt.Errorf("%w: empty", ErrInvalidCategory)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	m := Mapping{
		Category:      category,
		UserConfirmed: userConfirmed,
		UpdatedAt:     c.now().UTC(),
	}

	if !userConfirmed {
		stored, written, err := c.store.PutIfAbsent(ctx, key, m)
		if err != nil {
			return false, fmt.Errorf("save category mapping: %w", err)
		}
		c.mappings[key] = stored
		if written {
			c.logger.Debug("category mapping saved", "key", key, "category", category, "user_confirmed", false)
		}
		return written, nil
	}

	if err := c.store.Put(ctx, key, m); err != nil {
		return false, fmt.Errorf("save category mapping: %w", err)
	}

	c.mappings[key] = m
	c.logger.Debug("category mapping saved", "key", key, "category", category, "user_confirmed", true)
	return true, nil
}
