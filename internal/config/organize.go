package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Structured parser modes.
const (
	ParserLocal  = "local"
	ParserRemote = "remote"
)

const (
	EnvOrganizeDebounce = "CLEARCASE_ORGANIZE_DEBOUNCE"
	EnvOrganizeTimeout  = "CLEARCASE_ORGANIZE_TIMEOUT"
	EnvOrganizeWorkers  = "CLEARCASE_ORGANIZE_WORKERS"
	EnvOrganizeQueue    = "CLEARCASE_ORGANIZE_QUEUE"
	EnvOrganizeParser   = "CLEARCASE_ORGANIZE_PARSER"
	EnvOrganizeCache    = "CLEARCASE_ORGANIZE_CACHE_SIZE"
)

// OrganizeConfig tunes the organize pipeline and its worker pool.
type OrganizeConfig struct {
	Debounce string `toml:"debounce"`
	Timeout  string `toml:"timeout"`
	Workers  int    `toml:"workers"`
	Queue    int    `toml:"queue"`
	Parser   string `toml:"parser"`
	// CacheSize bounds the structured parse cache.
	CacheSize int `toml:"cache_size"`
}

// DebounceDuration returns Debounce as a time.Duration.
func (c *OrganizeConfig) DebounceDuration() time.Duration {
	d, _ := time.ParseDuration(c.Debounce)
	return d
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *OrganizeConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *OrganizeConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *OrganizeConfig) Merge(overlay *OrganizeConfig) {
	if overlay.Debounce != "" {
		c.Debounce = overlay.Debounce
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.Queue != 0 {
		c.Queue = overlay.Queue
	}
	if overlay.Parser != "" {
		c.Parser = overlay.Parser
	}
	if overlay.CacheSize != 0 {
		c.CacheSize = overlay.CacheSize
	}
}

func (c *OrganizeConfig) loadDefaults() {
	if c.Debounce == "" {
		c.Debounce = "500ms"
	}
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.Queue == 0 {
		c.Queue = 32
	}
	if c.Parser == "" {
		c.Parser = ParserLocal
	}
	if c.CacheSize == 0 {
		c.CacheSize = 256
	}
}

func (c *OrganizeConfig) loadEnv() {
	if v := os.Getenv(EnvOrganizeDebounce); v != "" {
		c.Debounce = v
	}
	if v := os.Getenv(EnvOrganizeTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvOrganizeWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv(EnvOrganizeQueue); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Queue = n
		}
	}
	if v := os.Getenv(EnvOrganizeParser); v != "" {
		c.Parser = v
	}
	if v := os.Getenv(EnvOrganizeCache); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CacheSize = n
		}
	}
}

func (c *OrganizeConfig) validate() error {
	if d, err := time.ParseDuration(c.Debounce); err != nil || d <= 0 {
		return fmt.Errorf("invalid debounce: %q", c.Debounce)
	}
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout: %q", c.Timeout)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive: %d", c.Workers)
	}
	if c.Queue < 0 {
		return fmt.Errorf("queue must not be negative: %d", c.Queue)
	}
	if c.CacheSize < 1 {
		return fmt.Errorf("cache_size must be positive: %d", c.CacheSize)
	}
	if c.Parser != ParserLocal && c.Parser != ParserRemote {
		return fmt.Errorf("unknown parser %q", c.Parser)
	}
	return nil
}
