package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/clearcase/internal/remote"
)

const (
	EnvRemoteBaseURL = "CLEARCASE_REMOTE_BASE_URL"
	EnvRemoteToken   = "CLEARCASE_REMOTE_TOKEN"
	EnvRemoteTimeout = "CLEARCASE_REMOTE_TIMEOUT"
	EnvRemoteGrammar = "CLEARCASE_REMOTE_GRAMMAR"
)

// RemoteConfig locates the hosted organize and grammar functions. An empty
// BaseURL disables them and every caller falls back to local processing.
type RemoteConfig struct {
	BaseURL string `toml:"base_url"`
	Token   string `toml:"token"`
	Timeout string `toml:"timeout"`
	Grammar bool   `toml:"grammar"`
}

// Enabled reports whether a base URL is configured.
func (c *RemoteConfig) Enabled() bool {
	return c.BaseURL != ""
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *RemoteConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Client returns the remote client settings.
func (c *RemoteConfig) Client() remote.Config {
	return remote.Config{
		BaseURL: c.BaseURL,
		Token:   c.Token,
		Timeout: c.TimeoutDuration(),
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *RemoteConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. Grammar always applies.
func (c *RemoteConfig) Merge(overlay *RemoteConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	c.Grammar = overlay.Grammar
}

func (c *RemoteConfig) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *RemoteConfig) loadEnv() {
	if v := os.Getenv(EnvRemoteBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvRemoteToken); v != "" {
		c.Token = v
	}
	if v := os.Getenv(EnvRemoteTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvRemoteGrammar); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Grammar = b
		}
	}
}

func (c *RemoteConfig) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.Grammar && c.BaseURL == "" {
		return fmt.Errorf("grammar requires base_url")
	}
	return nil
}
