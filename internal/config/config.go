// Package config loads TestZeus connection settings from the environment,
// with an optional global config file supplying defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Environment variable names read at startup.
const (
	EnvEmail    = "TESTZEUS_EMAIL"
	EnvPassword = "TESTZEUS_PASSWORD"
	EnvBaseURL  = "TESTZEUS_BASE_URL"
	EnvTimeout  = "TESTZEUS_TIMEOUT"
)

// Config holds everything needed to talk to the TestZeus API.
type Config struct {
	Email    string        `yaml:"email,omitempty"`
	Password string        `yaml:"-"`
	BaseURL  string        `yaml:"base_url,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
}

// HasCredentials reports whether both email and password are set.
func (c *Config) HasCredentials() bool {
	return c.Email != "" && c.Password != ""
}

// Validate checks that credentials are complete enough to authenticate.
// A config with no password is valid: the server starts unauthenticated
// and the authenticate tool supplies credentials later. An email alone is
// also fine, since the password may arrive the same way.
func (c *Config) Validate() error {
	if c.Password != "" && c.Email == "" {
		return fmt.Errorf("%s is set but %s is not", EnvPassword, EnvEmail)
	}
	return nil
}

// Load builds the effective config: global config file values first,
// overridden by environment variables. The password only ever comes from
// the environment.
func Load() (*Config, error) {
	cfg, err := LoadGlobal()
	if err != nil {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	if v := os.Getenv(EnvEmail); v != "" {
		cfg.Email = v
	}
	cfg.Password = os.Getenv(EnvPassword)
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", EnvTimeout, err)
		}
		if d <= 0 {
			return nil, errors.New(EnvTimeout + " must be positive")
		}
		cfg.Timeout = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
