// Package config provides configuration management for the envgroom CLI.
package config

import (
	"fmt"
)

// Config holds the settings shared by every envgroom command.
type Config struct {
	// DatabaseURL locates rule and audit storage (sqlite:// or postgres://).
	DatabaseURL string

	// Profile is the default profile commands operate on when --profile is
	// not given.
	Profile string

	// Heuristics enables the built-in seed rules during planning.
	Heuristics bool

	// HistoryLimit caps how many audit entries the history command shows
	// by default.
	HistoryLimit int
}

// Default returns configuration with default values.
func Default() *Config {
	return &Config{
		DatabaseURL:  "sqlite://envgroom.db",
		Profile:      "default",
		Heuristics:   true,
		HistoryLimit: 10,
	}
}

// Validate checks invariants after all sources are merged.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("database_url must be set")
	}
	if c.Profile == "" {
		return fmt.Errorf("profile must not be empty")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive, got %d", c.HistoryLimit)
	}
	return nil
}
