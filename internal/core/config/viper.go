package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load merges configuration from file and environment using viper.
// CLI flags > environment > config file > defaults precedence; flag
// overrides are applied by the command layer after Load returns.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("database_url", defaults.DatabaseURL)
	v.SetDefault("profile", defaults.Profile)
	v.SetDefault("heuristics", defaults.Heuristics)
	v.SetDefault("history_limit", defaults.HistoryLimit)

	// Bind environment variables with ENVGROOM_ prefix
	v.SetEnvPrefix("ENVGROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Security check: config files carry settings, never variables.
	// Snapshots enter only through --env-file on plan/apply.
	if v.IsSet("variables") || v.IsSet("snapshot") {
		return nil, fmt.Errorf("variable values not allowed in config files (pass --env-file to plan/apply)")
	}

	cfg := &Config{
		DatabaseURL:  v.GetString("database_url"),
		Profile:      v.GetString("profile"),
		Heuristics:   v.GetBool("heuristics"),
		HistoryLimit: v.GetInt("history_limit"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
