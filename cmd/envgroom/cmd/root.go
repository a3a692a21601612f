package cmd

import (
	"fmt"

	"github.com/envgroom/envgroom/internal/core/config"
	"github.com/envgroom/envgroom/internal/core/db"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var (
	configFile string
	dbURL      string
	profile    string
)

var rootCmd = &cobra.Command{
	Use:   "envgroom",
	Short: "envgroom rule-based environment variable renamer",
	Long: `envgroom standardizes environment variable names through user-defined
rules (exclusion, naming, prefix, transform) without ever touching or
exposing the associated values.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "database connection URL (sqlite://path or postgres://...)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "profile to operate on")
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig merges file/env configuration with the persistent flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if profile != "" {
		cfg.Profile = profile
	}
	return cfg, nil
}

// openDatabase connects using the merged configuration.
func openDatabase(cfg *config.Config) (*sqlx.DB, error) {
	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}
