// Package config loads the demoforge configuration file: Snowflake
// connection settings plus defaults applied to every run.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/demoforgehq/demoforge/internal/allocator"
	"github.com/demoforgehq/demoforge/internal/database/snowflake"
	"github.com/demoforgehq/demoforge/internal/engine"
)

type Config struct {
	Snowflake snowflake.Config `yaml:"snowflake"`
	Defaults  RunDefaults      `yaml:"defaults"`
}

// RunDefaults seeds engine options; command-line flags override them.
type RunDefaults struct {
	Organization    string  `yaml:"organization"`
	OverlapRatio    float64 `yaml:"overlap_ratio"`
	RecordsPerTable int     `yaml:"records_per_table"`
	LanguageCode    string  `yaml:"language_code"`
	SemanticView    bool    `yaml:"semantic_view"`
	SearchIndex     bool    `yaml:"search_index"`
	Agent           bool    `yaml:"agent"`
	History         bool    `yaml:"history"`
}

var globalConfig *Config

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "demoforge.yaml"
	}
	return filepath.Join(home, ".demoforge", "config.yaml")
}

// Init initializes the configuration from the specified file, writing a
// commented default file when none exists.
func Init(configFile string) error {
	globalConfig = &Config{
		Defaults: RunDefaults{
			OverlapRatio:    allocator.DefaultOverlapRatio,
			RecordsPerTable: engine.DefaultRecordsPerTable,
			LanguageCode:    "en",
			SemanticView:    true,
			SearchIndex:     true,
			Agent:           true,
			History:         true,
		},
	}

	configDir := filepath.Dir(configFile)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		//nolint:gosec // configFile is constructed internally and safe to read
		data, err := os.ReadFile(configFile)
		if err != nil {
			return fmt.Errorf("failed to read config file: %v", err)
		}

		if err := yaml.Unmarshal(data, globalConfig); err != nil {
			return fmt.Errorf("failed to parse config file: %v", err)
		}
	} else {
		data, err := yaml.Marshal(globalConfig)
		if err != nil {
			return fmt.Errorf("failed to marshal default config: %v", err)
		}

		if err := os.WriteFile(configFile, data, 0o600); err != nil {
			return fmt.Errorf("failed to write default config file: %v", err)
		}
	}

	// Environment variables override stored credentials so the config
	// file never has to hold a real password.
	if v := os.Getenv("DEMOFORGE_SNOWFLAKE_PASSWORD"); v != "" {
		globalConfig.Snowflake.Password = v
	}
	if v := os.Getenv("DEMOFORGE_SNOWFLAKE_ACCOUNT"); v != "" {
		globalConfig.Snowflake.Account = v
	}
	if v := os.Getenv("DEMOFORGE_SNOWFLAKE_USERNAME"); v != "" {
		globalConfig.Snowflake.Username = v
	}

	return nil
}

// GetConfig returns the global configuration.
func GetConfig() *Config {
	return globalConfig
}

// Validate checks the fields a provisioning run cannot proceed without.
func (c *Config) Validate() error {
	if c.Snowflake.Account == "" {
		return fmt.Errorf("snowflake.account is required")
	}
	if c.Snowflake.Username == "" {
		return fmt.Errorf("snowflake.username is required")
	}
	if c.Snowflake.Password == "" {
		return fmt.Errorf("snowflake.password is required (or set DEMOFORGE_SNOWFLAKE_PASSWORD)")
	}
	if c.Snowflake.Database == "" {
		return fmt.Errorf("snowflake.database is required")
	}
	if c.Snowflake.Warehouse == "" {
		return fmt.Errorf("snowflake.warehouse is required")
	}
	return nil
}
