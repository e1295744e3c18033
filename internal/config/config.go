// Package config provides unified configuration loading for expkit.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the shared, checked-in configuration file.
const ProjectFile = "expkit.yaml"

// LocalFile overrides ProjectFile with machine-local settings.
const LocalFile = "expkit.local.yaml"

// Config contains all expkit configuration settings.
type Config struct {
	// ResultDir is where run artifacts (run.log, databases) are stored.
	ResultDir string `json:"result_dir" yaml:"result_dir"`

	// Database contains settings for the result database.
	Database DatabaseConfig `json:"database" yaml:"database"`

	// Logging contains settings for operational logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// DatabaseConfig configures the result database.
type DatabaseConfig struct {
	// Schema names the table namespace for this project's runs. Each
	// schema lives in its own database file under ResultDir.
	Schema string `json:"schema" yaml:"schema"`
}

// LoggingConfig configures expkit's logging behavior.
type LoggingConfig struct {
	// Level sets the console verbosity: "error", "warn" (default),
	// "info", or "debug". Counted -v/-q flags take precedence.
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		ResultDir: "results",
		Database: DatabaseConfig{
			Schema: "expkit",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load loads configuration for the given directory.
// Order: defaults -> expkit.yaml -> expkit.local.yaml -> environment
// variables. Missing files are skipped; a malformed file is an error.
func Load(dir string) (*Config, error) {
	config := Default()

	for _, name := range []string{ProjectFile, LocalFile} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := loadInto(config, path); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file, on top of
// the defaults.
func LoadFromFile(path string) (*Config, error) {
	config := Default()
	if err := loadInto(config, path); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadInto(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.ResultDir == "" {
		return fmt.Errorf("result_dir must not be empty")
	}
	if c.Database.Schema == "" {
		return fmt.Errorf("database schema must not be empty")
	}

	validLevels := map[string]bool{"error": true, "warn": true, "info": true, "debug": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: error, warn, info, debug, or empty for default)", c.Logging.Level)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("EXPKIT_RESULTDIR"); v != "" {
		config.ResultDir = v
	}
	if v := os.Getenv("EXPKIT_SCHEMA"); v != "" {
		config.Database.Schema = v
	}
	if v := os.Getenv("EXPKIT_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
