// Package config provides configuration management for canopy DataFrame operations
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Config represents the global configuration for DataFrame operations
type Config struct {
	// Naming Configuration
	GroupColumnName string `json:"group_column_name" yaml:"group_column_name"` // Name of the frame column produced by GroupBy
	CountColumnName string `json:"count_column_name" yaml:"count_column_name"` // Name of the column produced by Count
	NullKeyName     string `json:"null_key_name" yaml:"null_key_name"`         // Column name used by Pivot for null keys

	// Reshaping Configuration
	ExplodeDropEmpty bool `json:"explode_drop_empty" yaml:"explode_drop_empty"` // Drop rows whose exploded cells are all empty

	// Debugging Configuration
	VerboseLogging    bool   `json:"verbose_logging" yaml:"verbose_logging"`       // Enable verbose logging
	LogLevel          string `json:"log_level" yaml:"log_level"`                   // debug, info, warn or error
	LogEncoding       string `json:"log_encoding" yaml:"log_encoding"`             // json or console
	MetricsCollection bool   `json:"metrics_collection" yaml:"metrics_collection"` // Enable metrics collection
}

// Global configuration instance
var (
	globalConfig Config
	configMutex  sync.RWMutex
)

// Default configuration values
const (
	DefaultGroupColumnName = "group"
	DefaultCountColumnName = "count"
	DefaultNullKeyName     = "null"
	DefaultLogLevel        = "info"
	DefaultLogEncoding     = "console"
)

//nolint:gochecknoinits // Global configuration starts from defaults
func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a new configuration with default values
func NewConfig() Config {
	return Config{
		GroupColumnName: DefaultGroupColumnName,
		CountColumnName: DefaultCountColumnName,
		NullKeyName:     DefaultNullKeyName,

		ExplodeDropEmpty: true,

		VerboseLogging:    false,
		LogLevel:          DefaultLogLevel,
		LogEncoding:       DefaultLogEncoding,
		MetricsCollection: false,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.GroupColumnName) == "" {
		return fmt.Errorf("GroupColumnName must not be empty")
	}

	if strings.TrimSpace(c.CountColumnName) == "" {
		return fmt.Errorf("CountColumnName must not be empty")
	}

	if c.NullKeyName == "" {
		return fmt.Errorf("NullKeyName must not be empty")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LogLevel must be one of debug, info, warn, error, got %q", c.LogLevel)
	}

	if c.LogEncoding != "json" && c.LogEncoding != "console" {
		return fmt.Errorf("LogEncoding must be json or console, got %q", c.LogEncoding)
	}

	return nil
}

// WithDefaults returns a new configuration with default values filled in for zero values
func (c Config) WithDefaults() Config {
	defaults := NewConfig()

	if c.GroupColumnName == "" {
		c.GroupColumnName = defaults.GroupColumnName
	}
	if c.CountColumnName == "" {
		c.CountColumnName = defaults.CountColumnName
	}
	if c.NullKeyName == "" {
		c.NullKeyName = defaults.NullKeyName
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.LogEncoding == "" {
		c.LogEncoding = defaults.LogEncoding
	}

	// Boolean fields are not touched here so an explicit false survives.
	// Loaders start from NewConfig() to get boolean defaults.

	return c
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = config
}

// GetGlobalConfig returns the current global configuration
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// LoadFromJSON loads configuration from JSON data
func LoadFromJSON(data []byte) (Config, error) {
	config := NewConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromYAML loads configuration from YAML data
func LoadFromYAML(data []byte) (Config, error) {
	config := NewConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing YAML configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromFile loads configuration from a file (supports JSON and YAML)
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	var config Config
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		config, err = LoadFromJSON(data)
	case ".yaml", ".yml":
		config, err = LoadFromYAML(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return Config{}, fmt.Errorf("loading config file %s: %w", filename, err)
	}

	return config, nil
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() Config {
	config := NewConfig()

	if val := os.Getenv("CANOPY_GROUP_COLUMN_NAME"); val != "" {
		config.GroupColumnName = val
	}

	if val := os.Getenv("CANOPY_COUNT_COLUMN_NAME"); val != "" {
		config.CountColumnName = val
	}

	if val := os.Getenv("CANOPY_NULL_KEY_NAME"); val != "" {
		config.NullKeyName = val
	}

	if val := os.Getenv("CANOPY_EXPLODE_DROP_EMPTY"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.ExplodeDropEmpty = parsed
		}
	}

	if val := os.Getenv("CANOPY_VERBOSE_LOGGING"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.VerboseLogging = parsed
		}
	}

	if val := os.Getenv("CANOPY_LOG_LEVEL"); val != "" {
		config.LogLevel = strings.ToLower(val)
	}

	if val := os.Getenv("CANOPY_LOG_ENCODING"); val != "" {
		config.LogEncoding = strings.ToLower(val)
	}

	if val := os.Getenv("CANOPY_METRICS_COLLECTION"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.MetricsCollection = parsed
		}
	}

	return config
}
