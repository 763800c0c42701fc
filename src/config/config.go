package config

import (
	"fmt"
	"os"
	"time"

	"aapl-elt/src/models"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new MConfig instance from YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}

	// 3. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	// Server configuration
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}

	// Object store configuration
	if c.ObjectStore.Endpoint == "" {
		return fmt.Errorf("object store endpoint cannot be empty")
	}
	if c.ObjectStore.RawBucket == "" || c.ObjectStore.ProcessedBucket == "" {
		return fmt.Errorf("object store bucket names cannot be empty")
	}
	if c.ObjectStore.RawBucket == c.ObjectStore.ProcessedBucket {
		return fmt.Errorf("raw and processed buckets must be distinct")
	}

	// Warehouse configuration
	if c.Warehouse.DBPath == "" {
		return fmt.Errorf("warehouse db path cannot be empty")
	}

	// Network configuration
	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}

	// Pipeline configuration
	if c.Pipeline.Symbol == "" {
		return fmt.Errorf("pipeline symbol cannot be empty")
	}
	if _, err := time.Parse(models.DateLayout, c.Pipeline.StartDate); err != nil {
		return fmt.Errorf("invalid pipeline start date '%s': %w", c.Pipeline.StartDate, err)
	}

	// Scheduler configuration
	if c.Scheduler.Enabled {
		if c.Scheduler.IntervalHours <= 0 {
			return fmt.Errorf("scheduler interval must be greater than 0")
		}
		if c.Scheduler.Retries < 0 {
			return fmt.Errorf("scheduler retries cannot be negative")
		}
		if c.Scheduler.RetryDelaySeconds <= 0 {
			return fmt.Errorf("scheduler retry delay must be greater than 0")
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
