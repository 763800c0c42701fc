package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aapl-elt/src/models"
)

func validConfig() *Config {
	return &Config{MConfig: &models.MConfig{
		Name:     "aapl-elt",
		Host:     "127.0.0.1",
		Port:     5000,
		LogLevel: "INFO",
		ObjectStore: models.MObjectStoreConfig{
			Endpoint:        "localhost:9000",
			AccessKey:       "minioadmin",
			SecretKey:       "minioadmin",
			RawBucket:       "raw-data",
			ProcessedBucket: "processed-data",
		},
		Warehouse: models.MWarehouseConfig{DBPath: "data/results/aapl_warehouse.db"},
		Network:   models.MNetworkConfig{RequestTimeout: 30},
		Pipeline: models.MPipelineConfig{
			Symbol:       "AAPL",
			StartDate:    "2020-01-01",
			NewsFilePath: "data/raw/aapl_news_full.csv",
		},
		Scheduler: models.MSchedulerConfig{
			Enabled:           true,
			IntervalHours:     24,
			Retries:           1,
			RetryDelaySeconds: 300,
		},
	}}
}

// -----------------------------------------------------------------------------

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}
}

// -----------------------------------------------------------------------------

func TestValidateRejectsBadFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty name", func(c *Config) { c.Name = "" }, "name"},
		{"empty host", func(c *Config) { c.Host = "" }, "host"},
		{"reserved port", func(c *Config) { c.Port = 80 }, "port"},
		{"port too high", func(c *Config) { c.Port = 70000 }, "port"},
		{"empty endpoint", func(c *Config) { c.ObjectStore.Endpoint = "" }, "endpoint"},
		{"empty raw bucket", func(c *Config) { c.ObjectStore.RawBucket = "" }, "bucket"},
		{"same buckets", func(c *Config) { c.ObjectStore.ProcessedBucket = c.ObjectStore.RawBucket }, "distinct"},
		{"empty db path", func(c *Config) { c.Warehouse.DBPath = "" }, "db path"},
		{"zero timeout", func(c *Config) { c.Network.RequestTimeout = 0 }, "timeout"},
		{"empty symbol", func(c *Config) { c.Pipeline.Symbol = "" }, "symbol"},
		{"bad start date", func(c *Config) { c.Pipeline.StartDate = "01/02/2020" }, "start date"},
		{"zero interval", func(c *Config) { c.Scheduler.IntervalHours = 0 }, "interval"},
		{"negative retries", func(c *Config) { c.Scheduler.Retries = -1 }, "retries"},
		{"zero retry delay", func(c *Config) { c.Scheduler.RetryDelaySeconds = 0 }, "retry delay"},
	}

	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

// -----------------------------------------------------------------------------

func TestValidateIgnoresSchedulerWhenDisabled(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduler = models.MSchedulerConfig{Enabled: false}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled scheduler should not be validated, got: %v", err)
	}
}

// -----------------------------------------------------------------------------

func TestNewConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := validConfig().Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := NewConfig(path)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if loaded.Name != "aapl-elt" || loaded.Pipeline.Symbol != "AAPL" {
		t.Fatalf("loaded config differs: %+v", loaded.MConfig)
	}
	if loaded.ObjectStore.RawBucket != "raw-data" {
		t.Fatalf("object store section not loaded: %+v", loaded.ObjectStore)
	}
}

// -----------------------------------------------------------------------------

func TestNewConfigMissingFile(t *testing.T) {
	if _, err := NewConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

// -----------------------------------------------------------------------------

func TestNewConfigRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml: ["), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
