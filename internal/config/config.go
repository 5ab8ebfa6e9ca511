// Package config holds the pipeline configuration, loaded from an optional
// YAML file with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Insights InsightsConfig `yaml:"insights"`
	Portal   PortalConfig   `yaml:"portal"`
	Waiter   WaiterConfig   `yaml:"waiter"`
	Server   ServerConfig   `yaml:"server"`
}

type InsightsConfig struct {
	// ConnectionString is the App Insights connection string; the app id is
	// parsed out of it.
	ConnectionString string `yaml:"connection_string"`
	// Endpoint overrides the public query API endpoint.
	Endpoint string `yaml:"endpoint"`
}

type PortalConfig struct {
	TenantID       string `yaml:"tenant_id"`
	SubscriptionID string `yaml:"subscription_id"`
	ResourceGroup  string `yaml:"resource_group"`
	ComponentName  string `yaml:"component_name"`
}

type WaiterConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Interval    time.Duration `yaml:"interval"`
}

// UnmarshalYAML accepts the interval as a duration string ("30s", "1m") and
// leaves defaults in place for fields the file omits.
func (w *WaiterConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		MaxAttempts *int    `yaml:"max_attempts"`
		Interval    *string `yaml:"interval"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.MaxAttempts != nil {
		w.MaxAttempts = *raw.MaxAttempts
	}
	if raw.Interval != nil {
		d, err := time.ParseDuration(*raw.Interval)
		if err != nil {
			return fmt.Errorf("parse waiter interval: %w", err)
		}
		w.Interval = d
	}
	return nil
}

type ServerConfig struct {
	MetricsPort int    `yaml:"metrics_port"`
	LogLevel    string `yaml:"log_level"`
}

// Default returns the configuration used when nothing else is specified.
func Default() *Config {
	return &Config{
		Waiter: WaiterConfig{
			MaxAttempts: 10,
			Interval:    30 * time.Second,
		},
		Server: ServerConfig{
			LogLevel: "info",
		},
	}
}

// Load reads the YAML file at path (a missing file is fine, an empty path
// skips the file entirely) and then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	LoadFromEnv(cfg)
	return cfg, nil
}
