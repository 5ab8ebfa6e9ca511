package config

import (
	"os"
	"strconv"
	"time"
)

// LoadFromEnv applies environment variable overrides.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("APP_INSIGHTS_CONNECTION_STRING"); v != "" {
		cfg.Insights.ConnectionString = v
	}
	if v := os.Getenv("APP_INSIGHTS_ENDPOINT"); v != "" {
		cfg.Insights.Endpoint = v
	}

	if v := os.Getenv("AZURE_TENANT_ID"); v != "" {
		cfg.Portal.TenantID = v
	}
	if v := os.Getenv("AZURE_SUBSCRIPTION_ID"); v != "" {
		cfg.Portal.SubscriptionID = v
	}
	if v := os.Getenv("RESOURCE_GROUP_NAME"); v != "" {
		cfg.Portal.ResourceGroup = v
	}
	if v := os.Getenv("APP_INSIGHTS_NAME"); v != "" {
		cfg.Portal.ComponentName = v
	}

	if v := os.Getenv("WAITER_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Waiter.MaxAttempts = n
		}
	}
	if v := os.Getenv("WAITER_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Waiter.Interval = d
		}
	}

	if v := os.Getenv("METRICS_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = p
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Server.LogLevel = v
	}
}

// GetEnvOrDefault returns an environment variable or a fallback value.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
