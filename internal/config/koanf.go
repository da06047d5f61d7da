// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/worldpulse/config.yaml",
	"/etc/worldpulse/config.yml",
}

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultHappinessURLTemplate points at the per-year CSV exports of the
// World Happiness Report.
const DefaultHappinessURLTemplate = "https://raw.githubusercontent.com/worldhappiness/worldhappiness.github.io/master/data/{year}.csv"

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        "/data/worldpulse.duckdb",
			MaxMemory:   "1GB",
			Threads:     0,
			SeedCatalog: true,
		},
		WorldBank: WorldBankConfig{
			BaseURL:           "https://api.worldbank.org/v2",
			Timeout:           10 * time.Second,
			CatalogTimeout:    15 * time.Second,
			PerPage:           100,
			RequestsPerSecond: 10,
		},
		Happiness: HappinessConfig{
			URLTemplate: DefaultHappinessURLTemplate,
			Timeout:     10 * time.Second,
			Years:       []int{2021, 2022, 2023},
		},
		Sync: SyncConfig{
			Interval: 24 * time.Hour,
		},
		Dashboard: DashboardConfig{
			Country:    "IN",
			Indicators: []string{"NY.GDP.PCAP.CD", "SI.POV.DDAY", "SL.UEM.TOTL.ZS", "SE.PRM.NENR"},
			StartYear:  2010,
			EndYear:    2023,
		},
		Server: ServerConfig{
			Port:        8000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Security: SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf layers defaults, the config file and env vars, in that order.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths arrive from the environment as comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"dashboard.indicators",
	"happiness.years",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Anything not listed here is ignored.
var envMappings = map[string]string{
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_catalog":      "database.seed_catalog",
	"seed_sample_data":  "database.seed_sample_data",

	"worldbank_base_url":            "worldbank.base_url",
	"worldbank_timeout":             "worldbank.timeout",
	"worldbank_catalog_timeout":     "worldbank.catalog_timeout",
	"worldbank_per_page":            "worldbank.per_page",
	"worldbank_requests_per_second": "worldbank.requests_per_second",

	"happiness_url_template": "happiness.url_template",
	"happiness_timeout":      "happiness.timeout",
	"happiness_years":        "happiness.years",

	"import_on_startup": "sync.import_on_startup",
	"refresh_catalog":   "sync.refresh_catalog",
	"sync_interval":     "sync.interval",

	"dashboard_country":    "dashboard.country",
	"dashboard_indicators": "dashboard.indicators",
	"dashboard_start_year": "dashboard.start_year",
	"dashboard_end_year":   "dashboard.end_year",

	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	"chart_cache_ttl": "server.chart_cache_ttl",

	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path, or
// "" to skip it.
//
//   - DUCKDB_PATH -> database.path
//   - WORLDBANK_TIMEOUT -> worldbank.timeout
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
