// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

// Package config loads WorldPulse configuration.
//
// Loading order (Koanf v2), later layers win:
//  1. Defaults built into defaultConfig()
//  2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/worldpulse/config.yaml)
//  3. Environment variables listed in envMappings
//
// Config is immutable after Load() and safe for concurrent reads.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	WorldBank WorldBankConfig `koanf:"worldbank"`
	Happiness HappinessConfig `koanf:"happiness"`
	Sync      SyncConfig      `koanf:"sync"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path           string `koanf:"path"`
	MaxMemory      string `koanf:"max_memory"`
	Threads        int    `koanf:"threads"`          // 0 = runtime.NumCPU()
	SeedCatalog    bool   `koanf:"seed_catalog"`     // upsert the static country/indicator catalog on startup
	SeedSampleData bool   `koanf:"seed_sample_data"` // load sample happiness rows for demos and screenshots
}

// WorldBankConfig configures the World Bank indicator API client.
type WorldBankConfig struct {
	BaseURL string `koanf:"base_url"`

	// Timeout bounds a single series request.
	Timeout time.Duration `koanf:"timeout"`

	// CatalogTimeout bounds the (much larger) indicator and country list requests.
	CatalogTimeout time.Duration `koanf:"catalog_timeout"`

	// PerPage is sent as per_page. Continuation pages are never requested.
	PerPage int `koanf:"per_page"`

	// RequestsPerSecond paces outbound calls. 0 disables pacing.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// HappinessConfig configures the World Happiness Report CSV client.
type HappinessConfig struct {
	// URLTemplate must contain the literal "{year}" placeholder.
	URLTemplate string        `koanf:"url_template"`
	Timeout     time.Duration `koanf:"timeout"`
	Years       []int         `koanf:"years"` // report years imported in bulk
}

// SyncConfig holds background import settings.
type SyncConfig struct {
	ImportOnStartup bool          `koanf:"import_on_startup"`
	RefreshCatalog  bool          `koanf:"refresh_catalog"`
	Interval        time.Duration `koanf:"interval"`
}

// DashboardConfig selects the anchor country and companion indicators of the
// country overview dashboard.
type DashboardConfig struct {
	Country    string   `koanf:"country"`
	Indicators []string `koanf:"indicators"`
	StartYear  int      `koanf:"start_year"`
	EndYear    int      `koanf:"end_year"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`

	// ChartCacheTTL keeps built chart payloads in memory. 0 (the default)
	// disables the cache so every chart request reads the store.
	ChartCacheTTL time.Duration `koanf:"chart_cache_ttl"`
}

// SecurityConfig holds inbound rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format: json or console.
	Format string `koanf:"format"`

	// Caller adds file:line to each entry.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
