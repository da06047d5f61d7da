// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/worldpulse/internal/logging"
)

// Year bounds shared by the store schema and request validation.
const (
	MinWorldBankYear = 1960
	MinHappinessYear = 2005
	MaxYear          = 2030
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateWorldBank(); err != nil {
		return err
	}
	if err := c.validateHappiness(); err != nil {
		return err
	}
	if err := c.validateDashboard(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateWorldBank() error {
	if err := validateHTTPURL(c.WorldBank.BaseURL, "WORLDBANK_BASE_URL", true); err != nil {
		return err
	}
	if c.WorldBank.Timeout <= 0 {
		return fmt.Errorf("WORLDBANK_TIMEOUT must be positive")
	}
	if c.WorldBank.CatalogTimeout <= 0 {
		return fmt.Errorf("WORLDBANK_CATALOG_TIMEOUT must be positive")
	}
	if c.WorldBank.PerPage < 1 || c.WorldBank.PerPage > 1000 {
		return fmt.Errorf("WORLDBANK_PER_PAGE must be between 1 and 1000, got %d", c.WorldBank.PerPage)
	}
	if c.WorldBank.RequestsPerSecond < 0 {
		return fmt.Errorf("WORLDBANK_REQUESTS_PER_SECOND must be >= 0")
	}
	return nil
}

func (c *Config) validateHappiness() error {
	tmpl := c.Happiness.URLTemplate
	if !strings.Contains(tmpl, "{year}") {
		return fmt.Errorf("HAPPINESS_URL_TEMPLATE must contain {year}")
	}
	if err := validateHTTPURL(strings.ReplaceAll(tmpl, "{year}", "2023"), "HAPPINESS_URL_TEMPLATE", true); err != nil {
		return err
	}
	if c.Happiness.Timeout <= 0 {
		return fmt.Errorf("HAPPINESS_TIMEOUT must be positive")
	}
	for _, y := range c.Happiness.Years {
		if y < MinHappinessYear || y > MaxYear {
			return fmt.Errorf("HAPPINESS_YEARS entry %d outside [%d, %d]", y, MinHappinessYear, MaxYear)
		}
	}
	return nil
}

func (c *Config) validateDashboard() error {
	d := c.Dashboard
	if d.Country == "" {
		return fmt.Errorf("DASHBOARD_COUNTRY is required")
	}
	if len(d.Country) > 3 {
		return fmt.Errorf("DASHBOARD_COUNTRY must be a country code, got %q", d.Country)
	}
	if d.StartYear < MinHappinessYear || d.EndYear > MaxYear || d.StartYear > d.EndYear {
		return fmt.Errorf("dashboard window %d-%d must lie within [%d, %d] with start <= end",
			d.StartYear, d.EndYear, MinHappinessYear, MaxYear)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ChartCacheTTL < 0 {
		return fmt.Errorf("CHART_CACHE_TTL must not be negative")
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
		return nil
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
