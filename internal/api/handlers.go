// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package api

import (
	"context"
	"time"

	"github.com/tomtom215/worldpulse/internal/cache"
	"github.com/tomtom215/worldpulse/internal/config"
	"github.com/tomtom215/worldpulse/internal/models"
)

// Store is the read side of the database used by the catalog and raw data
// endpoints. *database.DB satisfies it.
type Store interface {
	Ping(ctx context.Context) error
	ListCountries(ctx context.Context, filter models.CountryFilter) ([]models.Country, error)
	ListRegions(ctx context.Context) ([]string, error)
	ListIndicators(ctx context.Context, filter models.IndicatorFilter) ([]models.Indicator, error)
	ListWorldBankObservations(ctx context.Context, filter models.ObservationFilter) ([]models.WorldBankObservation, error)
	ListHappiness(ctx context.Context, filter models.ObservationFilter) ([]models.HappinessObservation, error)
	ListRegionalAggregates(ctx context.Context, filter models.ObservationFilter) ([]models.RegionalAggregate, error)
	ListDataSources(ctx context.Context) ([]models.DataSource, error)
	ListUpdateLogs(ctx context.Context, limit int) ([]models.DataUpdateLog, error)
}

// Charts builds the visualization payloads. *aggregate.Engine satisfies it.
type Charts interface {
	Trend(ctx context.Context, country, indicator string, r models.YearRange) (models.ChartData, error)
	Comparison(ctx context.Context, country, indicator string, r models.YearRange) (models.ChartData, error)
	RegionalHappiness(ctx context.Context, year int) (models.ChartData, error)
	Regional(ctx context.Context, year int) ([]models.RegionalAggregate, error)
	Snapshot(ctx context.Context, region, indicator string, year int) (models.ChartData, error)
	Dashboard(ctx context.Context, country string, r models.YearRange) (models.ChartData, error)
}

// HappinessReader serves read-through happiness lookups.
// *reconcile.Service satisfies it.
type HappinessReader interface {
	GetHappiness(ctx context.Context, country string, year int) (*models.HappinessObservation, error)
	HappinessHistory(ctx context.Context, country string, r models.YearRange) ([]models.HappinessObservation, error)
}

// BreakerReporter exposes upstream circuit breaker states for the readiness
// probe.
type BreakerReporter interface {
	BreakerStates() map[string]string
}

// Handler holds the dependencies shared by all API handlers.
//
// Handler methods are split across files:
//   - handlers_catalog.go: countries, indicators, regions, data sources, update logs
//   - handlers_data.go: World Bank, happiness and regional rows
//   - handlers_charts.go: visualization endpoints
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	store      Store
	charts     Charts
	happiness  HappinessReader
	breakers   BreakerReporter
	chartCache *cache.Cache[models.ChartData]
	dashboard  config.DashboardConfig
	startTime  time.Time
}

// NewHandler creates the API handler. cfg may be nil, in which case the
// dashboard endpoint falls back to India over 2010-2023.
func NewHandler(store Store, charts Charts, happiness HappinessReader, cfg *config.Config) *Handler {
	dash := config.DashboardConfig{Country: "IN", StartYear: 2010, EndYear: 2023}
	if cfg != nil {
		dash = cfg.Dashboard
	}
	return &Handler{
		store:     store,
		charts:    charts,
		happiness: happiness,
		dashboard: dash,
		startTime: time.Now(),
	}
}

// SetBreakerReporter attaches the upstream fetcher so readiness can report
// breaker states. Optional.
func (h *Handler) SetBreakerReporter(b BreakerReporter) {
	h.breakers = b
}

// SetChartCache enables caching of built chart payloads. Optional; without
// it every chart request runs the engine.
func (h *Handler) SetChartCache(c *cache.Cache[models.ChartData]) {
	h.chartCache = c
}
