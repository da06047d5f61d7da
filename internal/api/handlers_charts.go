// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/worldpulse/internal/cache"
	"github.com/tomtom215/worldpulse/internal/metrics"
	"github.com/tomtom215/worldpulse/internal/models"
)

// CountryTrends charts one indicator for one country over a year window.
//
// Query: country, indicator (required); start_year, end_year (default 2000-2023).
func (h *Handler) CountryTrends(w http.ResponseWriter, r *http.Request) {
	req, err := parseSeriesRequest(r)
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}
	h.serveChart(w, r, "trend", req, func(ctx context.Context) (models.ChartData, error) {
		return h.charts.Trend(ctx, req.Country, req.Indicator, req.window())
	})
}

// HappinessComparison overlays the happiness score and one indicator on the
// years both series share.
func (h *Handler) HappinessComparison(w http.ResponseWriter, r *http.Request) {
	req, err := parseSeriesRequest(r)
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}
	h.serveChart(w, r, "comparison", req, func(ctx context.Context) (models.ChartData, error) {
		return h.charts.Comparison(ctx, req.Country, req.Indicator, req.window())
	})
}

// RegionalHappiness charts the average happiness score per region.
//
// Query: year (default 2023).
func (h *Handler) RegionalHappiness(w http.ResponseWriter, r *http.Request) {
	req, err := parseRegionalRequest(r)
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}
	h.serveChart(w, r, "regional-happiness", req, func(ctx context.Context) (models.ChartData, error) {
		return h.charts.RegionalHappiness(ctx, req.Year)
	})
}

// RegionalSnapshot ranks the countries of a region by one indicator.
//
// Query: region, indicator (required); year (default 2023).
func (h *Handler) RegionalSnapshot(w http.ResponseWriter, r *http.Request) {
	req, err := parseSnapshotRequest(r)
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}
	h.serveChart(w, r, "snapshot", req, func(ctx context.Context) (models.ChartData, error) {
		return h.charts.Snapshot(ctx, req.Region, req.Indicator, req.Year)
	})
}

// CountryDashboard serves the multi-indicator overview for the configured
// dashboard country (India by default). Only the year window is read from
// the query.
func (h *Handler) CountryDashboard(w http.ResponseWriter, r *http.Request) {
	h.serveDashboard(w, r, false)
}

// Dashboard is the same overview for ?country=, which is required.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.serveDashboard(w, r, true)
}

func (h *Handler) serveDashboard(w http.ResponseWriter, r *http.Request, countryFromQuery bool) {
	defaults := dashboardRequest{
		Country:   h.dashboard.Country,
		StartYear: h.dashboard.StartYear,
		EndYear:   h.dashboard.EndYear,
	}
	req, err := parseDashboardRequest(r, defaults, countryFromQuery)
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}
	h.serveChart(w, r, "dashboard", req, func(ctx context.Context) (models.ChartData, error) {
		return h.charts.Dashboard(ctx, req.Country, models.YearRange{Start: req.StartYear, End: req.EndYear})
	})
}

// serveChart answers from the chart cache when one is set and falls back to
// build. Failed builds are never cached.
func (h *Handler) serveChart(w http.ResponseWriter, r *http.Request, name string, params interface{}, build func(ctx context.Context) (models.ChartData, error)) {
	var key string
	if h.chartCache != nil {
		key = cache.GenerateKey(name, params)
		chart, ok := h.chartCache.Get(key)
		metrics.RecordChartCacheLookup(ok)
		if ok {
			respondJSON(w, r, http.StatusOK, chart)
			return
		}
	}

	chart, err := build(r.Context())
	if err != nil {
		respondInternal(w, r, "failed to build chart", err)
		return
	}
	if h.chartCache != nil {
		h.chartCache.Set(key, chart)
	}
	respondJSON(w, r, http.StatusOK, chart)
}
