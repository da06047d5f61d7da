// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/worldpulse/internal/models"
)

// Countries lists the country catalog, optionally narrowed by ?region=.
func (h *Handler) Countries(w http.ResponseWriter, r *http.Request) {
	filter := models.CountryFilter{Region: strings.TrimSpace(r.URL.Query().Get("region"))}
	countries, err := h.store.ListCountries(r.Context(), filter)
	if err != nil {
		respondInternal(w, r, "failed to list countries", err)
		return
	}
	respondJSON(w, r, http.StatusOK, nonNil(countries))
}

// Indicators lists the indicator catalog, optionally narrowed by ?topic=.
func (h *Handler) Indicators(w http.ResponseWriter, r *http.Request) {
	filter := models.IndicatorFilter{Topic: strings.TrimSpace(r.URL.Query().Get("topic"))}
	indicators, err := h.store.ListIndicators(r.Context(), filter)
	if err != nil {
		respondInternal(w, r, "failed to list indicators", err)
		return
	}
	respondJSON(w, r, http.StatusOK, nonNil(indicators))
}

// Regions lists the distinct non-null regions of the catalog.
func (h *Handler) Regions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.store.ListRegions(r.Context())
	if err != nil {
		respondInternal(w, r, "failed to list regions", err)
		return
	}
	respondJSON(w, r, http.StatusOK, nonNil(regions))
}

// RegionCountries lists the countries of one region. An unknown region
// yields an empty list.
func (h *Handler) RegionCountries(w http.ResponseWriter, r *http.Request) {
	region, err := url.PathUnescape(chi.URLParam(r, "region"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "region must be a valid path segment")
		return
	}
	countries, err := h.store.ListCountries(r.Context(), models.CountryFilter{Region: region})
	if err != nil {
		respondInternal(w, r, "failed to list countries", err)
		return
	}
	respondJSON(w, r, http.StatusOK, nonNil(countries))
}

// DataSources lists the configured upstream providers.
func (h *Handler) DataSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.store.ListDataSources(r.Context())
	if err != nil {
		respondInternal(w, r, "failed to list data sources", err)
		return
	}
	respondJSON(w, r, http.StatusOK, nonNil(sources))
}

// UpdateLogs lists bulk refresh runs, most recent first.
func (h *Handler) UpdateLogs(w http.ResponseWriter, r *http.Request) {
	req, err := parseUpdateLogRequest(r)
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}
	logs, err := h.store.ListUpdateLogs(r.Context(), req.Limit)
	if err != nil {
		respondInternal(w, r, "failed to list update logs", err)
		return
	}
	respondJSON(w, r, http.StatusOK, nonNil(logs))
}

// nonNil keeps empty results encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
