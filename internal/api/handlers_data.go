// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/worldpulse/internal/config"
	"github.com/tomtom215/worldpulse/internal/models"
	"github.com/tomtom215/worldpulse/internal/reconcile"
)

// WorldBankData lists stored World Bank observations ordered by year.
// Filters: country, indicator, year, start_year, end_year.
func (h *Handler) WorldBankData(w http.ResponseWriter, r *http.Request) {
	req, err := parseObservationRequest(r)
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}
	rows, err := h.store.ListWorldBankObservations(r.Context(), req.filter())
	if err != nil {
		respondInternal(w, r, "failed to list World Bank data", err)
		return
	}
	respondJSON(w, r, http.StatusOK, nonNil(rows))
}

// HappinessData lists stored happiness rows.
// Filters: country, year, start_year, end_year.
func (h *Handler) HappinessData(w http.ResponseWriter, r *http.Request) {
	req, err := parseObservationRequest(r)
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}
	rows, err := h.store.ListHappiness(r.Context(), req.filter())
	if err != nil {
		respondInternal(w, r, "failed to list happiness data", err)
		return
	}
	respondJSON(w, r, http.StatusOK, nonNil(rows))
}

// RegionalData lists regional aggregates ordered by year. When a single
// year is requested and nothing is stored for it, the averages are derived
// on the fly from the happiness rows of that year.
func (h *Handler) RegionalData(w http.ResponseWriter, r *http.Request) {
	req, err := parseObservationRequest(r)
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}
	filter := req.filter()
	rows, err := h.store.ListRegionalAggregates(r.Context(), filter)
	if err != nil {
		respondInternal(w, r, "failed to list regional data", err)
		return
	}

	if len(rows) == 0 && filter.Year != 0 {
		derived, err := h.charts.Regional(r.Context(), filter.Year)
		if err != nil {
			respondInternal(w, r, "failed to derive regional data", err)
			return
		}
		rows = filterRegion(derived, filter.Region)
	}
	respondJSON(w, r, http.StatusOK, nonNil(rows))
}

func filterRegion(rows []models.RegionalAggregate, region string) []models.RegionalAggregate {
	if region == "" {
		return rows
	}
	out := rows[:0]
	for _, row := range rows {
		if row.Region == region {
			out = append(out, row)
		}
	}
	return out
}

// CountryHappiness serves one country's happiness data through the
// read-through cache. With ?year= it returns a single row, fetching the
// report CSV on a miss; without it, the stored history.
func (h *Handler) CountryHappiness(w http.ResponseWriter, r *http.Request) {
	req, err := parseCountryHappinessRequest(r, chi.URLParam(r, "code"))
	if err != nil {
		respondBadRequest(w, r, err)
		return
	}

	if req.Year == 0 {
		rows, err := h.happiness.HappinessHistory(r.Context(), req.Country, models.YearRange{Start: config.MinHappinessYear, End: config.MaxYear})
		if err != nil {
			respondInternal(w, r, "failed to load happiness history", err)
			return
		}
		respondJSON(w, r, http.StatusOK, nonNil(rows))
		return
	}

	row, err := h.happiness.GetHappiness(r.Context(), req.Country, req.Year)
	if errors.Is(err, reconcile.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, "no happiness score for "+req.Country+" in the requested year")
		return
	}
	if err != nil {
		respondInternal(w, r, "failed to load happiness", err)
		return
	}
	respondJSON(w, r, http.StatusOK, row)
}
