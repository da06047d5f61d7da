// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/worldpulse/internal/models"
	"github.com/tomtom215/worldpulse/internal/validation"
)

// Default windows for chart endpoints.
const (
	defaultStartYear = 2000
	defaultEndYear   = 2023
	defaultChartYear = 2023

	defaultUpdateLogLimit = 50
)

// seriesRequest is shared by the trend and comparison charts.
type seriesRequest struct {
	Country   string `query:"country" validate:"required,countrycode"`
	Indicator string `query:"indicator" validate:"required,indicatorcode"`
	StartYear int    `query:"start_year" validate:"gte=1960,lte=2030"`
	EndYear   int    `query:"end_year" validate:"gte=1960,lte=2030,gtefield=StartYear"`
}

func (r seriesRequest) window() models.YearRange {
	return models.YearRange{Start: r.StartYear, End: r.EndYear}
}

type regionalRequest struct {
	Year int `query:"year" validate:"gte=1960,lte=2030"`
}

type snapshotRequest struct {
	Region    string `query:"region" validate:"required,max=128"`
	Indicator string `query:"indicator" validate:"required,indicatorcode"`
	Year      int    `query:"year" validate:"gte=1960,lte=2030"`
}

type dashboardRequest struct {
	Country   string `query:"country" validate:"required,countrycode"`
	StartYear int    `query:"start_year" validate:"gte=1960,lte=2030"`
	EndYear   int    `query:"end_year" validate:"gte=1960,lte=2030,gtefield=StartYear"`
}

// observationRequest holds the optional filters of the raw data endpoints.
type observationRequest struct {
	Country   string `query:"country" validate:"omitempty,countrycode"`
	Indicator string `query:"indicator" validate:"omitempty,indicatorcode"`
	Region    string `query:"region" validate:"omitempty,max=128"`
	Year      int    `query:"year" validate:"omitempty,gte=1960,lte=2030"`
	StartYear int    `query:"start_year" validate:"omitempty,gte=1960,lte=2030"`
	EndYear   int    `query:"end_year" validate:"omitempty,gte=1960,lte=2030,gtefield=StartYear"`
}

func (r observationRequest) filter() models.ObservationFilter {
	return models.ObservationFilter{
		CountryCode:   r.Country,
		IndicatorCode: r.Indicator,
		Region:        r.Region,
		Year:          r.Year,
		StartYear:     r.StartYear,
		EndYear:       r.EndYear,
	}
}

type updateLogRequest struct {
	Limit int `query:"limit" validate:"gte=1,lte=500"`
}

type countryHappinessRequest struct {
	Country string `query:"code" validate:"required,countrycode"`
	Year    int    `query:"year" validate:"omitempty,gte=1960,lte=2030"`
}

func parseSeriesRequest(r *http.Request) (seriesRequest, error) {
	q := r.URL.Query()
	req := seriesRequest{
		Country:   countryParam(q, "country"),
		Indicator: strings.TrimSpace(q.Get("indicator")),
	}
	var err error
	if req.StartYear, err = intParam(q, "start_year", defaultStartYear); err != nil {
		return req, err
	}
	if req.EndYear, err = intParam(q, "end_year", defaultEndYear); err != nil {
		return req, err
	}
	return req, validate(&req)
}

func parseRegionalRequest(r *http.Request) (regionalRequest, error) {
	var req regionalRequest
	var err error
	if req.Year, err = intParam(r.URL.Query(), "year", defaultChartYear); err != nil {
		return req, err
	}
	return req, validate(&req)
}

func parseSnapshotRequest(r *http.Request) (snapshotRequest, error) {
	q := r.URL.Query()
	req := snapshotRequest{
		Region:    strings.TrimSpace(q.Get("region")),
		Indicator: strings.TrimSpace(q.Get("indicator")),
	}
	var err error
	if req.Year, err = intParam(q, "year", defaultChartYear); err != nil {
		return req, err
	}
	return req, validate(&req)
}

// parseDashboardRequest falls back to defaults for omitted years. The
// country comes from the query only when countryFromQuery is set.
func parseDashboardRequest(r *http.Request, defaults dashboardRequest, countryFromQuery bool) (dashboardRequest, error) {
	q := r.URL.Query()
	req := defaults
	if countryFromQuery {
		req.Country = countryParam(q, "country")
	}
	var err error
	if req.StartYear, err = intParam(q, "start_year", defaults.StartYear); err != nil {
		return req, err
	}
	if req.EndYear, err = intParam(q, "end_year", defaults.EndYear); err != nil {
		return req, err
	}
	return req, validate(&req)
}

func parseObservationRequest(r *http.Request) (observationRequest, error) {
	q := r.URL.Query()
	req := observationRequest{
		Country:   countryParam(q, "country"),
		Indicator: strings.TrimSpace(q.Get("indicator")),
		Region:    strings.TrimSpace(q.Get("region")),
	}
	var err error
	if req.Year, err = intParam(q, "year", 0); err != nil {
		return req, err
	}
	if req.StartYear, err = intParam(q, "start_year", 0); err != nil {
		return req, err
	}
	if req.EndYear, err = intParam(q, "end_year", 0); err != nil {
		return req, err
	}
	return req, validate(&req)
}

func parseUpdateLogRequest(r *http.Request) (updateLogRequest, error) {
	var req updateLogRequest
	var err error
	if req.Limit, err = intParam(r.URL.Query(), "limit", defaultUpdateLogLimit); err != nil {
		return req, err
	}
	return req, validate(&req)
}

func parseCountryHappinessRequest(r *http.Request, code string) (countryHappinessRequest, error) {
	req := countryHappinessRequest{Country: strings.ToUpper(strings.TrimSpace(code))}
	var err error
	if req.Year, err = intParam(r.URL.Query(), "year", 0); err != nil {
		return req, err
	}
	return req, validate(&req)
}

// intParam parses an optional integer query parameter.
func intParam(q url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validation.NewError(name, name+" must be an integer")
	}
	return v, nil
}

// countryParam upper-cases country codes; the catalog stores ISO codes in
// upper case.
func countryParam(q url.Values, name string) string {
	return strings.ToUpper(strings.TrimSpace(q.Get(name)))
}

// validate converts the typed validator result into a plain error so a nil
// result stays a nil interface.
func validate(s interface{}) error {
	if verr := validation.ValidateStruct(s); verr != nil {
		return verr
	}
	return nil
}
