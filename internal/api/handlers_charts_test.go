// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/worldpulse/internal/models"
)

func TestCountryTrends_Validation(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr string
	}{
		{"missing country", "?indicator=NY.GDP.PCAP.CD", "country parameter is required"},
		{"missing indicator", "?country=IN", "indicator parameter is required"},
		{"bad country code", "?country=india&indicator=NY.GDP.PCAP.CD", "country must be a 2 or 3 character country code"},
		{"non-integer year", "?country=IN&indicator=NY.GDP.PCAP.CD&start_year=abc", "start_year must be an integer"},
		{"inverted window", "?country=IN&indicator=NY.GDP.PCAP.CD&start_year=2020&end_year=2010", "end_year must not be before start_year"},
		{"year below range", "?country=IN&indicator=NY.GDP.PCAP.CD&start_year=1950", "start_year must be greater than or equal to 1960"},
		{"year above range", "?country=IN&indicator=NY.GDP.PCAP.CD&end_year=2031", "end_year must be less than or equal to 2030"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.get(t, "/api/visualizations/country-trends/"+tt.query)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			if got := decodeError(t, rec); !strings.Contains(got, tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", got, tt.wantErr)
			}
			if len(env.charts.calls) != 0 {
				t.Errorf("engine called %d times on invalid input", len(env.charts.calls))
			}
		})
	}
}

func TestCountryTrends_DefaultsAndPassThrough(t *testing.T) {
	env := newTestEnv(t)
	rec := env.get(t, "/api/visualizations/country-trends/?country=in&indicator=NY.GDP.PCAP.CD")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	call := env.charts.calls[0]
	if call.country != "IN" || call.indicator != "NY.GDP.PCAP.CD" {
		t.Errorf("call = %+v", call)
	}
	if call.window != (models.YearRange{Start: 2000, End: 2023}) {
		t.Errorf("window = %+v, want 2000-2023", call.window)
	}

	var chart models.ChartData
	if err := json.Unmarshal(rec.Body.Bytes(), &chart); err != nil {
		t.Fatalf("decode chart: %v", err)
	}
	if len(chart.Labels) != 2 || chart.Labels[0] != "2021" {
		t.Errorf("labels = %v", chart.Labels)
	}
}

func TestHappinessComparison_UsesWindow(t *testing.T) {
	env := newTestEnv(t)
	rec := env.get(t, "/api/visualizations/happiness-comparison/?country=IN&indicator=SP.POP.TOTL&start_year=2015&end_year=2020")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	call := env.charts.calls[0]
	if call.name != "comparison" || call.window != (models.YearRange{Start: 2015, End: 2020}) {
		t.Errorf("call = %+v", call)
	}
}

func TestRegionalHappiness_DefaultYear(t *testing.T) {
	env := newTestEnv(t)
	if rec := env.get(t, "/api/visualizations/regional-happiness/"); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.charts.calls[0].year != 2023 {
		t.Errorf("year = %d, want 2023", env.charts.calls[0].year)
	}

	if rec := env.get(t, "/api/visualizations/regional-happiness/?year=2019"); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.charts.calls[1].year != 2019 {
		t.Errorf("year = %d, want 2019", env.charts.calls[1].year)
	}
}

func TestRegionalSnapshot(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/api/visualizations/regional-snapshot/?indicator=NY.GDP.PCAP.CD")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing region: status = %d", rec.Code)
	}
	if got := decodeError(t, rec); got != "region parameter is required" {
		t.Errorf("error = %q", got)
	}

	rec = env.get(t, "/api/visualizations/regional-snapshot/?region=South%20Asia&indicator=NY.GDP.PCAP.CD")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	call := env.charts.calls[0]
	if call.region != "South Asia" || call.year != 2023 {
		t.Errorf("call = %+v", call)
	}
}

func TestCountryDashboard_UsesConfiguredCountry(t *testing.T) {
	env := newTestEnv(t)
	rec := env.get(t, "/api/visualizations/india-dashboard/?country=US")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	call := env.charts.calls[0]
	if call.country != "IN" {
		t.Errorf("country = %q, want configured IN", call.country)
	}
	if call.window != (models.YearRange{Start: 2010, End: 2023}) {
		t.Errorf("window = %+v, want 2010-2023", call.window)
	}
}

func TestDashboard_RequiresCountry(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/api/visualizations/dashboard/")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	rec = env.get(t, "/api/visualizations/dashboard/?country=br&start_year=2015")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	call := env.charts.calls[0]
	if call.country != "BR" || call.window != (models.YearRange{Start: 2015, End: 2023}) {
		t.Errorf("call = %+v", call)
	}
}

func TestCharts_InternalError(t *testing.T) {
	env := newTestEnv(t)
	env.charts.err = errBoom

	rec := env.get(t, "/api/visualizations/country-trends/?country=IN&indicator=NY.GDP.PCAP.CD")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := decodeError(t, rec); !strings.Contains(got, "boom") {
		t.Errorf("error = %q, want the failure message", got)
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("Cache-Control = %q", rec.Header().Get("Cache-Control"))
	}
}
