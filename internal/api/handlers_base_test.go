// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/worldpulse/internal/config"
	"github.com/tomtom215/worldpulse/internal/models"
)

type fakeStore struct {
	pingErr   error
	listErr   error
	countries []models.Country
	regions   []string
	regional  []models.RegionalAggregate
	logs      []models.DataUpdateLog

	lastCountryFilter models.CountryFilter
	lastObsFilter     models.ObservationFilter
	lastLogLimit      int
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) ListCountries(_ context.Context, filter models.CountryFilter) ([]models.Country, error) {
	f.lastCountryFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Country
	for _, c := range f.countries {
		if filter.Region == "" || (c.Region != nil && *c.Region == filter.Region) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) ListRegions(context.Context) ([]string, error) { return f.regions, f.listErr }

func (f *fakeStore) ListIndicators(context.Context, models.IndicatorFilter) ([]models.Indicator, error) {
	return nil, f.listErr
}

func (f *fakeStore) ListWorldBankObservations(_ context.Context, filter models.ObservationFilter) ([]models.WorldBankObservation, error) {
	f.lastObsFilter = filter
	return nil, f.listErr
}

func (f *fakeStore) ListHappiness(_ context.Context, filter models.ObservationFilter) ([]models.HappinessObservation, error) {
	f.lastObsFilter = filter
	return nil, f.listErr
}

func (f *fakeStore) ListRegionalAggregates(_ context.Context, filter models.ObservationFilter) ([]models.RegionalAggregate, error) {
	f.lastObsFilter = filter
	return f.regional, f.listErr
}

func (f *fakeStore) ListDataSources(context.Context) ([]models.DataSource, error) {
	return []models.DataSource{{Name: models.DataSourceWorldBank}}, f.listErr
}

func (f *fakeStore) ListUpdateLogs(_ context.Context, limit int) ([]models.DataUpdateLog, error) {
	f.lastLogLimit = limit
	return f.logs, f.listErr
}

type chartCall struct {
	name      string
	country   string
	indicator string
	region    string
	year      int
	window    models.YearRange
}

type fakeCharts struct {
	err     error
	calls   []chartCall
	derived []models.RegionalAggregate
}

func (f *fakeCharts) chart(c chartCall) (models.ChartData, error) {
	f.calls = append(f.calls, c)
	if f.err != nil {
		return models.ChartData{}, f.err
	}
	return models.ChartData{
		Labels:   []string{"2021", "2022"},
		Datasets: []models.Dataset{{Label: c.name, Data: models.Values([]float64{1, 2})}},
	}, nil
}

func (f *fakeCharts) Trend(_ context.Context, country, indicator string, r models.YearRange) (models.ChartData, error) {
	return f.chart(chartCall{name: "trend", country: country, indicator: indicator, window: r})
}

func (f *fakeCharts) Comparison(_ context.Context, country, indicator string, r models.YearRange) (models.ChartData, error) {
	return f.chart(chartCall{name: "comparison", country: country, indicator: indicator, window: r})
}

func (f *fakeCharts) RegionalHappiness(_ context.Context, year int) (models.ChartData, error) {
	return f.chart(chartCall{name: "regional", year: year})
}

func (f *fakeCharts) Regional(_ context.Context, year int) ([]models.RegionalAggregate, error) {
	f.calls = append(f.calls, chartCall{name: "regional-rows", year: year})
	return f.derived, f.err
}

func (f *fakeCharts) Snapshot(_ context.Context, region, indicator string, year int) (models.ChartData, error) {
	return f.chart(chartCall{name: "snapshot", region: region, indicator: indicator, year: year})
}

func (f *fakeCharts) Dashboard(_ context.Context, country string, r models.YearRange) (models.ChartData, error) {
	return f.chart(chartCall{name: "dashboard", country: country, window: r})
}

type fakeHappiness struct {
	row     *models.HappinessObservation
	err     error
	history []models.HappinessObservation
}

func (f *fakeHappiness) GetHappiness(context.Context, string, int) (*models.HappinessObservation, error) {
	return f.row, f.err
}

func (f *fakeHappiness) HappinessHistory(context.Context, string, models.YearRange) ([]models.HappinessObservation, error) {
	return f.history, f.err
}

type fakeBreakers map[string]string

func (f fakeBreakers) BreakerStates() map[string]string { return f }

var errBoom = errors.New("boom")

type testEnv struct {
	store     *fakeStore
	charts    *fakeCharts
	happiness *fakeHappiness
	handler   *Handler
	server    http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		Dashboard: config.DashboardConfig{Country: "IN", StartYear: 2010, EndYear: 2023},
	}
	env := &testEnv{
		store:     &fakeStore{},
		charts:    &fakeCharts{},
		happiness: &fakeHappiness{},
	}
	env.handler = NewHandler(env.store, env.charts, env.happiness, cfg)
	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	env.server = NewRouter(env.handler, mw).Setup()
	return env
}

func (e *testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Error
}

var (
	_ Store           = (*fakeStore)(nil)
	_ Charts          = (*fakeCharts)(nil)
	_ HappinessReader = (*fakeHappiness)(nil)
)
