// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package aggregate

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/tomtom215/worldpulse/internal/logging"
	"github.com/tomtom215/worldpulse/internal/models"
)

// Store is the read-only part of the database the engine needs.
type Store interface {
	GetCountry(ctx context.Context, code string) (*models.Country, error)
	GetIndicator(ctx context.Context, code string) (*models.Indicator, error)
	ListRegionalAggregates(ctx context.Context, filter models.ObservationFilter) ([]models.RegionalAggregate, error)
	HappinessForYear(ctx context.Context, year int) ([]models.HappinessObservation, error)
	RegionalIndicatorValues(ctx context.Context, region, indicatorCode string, year int) ([]models.WorldBankObservation, error)
}

// Reconciler supplies series that may be fetched upstream on a miss.
type Reconciler interface {
	GetWorldBankSeries(ctx context.Context, country, indicator string, r models.YearRange) ([]models.WorldBankObservation, error)
	HappinessHistory(ctx context.Context, country string, r models.YearRange) ([]models.HappinessObservation, error)
}

// Engine builds every chart payload served by the API.
type Engine struct {
	store      Store
	reconciler Reconciler
	companions []string
}

// NewEngine creates an engine. companions are the indicator codes drawn
// next to happiness on the dashboard, in display order.
func NewEngine(store Store, reconciler Reconciler, companions []string) *Engine {
	return &Engine{
		store:      store,
		reconciler: reconciler,
		companions: slices.Clone(companions),
	}
}

// Trend is one indicator for one country over r, null values dropped.
func (e *Engine) Trend(ctx context.Context, country, indicator string, r models.YearRange) (models.ChartData, error) {
	defer e.trace(ctx, "trend", time.Now())

	rows, err := e.reconciler.GetWorldBankSeries(ctx, country, indicator, r)
	if err != nil {
		return models.ChartData{}, err
	}
	countryName, indicatorName, err := e.names(ctx, country, indicator)
	if err != nil {
		return models.ChartData{}, err
	}
	years, values := Trend(SeriesFromWorldBank(rows))
	return TrendChart(indicatorName, countryName, years, values), nil
}

// Comparison overlays an indicator and the happiness score on the years
// where both have a value.
func (e *Engine) Comparison(ctx context.Context, country, indicator string, r models.YearRange) (models.ChartData, error) {
	defer e.trace(ctx, "comparison", time.Now())

	wb, err := e.reconciler.GetWorldBankSeries(ctx, country, indicator, r)
	if err != nil {
		return models.ChartData{}, err
	}
	happiness, err := e.reconciler.HappinessHistory(ctx, country, r)
	if err != nil {
		return models.ChartData{}, err
	}
	countryName, indicatorName, err := e.names(ctx, country, indicator)
	if err != nil {
		return models.ChartData{}, err
	}
	years, wbValues, happinessValues := AlignIntersection(SeriesFromWorldBank(wb), SeriesFromHappiness(happiness))
	return ComparisonChart(indicatorName, countryName, years, wbValues, happinessValues), nil
}

// RegionalHappiness returns the stored rollup for year when one exists and
// computes it from country rows otherwise.
func (e *Engine) RegionalHappiness(ctx context.Context, year int) (models.ChartData, error) {
	defer e.trace(ctx, "regional", time.Now())

	aggs, err := e.Regional(ctx, year)
	if err != nil {
		return models.ChartData{}, err
	}
	return RegionalChart(year, aggs), nil
}

// Regional is the data behind RegionalHappiness. A stored aggregate is used
// for its region as-is; regions without one are computed from country rows.
func (e *Engine) Regional(ctx context.Context, year int) ([]models.RegionalAggregate, error) {
	stored, err := e.store.ListRegionalAggregates(ctx, models.ObservationFilter{Year: year})
	if err != nil {
		return nil, err
	}
	rows, err := e.store.HappinessForYear(ctx, year)
	if err != nil {
		return nil, err
	}
	return mergeRegional(stored, ComputeRegional(rows, year)), nil
}

// mergeRegional keeps computed order and substitutes the stored row for every
// region that has one. Stored regions with no country rows are appended.
func mergeRegional(stored, computed []models.RegionalAggregate) []models.RegionalAggregate {
	if len(stored) == 0 {
		return computed
	}
	byRegion := make(map[string]models.RegionalAggregate, len(stored))
	for _, a := range stored {
		byRegion[a.Region] = a
	}
	out := make([]models.RegionalAggregate, 0, len(computed)+len(stored))
	for _, a := range computed {
		if s, ok := byRegion[a.Region]; ok {
			a = s
			delete(byRegion, a.Region)
		}
		out = append(out, a)
	}
	for _, a := range stored {
		if _, ok := byRegion[a.Region]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Snapshot ranks the countries of a region by one indicator in one year.
func (e *Engine) Snapshot(ctx context.Context, region, indicator string, year int) (models.ChartData, error) {
	defer e.trace(ctx, "snapshot", time.Now())

	rows, err := e.store.RegionalIndicatorValues(ctx, region, indicator, year)
	if err != nil {
		return models.ChartData{}, err
	}
	ind, err := e.store.GetIndicator(ctx, indicator)
	if err != nil {
		return models.ChartData{}, fmt.Errorf("lookup indicator %s: %w", indicator, err)
	}
	return SnapshotChart(displayName(ind, indicator), year, RankDescending(rows)), nil
}

// Dashboard anchors on the country's happiness years within r and aligns
// every companion indicator to them. Companions with no rows at all are left
// out.
func (e *Engine) Dashboard(ctx context.Context, country string, r models.YearRange) (models.ChartData, error) {
	defer e.trace(ctx, "dashboard", time.Now())

	history, err := e.reconciler.HappinessHistory(ctx, country, r)
	if err != nil {
		return models.ChartData{}, err
	}
	years, happiness := Trend(SeriesFromHappiness(history))

	companions := make([]Companion, 0, len(e.companions))
	for _, code := range e.companions {
		rows, err := e.reconciler.GetWorldBankSeries(ctx, country, code, r)
		if err != nil {
			return models.ChartData{}, err
		}
		if len(rows) == 0 {
			continue
		}
		ind, err := e.store.GetIndicator(ctx, code)
		if err != nil {
			return models.ChartData{}, fmt.Errorf("lookup indicator %s: %w", code, err)
		}
		companions = append(companions, Companion{
			Label:  displayName(ind, code),
			Values: AlignToAnchor(years, SeriesFromWorldBank(rows)),
		})
	}
	return DashboardChart(years, happiness, companions), nil
}

func (e *Engine) names(ctx context.Context, country, indicator string) (countryName, indicatorName string, err error) {
	c, err := e.store.GetCountry(ctx, country)
	if err != nil {
		return "", "", fmt.Errorf("lookup country %s: %w", country, err)
	}
	ind, err := e.store.GetIndicator(ctx, indicator)
	if err != nil {
		return "", "", fmt.Errorf("lookup indicator %s: %w", indicator, err)
	}
	return displayName(c, country), displayName(ind, indicator), nil
}

type displayNamer interface {
	DisplayName() string
}

// displayName falls back to code when the entity is unknown.
func displayName[T displayNamer](entity T, code string) string {
	if name := entity.DisplayName(); name != "" {
		return name
	}
	return code
}

func (e *Engine) trace(ctx context.Context, chart string, start time.Time) {
	logging.Ctx(ctx).Debug().Str("chart", chart).Dur("duration", time.Since(start)).Msg("Chart built")
}
