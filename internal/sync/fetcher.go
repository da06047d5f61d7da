// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package sync

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/worldpulse/internal/logging"
	"github.com/tomtom215/worldpulse/internal/metrics"
	"github.com/tomtom215/worldpulse/internal/models"
)

// Breaker names.
const (
	WorldBankBreakerName = "worldbank-api"
	HappinessBreakerName = "happiness-csv"
)

// Fetcher is the upstream side of the reconciliation service. Every method
// returns an empty result together with the cause on failure; the caller
// decides whether that cause matters. Nothing here panics or aborts on bad
// rows.
type Fetcher struct {
	worldBank        *WorldBankClient
	happiness        *HappinessClient
	worldBankBreaker *Breaker
	happinessBreaker *Breaker
}

// NewFetcher wraps both clients in their own circuit breakers.
func NewFetcher(worldBank *WorldBankClient, happiness *HappinessClient) *Fetcher {
	return &Fetcher{
		worldBank:        worldBank,
		happiness:        happiness,
		worldBankBreaker: NewBreaker(WorldBankBreakerName),
		happinessBreaker: NewBreaker(HappinessBreakerName),
	}
}

// FetchWorldBankSeries returns the non-null values for (country, indicator)
// within r.
func (f *Fetcher) FetchWorldBankSeries(ctx context.Context, country, indicator string, r models.YearRange) ([]models.YearValue, error) {
	start := time.Now()
	values, err := run(f.worldBankBreaker, func() ([]models.YearValue, error) {
		return f.worldBank.Series(ctx, country, indicator, r)
	})
	f.report(ctx, sourceWorldBank, start, len(values), err).
		Str("country", country).
		Str("indicator", indicator).
		Msg("World Bank series fetch")
	if err != nil {
		return nil, err
	}
	return values, nil
}

// FetchCountries returns the World Bank country catalog.
func (f *Fetcher) FetchCountries(ctx context.Context) ([]models.Country, error) {
	start := time.Now()
	countries, err := run(f.worldBankBreaker, func() ([]models.Country, error) {
		return f.worldBank.Countries(ctx)
	})
	f.report(ctx, sourceWorldBank, start, len(countries), err).Msg("World Bank country catalog fetch")
	if err != nil {
		return nil, err
	}
	return countries, nil
}

// FetchIndicators returns the first page of the World Bank indicator catalog.
func (f *Fetcher) FetchIndicators(ctx context.Context) ([]models.Indicator, error) {
	start := time.Now()
	indicators, err := run(f.worldBankBreaker, func() ([]models.Indicator, error) {
		return f.worldBank.Indicators(ctx)
	})
	f.report(ctx, sourceWorldBank, start, len(indicators), err).Msg("World Bank indicator catalog fetch")
	if err != nil {
		return nil, err
	}
	return indicators, nil
}

// FetchHappiness returns every resolvable row of one report year.
func (f *Fetcher) FetchHappiness(ctx context.Context, year int) ([]models.HappinessObservation, error) {
	start := time.Now()
	rows, err := run(f.happinessBreaker, func() ([]models.HappinessObservation, error) {
		return f.happiness.Year(ctx, year)
	})
	f.report(ctx, sourceHappiness, start, len(rows), err).Int("year", year).Msg("Happiness report fetch")
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// BreakerStates returns the state of each upstream breaker by name.
func (f *Fetcher) BreakerStates() map[string]string {
	return map[string]string{
		f.worldBankBreaker.Name(): f.worldBankBreaker.State(),
		f.happinessBreaker.Name(): f.happinessBreaker.State(),
	}
}

// report records the fetch metrics and returns a log event at a level
// matching the outcome. The caller adds fields and sends it.
func (f *Fetcher) report(ctx context.Context, source string, start time.Time, records int, err error) *zerolog.Event {
	duration := time.Since(start)
	outcome := metrics.OutcomeSuccess
	switch {
	case err != nil && isRejection(err):
		outcome = metrics.OutcomeRejected
	case err != nil:
		outcome = metrics.OutcomeFailure
	case records == 0:
		outcome = metrics.OutcomeEmpty
	}
	metrics.RecordUpstreamFetch(source, outcome, duration, records)

	logger := logging.Ctx(ctx)
	var event *zerolog.Event
	if err != nil {
		event = logger.Warn().Err(err)
	} else {
		event = logger.Debug()
	}
	return event.
		Str("source", source).
		Str("outcome", outcome).
		Int("records", records).
		Dur("duration", duration)
}
