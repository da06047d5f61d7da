// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

/*
Package reconcile is the cache-aside layer between the store and the
upstream fetchers.

Reads check the store first. On a miss the service fetches upstream, writes
the result through and reads the store again, so callers always see stored
rows. Upstream failures are logged and swallowed: a failed fetch looks the
same as an empty one. Only store failures reach the caller.

Every fetch-and-store round trip is reported on the event bus, where the
recorder turns it into a data_update_logs row.

Bulk Operations:
  - RefreshCatalog: upserts the World Bank country and indicator lists
  - ImportHappiness: upserts every resolvable row of the given report years
  - MaterializeRegional: stores the computed regional rollup of one year

Bulk operations are serialized by a mutex; on-demand reads are not.
*/
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tomtom215/worldpulse/internal/models"
)

// ErrNotFound is returned when a single requested row is neither stored nor
// available upstream.
var ErrNotFound = errors.New("not found")

// Store is the persistence the service reads and writes through.
type Store interface {
	GetCountry(ctx context.Context, code string) (*models.Country, error)
	EnsureCountry(ctx context.Context, code string) (*models.Country, error)
	EnsureIndicator(ctx context.Context, code string) (*models.Indicator, error)
	UpsertCountries(ctx context.Context, countries []models.Country) (models.UpsertResult, error)
	UpsertIndicators(ctx context.Context, indicators []models.Indicator) (models.UpsertResult, error)

	GetWorldBankSeries(ctx context.Context, countryCode, indicatorCode string, r models.YearRange) ([]models.WorldBankObservation, error)
	UpsertWorldBankValues(ctx context.Context, countryCode, indicatorCode string, values []models.YearValue) (models.UpsertResult, error)

	GetHappiness(ctx context.Context, countryCode string, year int) (*models.HappinessObservation, error)
	GetHappinessHistory(ctx context.Context, countryCode string, r models.YearRange) ([]models.HappinessObservation, error)
	HappinessForYear(ctx context.Context, year int) ([]models.HappinessObservation, error)
	UpsertHappiness(ctx context.Context, obs []models.HappinessObservation) (models.UpsertResult, error)

	ListRegionalAggregates(ctx context.Context, filter models.ObservationFilter) ([]models.RegionalAggregate, error)
	UpsertRegionalAggregates(ctx context.Context, aggs []models.RegionalAggregate) (models.UpsertResult, error)
}

// Fetcher is the upstream side. A non-nil error always comes with an empty
// result.
type Fetcher interface {
	FetchWorldBankSeries(ctx context.Context, country, indicator string, r models.YearRange) ([]models.YearValue, error)
	FetchCountries(ctx context.Context) ([]models.Country, error)
	FetchIndicators(ctx context.Context) ([]models.Indicator, error)
	FetchHappiness(ctx context.Context, year int) ([]models.HappinessObservation, error)
}

// Service implements the cache-aside reads and the bulk imports.
type Service struct {
	store     Store
	fetcher   Fetcher
	publisher Publisher

	bulkMu sync.Mutex
}

// NewService creates a service. publisher may be nil.
func NewService(store Store, fetcher Fetcher, publisher Publisher) *Service {
	return &Service{
		store:     store,
		fetcher:   fetcher,
		publisher: publisher,
	}
}

// GetWorldBankSeries returns the stored series for (country, indicator)
// within r ordered by year. When nothing is stored for the window it fetches
// the series upstream and writes it through first.
func (s *Service) GetWorldBankSeries(ctx context.Context, country, indicator string, r models.YearRange) ([]models.WorldBankObservation, error) {
	rows, err := s.store.GetWorldBankSeries(ctx, country, indicator, r)
	if err != nil {
		return nil, fmt.Errorf("read world bank series %s/%s: %w", country, indicator, err)
	}
	if len(rows) > 0 {
		return rows, nil
	}

	s.fetchWorldBankSeries(ctx, country, indicator, r)

	rows, err = s.store.GetWorldBankSeries(ctx, country, indicator, r)
	if err != nil {
		return nil, fmt.Errorf("read world bank series %s/%s: %w", country, indicator, err)
	}
	return rows, nil
}

// GetHappiness returns the row for (country, year). A missing row or a row
// without a score triggers one upstream fetch of that report year. If there
// is still no score afterwards, or the country is unknown, it returns
// ErrNotFound.
func (s *Service) GetHappiness(ctx context.Context, country string, year int) (*models.HappinessObservation, error) {
	c, err := s.store.GetCountry(ctx, country)
	if err != nil {
		return nil, fmt.Errorf("read country %s: %w", country, err)
	}
	if c == nil {
		return nil, fmt.Errorf("country %s: %w", country, ErrNotFound)
	}

	row, err := s.store.GetHappiness(ctx, country, year)
	if err != nil {
		return nil, fmt.Errorf("read happiness %s/%d: %w", country, year, err)
	}
	if hasScore(row) {
		return row, nil
	}

	s.fetchHappiness(ctx, country, year)

	row, err = s.store.GetHappiness(ctx, country, year)
	if err != nil {
		return nil, fmt.Errorf("read happiness %s/%d: %w", country, year, err)
	}
	if !hasScore(row) {
		return nil, fmt.Errorf("happiness %s/%d: %w", country, year, ErrNotFound)
	}
	return row, nil
}

// HappinessHistory returns the stored rows of a country within r that carry
// a score, ordered by year. A zero window means every year. It never fetches.
func (s *Service) HappinessHistory(ctx context.Context, country string, r models.YearRange) ([]models.HappinessObservation, error) {
	rows, err := s.store.GetHappinessHistory(ctx, country, r)
	if err != nil {
		return nil, fmt.Errorf("read happiness history %s: %w", country, err)
	}
	out := rows[:0]
	for i := range rows {
		if hasScore(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out, nil
}

func hasScore(row *models.HappinessObservation) bool {
	return row != nil && row.HappinessScore != nil
}
