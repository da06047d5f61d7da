// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tomtom215/worldpulse/internal/aggregate"
	"github.com/tomtom215/worldpulse/internal/events"
	"github.com/tomtom215/worldpulse/internal/logging"
	"github.com/tomtom215/worldpulse/internal/metrics"
	"github.com/tomtom215/worldpulse/internal/models"
)

// RefreshCatalog upserts the World Bank country and indicator lists. An
// upstream failure leaves the existing catalog untouched and is not returned.
func (s *Service) RefreshCatalog(ctx context.Context) (models.UpsertResult, error) {
	s.bulkMu.Lock()
	defer s.bulkMu.Unlock()

	start := time.Now()
	var total models.UpsertResult

	countries, countriesErr := s.fetcher.FetchCountries(ctx)
	if len(countries) > 0 {
		res, err := s.store.UpsertCountries(ctx, countries)
		if err != nil {
			s.report(ctx, models.DataSourceWorldBank, events.OperationCatalogRefresh, "countries", start, total, err)
			return total, fmt.Errorf("store countries: %w", err)
		}
		total.Add(res)
	}

	indicators, indicatorsErr := s.fetcher.FetchIndicators(ctx)
	if len(indicators) > 0 {
		res, err := s.store.UpsertIndicators(ctx, indicators)
		if err != nil {
			s.report(ctx, models.DataSourceWorldBank, events.OperationCatalogRefresh, "indicators", start, total, err)
			return total, fmt.Errorf("store indicators: %w", err)
		}
		total.Add(res)
	}

	metrics.RecordStoreWrites(writesCatalog, total.Created, total.Updated)
	s.report(ctx, models.DataSourceWorldBank, events.OperationCatalogRefresh, "", start, total, errors.Join(countriesErr, indicatorsErr))

	logging.Ctx(ctx).Info().
		Int("countries", len(countries)).
		Int("indicators", len(indicators)).
		Int("created", total.Created).
		Int("updated", total.Updated).
		Dur("duration", time.Since(start)).
		Msg("Catalog refresh finished")
	return total, nil
}

// ImportHappiness upserts every row of each report year whose country is in
// the catalog, then materializes that year's regional rollup.
func (s *Service) ImportHappiness(ctx context.Context, years []int) (models.UpsertResult, error) {
	s.bulkMu.Lock()
	defer s.bulkMu.Unlock()

	var total models.UpsertResult
	for _, year := range years {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		res, err := s.importYear(ctx, year)
		total.Add(res)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (s *Service) importYear(ctx context.Context, year int) (models.UpsertResult, error) {
	start := time.Now()
	subject := strconv.Itoa(year)
	logger := logging.Ctx(ctx)

	rows, fetchErr := s.fetcher.FetchHappiness(ctx, year)
	known, err := s.knownCountries(ctx, rows)
	if err != nil {
		return models.UpsertResult{}, err
	}

	var res models.UpsertResult
	if len(known) > 0 {
		res, err = s.store.UpsertHappiness(ctx, known)
		if err != nil {
			s.report(ctx, models.DataSourceHappiness, events.OperationHappinessImport, subject, start, res, err)
			return res, fmt.Errorf("store happiness %d: %w", year, err)
		}
		metrics.RecordStoreWrites(writesHappiness, res.Created, res.Updated)
	}
	s.report(ctx, models.DataSourceHappiness, events.OperationHappinessImport, subject, start, res, fetchErr)

	logger.Info().
		Int("year", year).
		Int("fetched", len(rows)).
		Int("stored", res.Processed).
		Int("skipped_unknown_country", len(rows)-len(known)).
		Msg("Happiness import finished")

	if res.Processed > 0 {
		if _, err := s.MaterializeRegional(ctx, year); err != nil {
			return res, err
		}
	}
	return res, nil
}

// knownCountries drops rows whose country code is not in the catalog.
// Override codes can point at countries the catalog never loaded.
func (s *Service) knownCountries(ctx context.Context, rows []models.HappinessObservation) ([]models.HappinessObservation, error) {
	seen := map[string]bool{}
	out := make([]models.HappinessObservation, 0, len(rows))
	for i := range rows {
		code := rows[i].CountryCode
		ok, checked := seen[code]
		if !checked {
			c, err := s.store.GetCountry(ctx, code)
			if err != nil {
				return nil, fmt.Errorf("read country %s: %w", code, err)
			}
			ok = c != nil
			seen[code] = ok
		}
		if ok {
			out = append(out, rows[i])
		}
	}
	return out, nil
}

// MaterializeRegional computes the regional rollup of year from the stored
// country rows and upserts it, so later rollups are served from the table.
func (s *Service) MaterializeRegional(ctx context.Context, year int) (models.UpsertResult, error) {
	rows, err := s.store.HappinessForYear(ctx, year)
	if err != nil {
		return models.UpsertResult{}, fmt.Errorf("read happiness %d: %w", year, err)
	}
	aggs := aggregate.ComputeRegional(rows, year)
	if len(aggs) == 0 {
		return models.UpsertResult{}, nil
	}
	res, err := s.store.UpsertRegionalAggregates(ctx, aggs)
	if err != nil {
		return res, fmt.Errorf("store regional aggregates %d: %w", year, err)
	}
	metrics.RecordStoreWrites(writesRegional, res.Created, res.Updated)
	logging.Ctx(ctx).Debug().Int("year", year).Int("regions", len(aggs)).Msg("Regional rollup materialized")
	return res, nil
}
