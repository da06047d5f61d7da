// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/worldpulse/internal/config"
	"github.com/tomtom215/worldpulse/internal/events"
	"github.com/tomtom215/worldpulse/internal/logging"
	"github.com/tomtom215/worldpulse/internal/metrics"
	"github.com/tomtom215/worldpulse/internal/models"
)

// Store-write metric labels.
const (
	writesWorldBank = "worldbank"
	writesHappiness = "happiness"
	writesRegional  = "regional"
	writesCatalog   = "catalog"
)

// fetchWorldBankSeries is one fetch-and-store round trip. Failures are
// reported and logged, never returned.
func (s *Service) fetchWorldBankSeries(ctx context.Context, country, indicator string, r models.YearRange) {
	start := time.Now()
	values, err := s.fetcher.FetchWorldBankSeries(ctx, country, indicator, r)
	values = inWindow(values, r)

	var res models.UpsertResult
	if err == nil && len(values) > 0 {
		res, err = s.writeWorldBank(ctx, country, indicator, values)
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).
				Str("country", country).
				Str("indicator", indicator).
				Msg("World Bank write-through failed")
		}
	}
	s.report(ctx, models.DataSourceWorldBank, events.OperationWorldBankSeries, country+"/"+indicator, start, res, err)
}

// writeWorldBank creates placeholder catalog rows for codes the catalog does
// not know yet, then upserts the values.
func (s *Service) writeWorldBank(ctx context.Context, country, indicator string, values []models.YearValue) (models.UpsertResult, error) {
	if _, err := s.store.EnsureCountry(ctx, country); err != nil {
		return models.UpsertResult{}, err
	}
	if _, err := s.store.EnsureIndicator(ctx, indicator); err != nil {
		return models.UpsertResult{}, err
	}
	res, err := s.store.UpsertWorldBankValues(ctx, country, indicator, values)
	if err != nil {
		return res, err
	}
	metrics.RecordStoreWrites(writesWorldBank, res.Created, res.Updated)
	return res, nil
}

// inWindow keeps values inside r and inside the storable year range.
func inWindow(values []models.YearValue, r models.YearRange) []models.YearValue {
	out := make([]models.YearValue, 0, len(values))
	for _, v := range values {
		if !r.Contains(v.Year) || v.Year < config.MinWorldBankYear || v.Year > config.MaxYear {
			continue
		}
		out = append(out, v)
	}
	return out
}

// fetchHappiness downloads one report year and stores only the requested
// country's row. A stored regional rollup for that year is recomputed so it
// does not go stale.
func (s *Service) fetchHappiness(ctx context.Context, country string, year int) {
	if year < config.MinHappinessYear || year > config.MaxYear {
		return
	}

	start := time.Now()
	rows, err := s.fetcher.FetchHappiness(ctx, year)

	var res models.UpsertResult
	if err == nil {
		for i := range rows {
			if rows[i].CountryCode != country {
				continue
			}
			res, err = s.store.UpsertHappiness(ctx, rows[i:i+1])
			if err != nil {
				logging.Ctx(ctx).Error().Err(err).Str("country", country).Int("year", year).Msg("Happiness write-through failed")
			}
			break
		}
	}
	metrics.RecordStoreWrites(writesHappiness, res.Created, res.Updated)
	s.report(ctx, models.DataSourceHappiness, events.OperationHappinessYear, fmt.Sprintf("%s/%d", country, year), start, res, err)

	if res.Processed > 0 {
		s.refreshRegional(ctx, year)
	}
}

func (s *Service) refreshRegional(ctx context.Context, year int) {
	stored, err := s.store.ListRegionalAggregates(ctx, models.ObservationFilter{Year: year})
	if err != nil || len(stored) == 0 {
		return
	}
	if _, err := s.MaterializeRegional(ctx, year); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int("year", year).Msg("Regional rollup refresh failed")
	}
}
