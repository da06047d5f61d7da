// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/worldpulse/internal/catalog"
	"github.com/tomtom215/worldpulse/internal/logging"
	"github.com/tomtom215/worldpulse/internal/models"
)

// SeedCatalog upserts the static country, indicator and data source tables.
func (db *DB) SeedCatalog(ctx context.Context, cat catalog.Catalog) error {
	countries, err := db.UpsertCountries(ctx, cat.Countries)
	if err != nil {
		return fmt.Errorf("failed to seed countries: %w", err)
	}
	indicators, err := db.UpsertIndicators(ctx, cat.Indicators)
	if err != nil {
		return fmt.Errorf("failed to seed indicators: %w", err)
	}
	if err := db.UpsertDataSources(ctx, cat.DataSources); err != nil {
		return fmt.Errorf("failed to seed data sources: %w", err)
	}

	logging.Info().
		Int("countries_created", countries.Created).
		Int("countries_updated", countries.Updated).
		Int("indicators_created", indicators.Created).
		Int("indicators_updated", indicators.Updated).
		Msg("Seeded catalog")
	return nil
}

// SeedSampleHappiness loads demo rows without overwriting anything already
// stored. Rows for countries missing from the catalog are skipped.
func (db *DB) SeedSampleHappiness(ctx context.Context, rows []models.HappinessObservation) error {
	usable := make([]models.HappinessObservation, 0, len(rows))
	for _, r := range rows {
		c, err := db.GetCountry(ctx, r.CountryCode)
		if err != nil {
			return err
		}
		if c == nil {
			logging.Warn().Str("country", r.CountryCode).Msg("Sample happiness row skipped, country not in catalog")
			continue
		}
		usable = append(usable, r)
	}

	created, err := db.InsertHappinessIfAbsent(ctx, usable)
	if err != nil {
		return fmt.Errorf("failed to seed sample happiness data: %w", err)
	}
	logging.Info().Int("created", created).Int("total", len(usable)).Msg("Seeded sample happiness data")
	return nil
}
