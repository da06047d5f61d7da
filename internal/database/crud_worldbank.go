// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/worldpulse/internal/config"
	"github.com/tomtom215/worldpulse/internal/models"
)

const worldBankSelect = `
	SELECT o.country_code, COALESCE(c.name, o.country_code), o.indicator_code, COALESCE(i.name, o.indicator_code),
	       o.year, o.value, o.created_at, o.updated_at
	FROM worldbank_observations o
	LEFT JOIN countries c ON c.code = o.country_code
	LEFT JOIN indicators i ON i.code = o.indicator_code`

// UpsertWorldBankValues writes a fetched series keyed by
// (country, indicator, year). Writing the same key again overwrites the value
// and never adds a row. Country and indicator must already be in the catalog.
func (db *DB) UpsertWorldBankValues(ctx context.Context, countryCode, indicatorCode string, values []models.YearValue) (models.UpsertResult, error) {
	var res models.UpsertResult
	if len(values) == 0 {
		return res, nil
	}
	for _, v := range values {
		if v.Year < config.MinWorldBankYear || v.Year > config.MaxYear {
			return res, fmt.Errorf("%w: world bank year %d", ErrOutOfRange, v.Year)
		}
	}

	err := db.withRetry(ctx, "upsert", "worldbank_observations", func(ctx context.Context, tx *sql.Tx) error {
		res = models.UpsertResult{}
		if err := requireCountry(ctx, tx, countryCode); err != nil {
			return err
		}
		if err := requireIndicator(ctx, tx, indicatorCode); err != nil {
			return err
		}
		for _, v := range values {
			existed, err := keyExists(ctx, tx,
				`SELECT COUNT(*) FROM worldbank_observations WHERE country_code = ? AND indicator_code = ? AND year = ?`,
				countryCode, indicatorCode, v.Year)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO worldbank_observations (country_code, indicator_code, year, value)
				VALUES (?, ?, ?, ?)
				ON CONFLICT (country_code, indicator_code, year) DO UPDATE SET
					value = EXCLUDED.value,
					updated_at = ?`,
				countryCode, indicatorCode, v.Year, v.Value, time.Now())
			if err != nil {
				return fmt.Errorf("failed to upsert world bank value %s/%s/%d: %w", countryCode, indicatorCode, v.Year, err)
			}
			res.Record(existed)
		}
		return nil
	})
	return res, err
}

// GetWorldBankSeries returns the stored rows for one country and indicator
// within r, ordered by year. Rows with a null value are included.
func (db *DB) GetWorldBankSeries(ctx context.Context, countryCode, indicatorCode string, r models.YearRange) ([]models.WorldBankObservation, error) {
	return db.ListWorldBankObservations(ctx, models.ObservationFilter{
		CountryCode:   countryCode,
		IndicatorCode: indicatorCode,
		StartYear:     r.Start,
		EndYear:       r.End,
	})
}

// ListWorldBankObservations returns rows matching filter ordered by year.
func (db *DB) ListWorldBankObservations(ctx context.Context, filter models.ObservationFilter) ([]models.WorldBankObservation, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var w whereBuilder
	if filter.CountryCode != "" {
		w.add("o.country_code = ?", filter.CountryCode)
	}
	if filter.IndicatorCode != "" {
		w.add("o.indicator_code = ?", filter.IndicatorCode)
	}
	if filter.Region != "" {
		w.add("c.region = ?", filter.Region)
	}
	applyYearFilter(&w, "o.year", filter)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, worldBankSelect+w.String()+` ORDER BY o.year, c.name, o.country_code, o.indicator_code`, w.args...)
	if err != nil {
		observe("select", "worldbank_observations", start, err)
		return nil, fmt.Errorf("failed to query world bank observations: %w", err)
	}
	defer rows.Close()

	out := []models.WorldBankObservation{}
	for rows.Next() {
		var o models.WorldBankObservation
		if err := rows.Scan(&o.CountryCode, &o.CountryName, &o.IndicatorCode, &o.IndicatorName,
			&o.Year, &o.Value, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan world bank observation: %w", err)
		}
		out = append(out, o)
	}
	observe("select", "worldbank_observations", start, rows.Err())
	return out, rows.Err()
}

// RegionalIndicatorValues returns one indicator for one year across every
// country of a region, with country names resolved.
func (db *DB) RegionalIndicatorValues(ctx context.Context, region, indicatorCode string, year int) ([]models.WorldBankObservation, error) {
	return db.ListWorldBankObservations(ctx, models.ObservationFilter{
		Region:        region,
		IndicatorCode: indicatorCode,
		Year:          year,
	})
}

// applyYearFilter prefers an exact year over the start/end window.
func applyYearFilter(w *whereBuilder, column string, filter models.ObservationFilter) {
	switch {
	case filter.Year != 0:
		w.add(column+" = ?", filter.Year)
	default:
		if filter.StartYear != 0 {
			w.add(column+" >= ?", filter.StartYear)
		}
		if filter.EndYear != 0 {
			w.add(column+" <= ?", filter.EndYear)
		}
	}
}
