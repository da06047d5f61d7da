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

// UpsertRegionalAggregates materializes regional rollups keyed by (region, year).
func (db *DB) UpsertRegionalAggregates(ctx context.Context, aggs []models.RegionalAggregate) (models.UpsertResult, error) {
	var res models.UpsertResult
	if len(aggs) == 0 {
		return res, nil
	}
	for _, a := range aggs {
		if a.Region == "" {
			return res, fmt.Errorf("%w: empty region", ErrOutOfRange)
		}
		if a.Year < config.MinHappinessYear || a.Year > config.MaxYear {
			return res, fmt.Errorf("%w: regional year %d", ErrOutOfRange, a.Year)
		}
		if s := a.AvgHappinessScore; s != nil && (*s < 0 || *s > 10) {
			return res, fmt.Errorf("%w: regional score %.3f", ErrOutOfRange, *s)
		}
	}

	err := db.withRetry(ctx, "upsert", "regional_aggregates", func(ctx context.Context, tx *sql.Tx) error {
		res = models.UpsertResult{}
		for _, a := range aggs {
			existed, err := keyExists(ctx, tx,
				`SELECT COUNT(*) FROM regional_aggregates WHERE region = ? AND year = ?`, a.Region, a.Year)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO regional_aggregates (region, year, avg_happiness_score, countries_count)
				VALUES (?, ?, ?, ?)
				ON CONFLICT (region, year) DO UPDATE SET
					avg_happiness_score = EXCLUDED.avg_happiness_score,
					countries_count = EXCLUDED.countries_count,
					updated_at = ?`,
				a.Region, a.Year, nullableFloat(a.AvgHappinessScore), a.CountriesCount, time.Now())
			if err != nil {
				return fmt.Errorf("failed to upsert regional aggregate %s/%d: %w", a.Region, a.Year, err)
			}
			res.Record(existed)
		}
		return nil
	})
	return res, err
}

// ListRegionalAggregates returns rows matching filter ordered by region, then year.
func (db *DB) ListRegionalAggregates(ctx context.Context, filter models.ObservationFilter) ([]models.RegionalAggregate, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var w whereBuilder
	if filter.Region != "" {
		w.add("region = ?", filter.Region)
	}
	applyYearFilter(&w, "year", filter)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT region, year, avg_happiness_score, countries_count, created_at, updated_at
		FROM regional_aggregates`+w.String()+` ORDER BY region, year`, w.args...)
	if err != nil {
		observe("select", "regional_aggregates", start, err)
		return nil, fmt.Errorf("failed to query regional aggregates: %w", err)
	}
	defer rows.Close()

	out := []models.RegionalAggregate{}
	for rows.Next() {
		var a models.RegionalAggregate
		if err := rows.Scan(&a.Region, &a.Year, &a.AvgHappinessScore, &a.CountriesCount, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan regional aggregate: %w", err)
		}
		out = append(out, a)
	}
	observe("select", "regional_aggregates", start, rows.Err())
	return out, rows.Err()
}
