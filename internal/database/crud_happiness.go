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

const happinessSelect = `
	SELECT h.country_code, COALESCE(c.name, h.country_code), c.region, h.year,
	       h.happiness_score, h.gdp_per_capita, h.social_support, h.healthy_life_expectancy,
	       h.freedom_to_make_life_choices, h.generosity, h.perceptions_of_corruption,
	       h.confidence_in_national_government, h.dystopia_residual,
	       h.created_at, h.updated_at
	FROM happiness_observations h
	LEFT JOIN countries c ON c.code = h.country_code`

const happinessUpsert = `
	INSERT INTO happiness_observations (
		country_code, year, happiness_score, gdp_per_capita, social_support,
		healthy_life_expectancy, freedom_to_make_life_choices, generosity,
		perceptions_of_corruption, confidence_in_national_government, dystopia_residual
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func validateHappiness(h *models.HappinessObservation) error {
	if h.Year < config.MinHappinessYear || h.Year > config.MaxYear {
		return fmt.Errorf("%w: happiness year %d", ErrOutOfRange, h.Year)
	}
	if s := h.HappinessScore; s != nil && (*s < 0 || *s > 10) {
		return fmt.Errorf("%w: happiness score %.3f", ErrOutOfRange, *s)
	}
	return nil
}

func happinessArgs(h *models.HappinessObservation) []interface{} {
	return []interface{}{
		h.CountryCode, h.Year,
		nullableFloat(h.HappinessScore), nullableFloat(h.GDPPerCapita), nullableFloat(h.SocialSupport),
		nullableFloat(h.HealthyLifeExpectancy), nullableFloat(h.FreedomToMakeLifeChoices),
		nullableFloat(h.Generosity), nullableFloat(h.PerceptionsOfCorruption),
		nullableFloat(h.ConfidenceInNationalGovernment), nullableFloat(h.DystopiaResidual),
	}
}

// UpsertHappiness writes rows keyed by (country, year). A repeated key
// overwrites every metric column; the row itself is never duplicated.
func (db *DB) UpsertHappiness(ctx context.Context, obs []models.HappinessObservation) (models.UpsertResult, error) {
	var res models.UpsertResult
	if len(obs) == 0 {
		return res, nil
	}
	for i := range obs {
		if err := validateHappiness(&obs[i]); err != nil {
			return res, err
		}
	}

	err := db.withRetry(ctx, "upsert", "happiness_observations", func(ctx context.Context, tx *sql.Tx) error {
		res = models.UpsertResult{}
		for i := range obs {
			h := &obs[i]
			if err := requireCountry(ctx, tx, h.CountryCode); err != nil {
				return err
			}
			existed, err := keyExists(ctx, tx,
				`SELECT COUNT(*) FROM happiness_observations WHERE country_code = ? AND year = ?`, h.CountryCode, h.Year)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, happinessUpsert+`
				ON CONFLICT (country_code, year) DO UPDATE SET
					happiness_score = EXCLUDED.happiness_score,
					gdp_per_capita = EXCLUDED.gdp_per_capita,
					social_support = EXCLUDED.social_support,
					healthy_life_expectancy = EXCLUDED.healthy_life_expectancy,
					freedom_to_make_life_choices = EXCLUDED.freedom_to_make_life_choices,
					generosity = EXCLUDED.generosity,
					perceptions_of_corruption = EXCLUDED.perceptions_of_corruption,
					confidence_in_national_government = EXCLUDED.confidence_in_national_government,
					dystopia_residual = EXCLUDED.dystopia_residual,
					updated_at = ?`, append(happinessArgs(h), time.Now())...)
			if err != nil {
				return fmt.Errorf("failed to upsert happiness %s/%d: %w", h.CountryCode, h.Year, err)
			}
			res.Record(existed)
		}
		return nil
	})
	return res, err
}

// InsertHappinessIfAbsent writes rows whose key is not stored yet and leaves
// existing rows untouched. Returns the number of rows created.
func (db *DB) InsertHappinessIfAbsent(ctx context.Context, obs []models.HappinessObservation) (int, error) {
	for i := range obs {
		if err := validateHappiness(&obs[i]); err != nil {
			return 0, err
		}
	}

	created := 0
	err := db.withRetry(ctx, "insert", "happiness_observations", func(ctx context.Context, tx *sql.Tx) error {
		created = 0
		for i := range obs {
			h := &obs[i]
			if err := requireCountry(ctx, tx, h.CountryCode); err != nil {
				return err
			}
			result, err := tx.ExecContext(ctx, happinessUpsert+` ON CONFLICT (country_code, year) DO NOTHING`, happinessArgs(h)...)
			if err != nil {
				return fmt.Errorf("failed to insert happiness %s/%d: %w", h.CountryCode, h.Year, err)
			}
			if n, err := result.RowsAffected(); err == nil {
				created += int(n)
			}
		}
		return nil
	})
	return created, err
}

// GetHappiness returns the stored row for (country, year), or nil, nil.
func (db *DB) GetHappiness(ctx context.Context, countryCode string, year int) (*models.HappinessObservation, error) {
	rows, err := db.ListHappiness(ctx, models.ObservationFilter{CountryCode: countryCode, Year: year})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// GetHappinessHistory returns every stored row of one country ordered by year.
// A zero-valued window means all years.
func (db *DB) GetHappinessHistory(ctx context.Context, countryCode string, r models.YearRange) ([]models.HappinessObservation, error) {
	return db.ListHappiness(ctx, models.ObservationFilter{CountryCode: countryCode, StartYear: r.Start, EndYear: r.End})
}

// HappinessForYear returns all rows of one report year with each country's
// region, ordered by country name.
func (db *DB) HappinessForYear(ctx context.Context, year int) ([]models.HappinessObservation, error) {
	return db.listHappiness(ctx, models.ObservationFilter{Year: year}, ` ORDER BY c.name, h.country_code`)
}

// ListHappiness returns rows matching filter ordered by year.
func (db *DB) ListHappiness(ctx context.Context, filter models.ObservationFilter) ([]models.HappinessObservation, error) {
	return db.listHappiness(ctx, filter, ` ORDER BY h.year, c.name, h.country_code`)
}

func (db *DB) listHappiness(ctx context.Context, filter models.ObservationFilter, orderBy string) ([]models.HappinessObservation, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var w whereBuilder
	if filter.CountryCode != "" {
		w.add("h.country_code = ?", filter.CountryCode)
	}
	if filter.Region != "" {
		w.add("c.region = ?", filter.Region)
	}
	applyYearFilter(&w, "h.year", filter)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, happinessSelect+w.String()+orderBy, w.args...)
	if err != nil {
		observe("select", "happiness_observations", start, err)
		return nil, fmt.Errorf("failed to query happiness observations: %w", err)
	}
	defer rows.Close()

	out := []models.HappinessObservation{}
	for rows.Next() {
		var h models.HappinessObservation
		if err := rows.Scan(&h.CountryCode, &h.CountryName, &h.Region, &h.Year,
			&h.HappinessScore, &h.GDPPerCapita, &h.SocialSupport, &h.HealthyLifeExpectancy,
			&h.FreedomToMakeLifeChoices, &h.Generosity, &h.PerceptionsOfCorruption,
			&h.ConfidenceInNationalGovernment, &h.DystopiaResidual,
			&h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan happiness observation: %w", err)
		}
		out = append(out, h)
	}
	observe("select", "happiness_observations", start, rows.Err())
	return out, rows.Err()
}
