// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/worldpulse/internal/models"
)

const countryColumns = `code, name, region, income_group, created_at, updated_at`

const indicatorColumns = `code, name, unit, description, source, topic, created_at, updated_at`

// UpsertCountries inserts or updates countries by code. Descriptive fields
// are overwritten, created_at is preserved.
func (db *DB) UpsertCountries(ctx context.Context, countries []models.Country) (models.UpsertResult, error) {
	var res models.UpsertResult
	if len(countries) == 0 {
		return res, nil
	}

	err := db.withRetry(ctx, "upsert", "countries", func(ctx context.Context, tx *sql.Tx) error {
		res = models.UpsertResult{}
		for i := range countries {
			c := &countries[i]
			if c.Code == "" || len(c.Code) > 3 {
				return fmt.Errorf("%w: country code %q", ErrOutOfRange, c.Code)
			}
			existed, err := keyExists(ctx, tx, `SELECT COUNT(*) FROM countries WHERE code = ?`, c.Code)
			if err != nil {
				return err
			}
			name := c.Name
			if name == "" {
				name = c.Code
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO countries (code, name, region, income_group)
				VALUES (?, ?, ?, ?)
				ON CONFLICT (code) DO UPDATE SET
					name = EXCLUDED.name,
					region = EXCLUDED.region,
					income_group = EXCLUDED.income_group,
					updated_at = ?`,
				c.Code, name, nullableString(c.Region), nullableString(c.IncomeGroup), time.Now())
			if err != nil {
				return fmt.Errorf("failed to upsert country %s: %w", c.Code, err)
			}
			res.Record(existed)
		}
		return nil
	})
	return res, err
}

// UpsertCountry is UpsertCountries for a single entry.
func (db *DB) UpsertCountry(ctx context.Context, c *models.Country) error {
	_, err := db.UpsertCountries(ctx, []models.Country{*c})
	return err
}

// EnsureCountry returns the country, creating a placeholder named after its
// code when it is not in the catalog yet. An existing row is never modified.
func (db *DB) EnsureCountry(ctx context.Context, code string) (*models.Country, error) {
	err := db.withRetry(ctx, "ensure", "countries", func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO countries (code, name) VALUES (?, ?) ON CONFLICT (code) DO NOTHING`, code, code)
		if err != nil {
			return fmt.Errorf("failed to ensure country %s: %w", code, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetCountry(ctx, code)
}

// GetCountry returns nil, nil when the code is unknown.
func (db *DB) GetCountry(ctx context.Context, code string) (*models.Country, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, `SELECT `+countryColumns+` FROM countries WHERE code = ?`, code)
	c, err := scanCountry(row)
	observe("select", "countries", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// FindCountryByName matches the stored display name case-insensitively.
// Returns nil, nil when nothing matches.
func (db *DB) FindCountryByName(ctx context.Context, name string) (*models.Country, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+countryColumns+` FROM countries WHERE lower(name) = lower(?) ORDER BY code LIMIT 1`, name)
	c, err := scanCountry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// ListCountries returns countries ordered by name.
func (db *DB) ListCountries(ctx context.Context, filter models.CountryFilter) ([]models.Country, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var w whereBuilder
	if filter.Region != "" {
		w.add("region = ?", filter.Region)
	}
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `SELECT `+countryColumns+` FROM countries`+w.String()+` ORDER BY name, code`, w.args...)
	if err != nil {
		observe("select", "countries", start, err)
		return nil, fmt.Errorf("failed to query countries: %w", err)
	}
	defer rows.Close()

	countries := []models.Country{}
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, err
		}
		countries = append(countries, *c)
	}
	observe("select", "countries", start, rows.Err())
	return countries, rows.Err()
}

// ListRegions returns the distinct non-null regions in alphabetical order.
func (db *DB) ListRegions(ctx context.Context) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT DISTINCT region FROM countries WHERE region IS NOT NULL AND region <> '' ORDER BY region`)
	if err != nil {
		return nil, fmt.Errorf("failed to query regions: %w", err)
	}
	defer rows.Close()

	regions := []string{}
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, fmt.Errorf("failed to scan region: %w", err)
		}
		regions = append(regions, r)
	}
	return regions, rows.Err()
}

// UpsertIndicators inserts or updates indicators by code.
func (db *DB) UpsertIndicators(ctx context.Context, indicators []models.Indicator) (models.UpsertResult, error) {
	var res models.UpsertResult
	if len(indicators) == 0 {
		return res, nil
	}

	err := db.withRetry(ctx, "upsert", "indicators", func(ctx context.Context, tx *sql.Tx) error {
		res = models.UpsertResult{}
		for i := range indicators {
			ind := &indicators[i]
			if ind.Code == "" || len(ind.Code) > 50 {
				return fmt.Errorf("%w: indicator code %q", ErrOutOfRange, ind.Code)
			}
			existed, err := keyExists(ctx, tx, `SELECT COUNT(*) FROM indicators WHERE code = ?`, ind.Code)
			if err != nil {
				return err
			}
			name := ind.Name
			if name == "" {
				name = ind.Code
			}
			source := ind.Source
			if source == "" {
				source = "World Bank"
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO indicators (code, name, unit, description, source, topic)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT (code) DO UPDATE SET
					name = EXCLUDED.name,
					unit = EXCLUDED.unit,
					description = EXCLUDED.description,
					source = EXCLUDED.source,
					topic = EXCLUDED.topic,
					updated_at = ?`,
				ind.Code, name, ind.Unit, ind.Description, source, ind.Topic, time.Now())
			if err != nil {
				return fmt.Errorf("failed to upsert indicator %s: %w", ind.Code, err)
			}
			res.Record(existed)
		}
		return nil
	})
	return res, err
}

// EnsureIndicator returns the indicator, creating a placeholder named after
// its code when missing.
func (db *DB) EnsureIndicator(ctx context.Context, code string) (*models.Indicator, error) {
	err := db.withRetry(ctx, "ensure", "indicators", func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO indicators (code, name) VALUES (?, ?) ON CONFLICT (code) DO NOTHING`, code, code)
		if err != nil {
			return fmt.Errorf("failed to ensure indicator %s: %w", code, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetIndicator(ctx, code)
}

// GetIndicator returns nil, nil when the code is unknown.
func (db *DB) GetIndicator(ctx context.Context, code string) (*models.Indicator, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `SELECT `+indicatorColumns+` FROM indicators WHERE code = ?`, code)
	ind, err := scanIndicator(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return ind, err
}

// ListIndicators returns indicators ordered by name.
func (db *DB) ListIndicators(ctx context.Context, filter models.IndicatorFilter) ([]models.Indicator, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var w whereBuilder
	if filter.Topic != "" {
		w.add("topic = ?", filter.Topic)
	}
	rows, err := db.conn.QueryContext(ctx, `SELECT `+indicatorColumns+` FROM indicators`+w.String()+` ORDER BY name, code`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query indicators: %w", err)
	}
	defer rows.Close()

	indicators := []models.Indicator{}
	for rows.Next() {
		ind, err := scanIndicator(rows)
		if err != nil {
			return nil, err
		}
		indicators = append(indicators, *ind)
	}
	return indicators, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCountry(row rowScanner) (*models.Country, error) {
	c := &models.Country{}
	if err := row.Scan(&c.Code, &c.Name, &c.Region, &c.IncomeGroup, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan country: %w", err)
	}
	return c, nil
}

func scanIndicator(row rowScanner) (*models.Indicator, error) {
	ind := &models.Indicator{}
	if err := row.Scan(&ind.Code, &ind.Name, &ind.Unit, &ind.Description, &ind.Source, &ind.Topic,
		&ind.CreatedAt, &ind.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan indicator: %w", err)
	}
	return ind, nil
}

// keyExists runs a COUNT(*) query inside tx.
func keyExists(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check existing row: %w", err)
	}
	return n > 0, nil
}

// requireCountry enforces referential integrity for observation writes.
func requireCountry(ctx context.Context, tx *sql.Tx, code string) error {
	ok, err := keyExists(ctx, tx, `SELECT COUNT(*) FROM countries WHERE code = ?`, code)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCountry, code)
	}
	return nil
}

func requireIndicator(ctx context.Context, tx *sql.Tx, code string) error {
	ok, err := keyExists(ctx, tx, `SELECT COUNT(*) FROM indicators WHERE code = ?`, code)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownIndicator, code)
	}
	return nil
}
