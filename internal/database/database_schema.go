// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

/*
database_schema.go - Database Schema

Tables:
  - countries, indicators: catalog, keyed by code
  - worldbank_observations: PRIMARY KEY (country_code, indicator_code, year)
  - happiness_observations: PRIMARY KEY (country_code, year)
  - regional_aggregates: PRIMARY KEY (region, year)
  - data_sources, data_update_logs: upstream bookkeeping

Range constraints (years, happiness score) are CHECK constraints so that a
bad row cannot be written even by a future code path that skips the Go-side
checks.

Referential integrity is enforced in the write transactions
(requireCountry, requireIndicator) instead of FOREIGN KEY clauses: DuckDB
rejects ON CONFLICT DO UPDATE on a parent row that is referenced by a
foreign key, which would make catalog refreshes fail.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

func getTableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS countries (
			code VARCHAR(3) PRIMARY KEY,
			name VARCHAR NOT NULL,
			region VARCHAR,
			income_group VARCHAR,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS indicators (
			code VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL,
			unit VARCHAR NOT NULL DEFAULT '',
			description VARCHAR NOT NULL DEFAULT '',
			source VARCHAR NOT NULL DEFAULT 'World Bank',
			topic VARCHAR NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS worldbank_observations (
			country_code VARCHAR(3) NOT NULL,
			indicator_code VARCHAR NOT NULL,
			year INTEGER NOT NULL CHECK (year BETWEEN 1960 AND 2030),
			value DOUBLE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (country_code, indicator_code, year)
		)`,
		`CREATE TABLE IF NOT EXISTS happiness_observations (
			country_code VARCHAR(3) NOT NULL,
			year INTEGER NOT NULL CHECK (year BETWEEN 2005 AND 2030),
			happiness_score DOUBLE CHECK (happiness_score IS NULL OR happiness_score BETWEEN 0 AND 10),
			gdp_per_capita DOUBLE,
			social_support DOUBLE,
			healthy_life_expectancy DOUBLE,
			freedom_to_make_life_choices DOUBLE,
			generosity DOUBLE,
			perceptions_of_corruption DOUBLE,
			confidence_in_national_government DOUBLE,
			dystopia_residual DOUBLE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (country_code, year)
		)`,
		`CREATE TABLE IF NOT EXISTS regional_aggregates (
			region VARCHAR NOT NULL,
			year INTEGER NOT NULL CHECK (year BETWEEN 2005 AND 2030),
			avg_happiness_score DOUBLE CHECK (avg_happiness_score IS NULL OR avg_happiness_score BETWEEN 0 AND 10),
			countries_count INTEGER NOT NULL DEFAULT 0 CHECK (countries_count >= 0),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (region, year)
		)`,
		`CREATE SEQUENCE IF NOT EXISTS data_sources_id_seq START 1`,
		`CREATE TABLE IF NOT EXISTS data_sources (
			id BIGINT PRIMARY KEY DEFAULT nextval('data_sources_id_seq'),
			name VARCHAR NOT NULL UNIQUE,
			source_type VARCHAR NOT NULL CHECK (source_type IN ('worldbank', 'happiness_report', 'custom')),
			url VARCHAR NOT NULL DEFAULT '',
			last_updated TIMESTAMP,
			update_frequency VARCHAR NOT NULL DEFAULT '',
			description VARCHAR NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE SEQUENCE IF NOT EXISTS data_update_logs_id_seq START 1`,
		`CREATE TABLE IF NOT EXISTS data_update_logs (
			id BIGINT PRIMARY KEY DEFAULT nextval('data_update_logs_id_seq'),
			data_source VARCHAR NOT NULL,
			status VARCHAR NOT NULL CHECK (status IN ('pending', 'running', 'completed', 'failed')),
			started_at TIMESTAMP NOT NULL,
			completed_at TIMESTAMP,
			records_processed INTEGER NOT NULL DEFAULT 0,
			records_created INTEGER NOT NULL DEFAULT 0,
			records_updated INTEGER NOT NULL DEFAULT 0,
			error_message VARCHAR NOT NULL DEFAULT ''
		)`,
	}
}
