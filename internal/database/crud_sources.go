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

	"github.com/tomtom215/worldpulse/internal/models"
)

// MaxUpdateLogLimit caps ListUpdateLogs.
const MaxUpdateLogLimit = 500

// UpsertDataSources registers upstream providers by name.
func (db *DB) UpsertDataSources(ctx context.Context, sources []models.DataSource) error {
	return db.withRetry(ctx, "upsert", "data_sources", func(ctx context.Context, tx *sql.Tx) error {
		for _, s := range sources {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO data_sources (name, source_type, url, update_frequency, description, is_active)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT (name) DO UPDATE SET
					source_type = EXCLUDED.source_type,
					url = EXCLUDED.url,
					update_frequency = EXCLUDED.update_frequency,
					description = EXCLUDED.description,
					is_active = EXCLUDED.is_active`,
				s.Name, s.SourceType, s.URL, s.UpdateFrequency, s.Description, s.IsActive)
			if err != nil {
				return fmt.Errorf("failed to upsert data source %s: %w", s.Name, err)
			}
		}
		return nil
	})
}

// ListDataSources returns all providers ordered by name.
func (db *DB) ListDataSources(ctx context.Context) ([]models.DataSource, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, source_type, url, last_updated, update_frequency, description, is_active
		FROM data_sources ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query data sources: %w", err)
	}
	defer rows.Close()

	out := []models.DataSource{}
	for rows.Next() {
		var s models.DataSource
		if err := rows.Scan(&s.ID, &s.Name, &s.SourceType, &s.URL, &s.LastUpdated,
			&s.UpdateFrequency, &s.Description, &s.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan data source: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// RecordUpdate stores a completed or failed update log and, on success,
// bumps the provider's last_updated timestamp. Returns the new log ID.
func (db *DB) RecordUpdate(ctx context.Context, entry *models.DataUpdateLog) (int64, error) {
	var id int64
	err := db.withRetry(ctx, "insert", "data_update_logs", func(ctx context.Context, tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO data_update_logs (
				data_source, status, started_at, completed_at,
				records_processed, records_created, records_updated, error_message
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			entry.DataSourceName, entry.Status, entry.StartedAt, entry.CompletedAt,
			entry.RecordsProcessed, entry.RecordsCreated, entry.RecordsUpdated, entry.ErrorMessage,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert update log: %w", err)
		}

		if entry.Status != models.UpdateStatusCompleted {
			return nil
		}
		completed := time.Now()
		if entry.CompletedAt != nil {
			completed = *entry.CompletedAt
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE data_sources SET last_updated = ? WHERE name = ?`, completed, entry.DataSourceName); err != nil {
			return fmt.Errorf("failed to touch data source %s: %w", entry.DataSourceName, err)
		}
		return nil
	})
	return id, err
}

// ListUpdateLogs returns the most recent logs first. limit is clamped to
// [1, MaxUpdateLogLimit].
func (db *DB) ListUpdateLogs(ctx context.Context, limit int) ([]models.DataUpdateLog, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}
	if limit > MaxUpdateLogLimit {
		limit = MaxUpdateLogLimit
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, data_source, status, started_at, completed_at,
		       records_processed, records_created, records_updated, error_message
		FROM data_update_logs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query update logs: %w", err)
	}
	defer rows.Close()

	out := []models.DataUpdateLog{}
	for rows.Next() {
		var l models.DataUpdateLog
		if err := rows.Scan(&l.ID, &l.DataSourceName, &l.Status, &l.StartedAt, &l.CompletedAt,
			&l.RecordsProcessed, &l.RecordsCreated, &l.RecordsUpdated, &l.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan update log: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
