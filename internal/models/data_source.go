// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package models

import "time"

// Source types.
const (
	SourceTypeWorldBank = "worldbank"
	SourceTypeHappiness = "happiness_report"
	SourceTypeCustom    = "custom"
)

// Well-known data source names, seeded at startup.
const (
	DataSourceWorldBank = "World Bank Open Data"
	DataSourceHappiness = "World Happiness Report"
)

// Update log statuses.
const (
	UpdateStatusPending   = "pending"
	UpdateStatusRunning   = "running"
	UpdateStatusCompleted = "completed"
	UpdateStatusFailed    = "failed"
)

// DataSource describes one upstream provider.
type DataSource struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	SourceType      string     `json:"source_type"`
	URL             string     `json:"url"`
	LastUpdated     *time.Time `json:"last_updated"`
	UpdateFrequency string     `json:"update_frequency"`
	Description     string     `json:"description"`
	IsActive        bool       `json:"is_active"`
}

// DataUpdateLog records the outcome of one fetch-and-store round trip.
type DataUpdateLog struct {
	ID               int64      `json:"id"`
	DataSourceName   string     `json:"data_source"`
	Status           string     `json:"status"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	RecordsProcessed int        `json:"records_processed"`
	RecordsCreated   int        `json:"records_created"`
	RecordsUpdated   int        `json:"records_updated"`
	ErrorMessage     string     `json:"error_message,omitempty"`
}

// UpsertResult counts what a batch upsert did.
type UpsertResult struct {
	Processed int
	Created   int
	Updated   int
}

// Add accumulates another result.
func (r *UpsertResult) Add(o UpsertResult) {
	r.Processed += o.Processed
	r.Created += o.Created
	r.Updated += o.Updated
}

// Record counts one processed row that either already existed or was created.
func (r *UpsertResult) Record(existed bool) {
	r.Processed++
	if existed {
		r.Updated++
	} else {
		r.Created++
	}
}
