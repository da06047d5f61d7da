// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

// Package events carries fetch-and-store outcomes over an in-process
// watermill bus. The reconcile service publishes one FetchCompleted per round
// trip; the Recorder turns each into a data_update_logs row.
package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/worldpulse/internal/models"
)

// TopicFetchCompleted is the only topic on the bus.
const TopicFetchCompleted = "worldpulse.fetch.completed"

// Operations reported in FetchCompleted.Operation.
const (
	OperationWorldBankSeries = "worldbank_series"
	OperationHappinessYear   = "happiness_year"
	OperationCatalogRefresh  = "catalog_refresh"
	OperationHappinessImport = "happiness_import"
)

// FetchCompleted describes one fetch-and-store round trip.
type FetchCompleted struct {
	EventID     string    `json:"event_id"`
	DataSource  string    `json:"data_source"`
	Operation   string    `json:"operation"`
	Subject     string    `json:"subject,omitempty"`
	Status      string    `json:"status"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Processed   int       `json:"records_processed"`
	Created     int       `json:"records_created"`
	Updated     int       `json:"records_updated"`
	Error       string    `json:"error,omitempty"`
}

// NewFetchCompleted builds an event for a round trip that started at
// startedAt. err marks it failed.
func NewFetchCompleted(dataSource, operation, subject string, startedAt time.Time, res models.UpsertResult, err error) FetchCompleted {
	ev := FetchCompleted{
		EventID:     uuid.New().String(),
		DataSource:  dataSource,
		Operation:   operation,
		Subject:     subject,
		Status:      models.UpdateStatusCompleted,
		StartedAt:   startedAt,
		CompletedAt: time.Now(),
		Processed:   res.Processed,
		Created:     res.Created,
		Updated:     res.Updated,
	}
	if err != nil {
		ev.Status = models.UpdateStatusFailed
		ev.Error = err.Error()
	}
	return ev
}

// UpdateLog converts the event into the persisted log row.
func (e *FetchCompleted) UpdateLog() *models.DataUpdateLog {
	completed := e.CompletedAt
	msg := e.Error
	if e.Subject != "" && msg != "" {
		msg = fmt.Sprintf("%s (%s %s)", msg, e.Operation, e.Subject)
	}
	return &models.DataUpdateLog{
		DataSourceName:   e.DataSource,
		Status:           e.Status,
		StartedAt:        e.StartedAt,
		CompletedAt:      &completed,
		RecordsProcessed: e.Processed,
		RecordsCreated:   e.Created,
		RecordsUpdated:   e.Updated,
		ErrorMessage:     msg,
	}
}

func marshalEvent(e *FetchCompleted) ([]byte, error) {
	return json.Marshal(e)
}

func unmarshalEvent(payload []byte) (*FetchCompleted, error) {
	var e FetchCompleted
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
