// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package reconcile

import (
	"context"
	"time"

	"github.com/tomtom215/worldpulse/internal/events"
	"github.com/tomtom215/worldpulse/internal/logging"
	"github.com/tomtom215/worldpulse/internal/models"
)

// Publisher receives one event per fetch-and-store round trip.
// Implemented by *events.Bus.
type Publisher interface {
	Publish(ctx context.Context, ev events.FetchCompleted) error
}

// report publishes the outcome of a round trip. Publish failures are logged
// only; bookkeeping never fails a read.
func (s *Service) report(ctx context.Context, dataSource, operation, subject string, start time.Time, res models.UpsertResult, err error) {
	if s.publisher == nil {
		return
	}
	ev := events.NewFetchCompleted(dataSource, operation, subject, start, res, err)
	if perr := s.publisher.Publish(ctx, ev); perr != nil {
		logging.Ctx(ctx).Warn().Err(perr).
			Str("operation", operation).
			Str("subject", subject).
			Msg("Failed to publish fetch event")
	}
}
