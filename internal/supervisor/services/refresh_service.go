// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package services

import (
	"context"
	"time"

	"github.com/tomtom215/worldpulse/internal/config"
	"github.com/tomtom215/worldpulse/internal/logging"
	"github.com/tomtom215/worldpulse/internal/models"
)

// readyTimeout bounds how long the first run waits for the event recorder.
const readyTimeout = 5 * time.Second

// Refresher runs the bulk jobs. *reconcile.Service satisfies it.
type Refresher interface {
	RefreshCatalog(ctx context.Context) (models.UpsertResult, error)
	ImportHappiness(ctx context.Context, years []int) (models.UpsertResult, error)
}

// ReadyWaiter reports when event subscribers are attached, so the events
// published by the first run are not dropped. *events.Recorder satisfies it.
type ReadyWaiter interface {
	WaitReady(ctx context.Context, timeout time.Duration) bool
}

// RefreshService runs the enabled bulk jobs at startup and then every
// Interval. Job failures are logged and recorded in the update log by the
// reconcile layer; they never stop the service.
type RefreshService struct {
	refresher Refresher
	ready     ReadyWaiter
	cfg       config.SyncConfig
	years     []int
}

// NewRefreshService creates the service. ready may be nil.
func NewRefreshService(refresher Refresher, ready ReadyWaiter, cfg config.SyncConfig, years []int) *RefreshService {
	return &RefreshService{
		refresher: refresher,
		ready:     ready,
		cfg:       cfg,
		years:     years,
	}
}

// Serve implements suture.Service.
func (s *RefreshService) Serve(ctx context.Context) error {
	if !s.enabled() {
		<-ctx.Done()
		return ctx.Err()
	}

	if s.ready != nil && !s.ready.WaitReady(ctx, readyTimeout) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.Warn().Dur("timeout", readyTimeout).Msg("Event recorder not ready; update log may miss the first refresh")
	}

	s.RunOnce(ctx)

	if s.cfg.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce runs every enabled job once under a fresh correlation ID.
func (s *RefreshService) RunOnce(ctx context.Context) {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	logger := logging.Ctx(ctx)

	if s.cfg.RefreshCatalog {
		start := time.Now()
		res, err := s.refresher.RefreshCatalog(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Catalog refresh finished with errors")
		} else {
			logger.Info().
				Int("created", res.Created).
				Int("updated", res.Updated).
				Dur("duration", time.Since(start)).
				Msg("Catalog refreshed")
		}
	}

	if s.cfg.ImportOnStartup && len(s.years) > 0 {
		start := time.Now()
		res, err := s.refresher.ImportHappiness(ctx, s.years)
		if err != nil {
			logger.Warn().Err(err).Ints("years", s.years).Msg("Happiness import finished with errors")
		} else {
			logger.Info().
				Ints("years", s.years).
				Int("created", res.Created).
				Int("updated", res.Updated).
				Dur("duration", time.Since(start)).
				Msg("Happiness reports imported")
		}
	}
}

func (s *RefreshService) enabled() bool {
	return s.cfg.RefreshCatalog || (s.cfg.ImportOnStartup && len(s.years) > 0)
}

// String names the service in supervisor logs.
func (s *RefreshService) String() string {
	return "refresh"
}
