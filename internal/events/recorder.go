// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/worldpulse/internal/logging"
	"github.com/tomtom215/worldpulse/internal/metrics"
	"github.com/tomtom215/worldpulse/internal/models"
)

const recorderHandlerName = "update-log-recorder"

// UpdateLogStore persists update logs.
type UpdateLogStore interface {
	RecordUpdate(ctx context.Context, entry *models.DataUpdateLog) (int64, error)
}

// Recorder consumes FetchCompleted events and writes data_update_logs rows.
// It implements suture.Service.
type Recorder struct {
	bus   *Bus
	store UpdateLogStore

	mu    sync.Mutex
	ready chan struct{}
}

// NewRecorder creates a recorder for bus.
func NewRecorder(bus *Bus, store UpdateLogStore) *Recorder {
	return &Recorder{
		bus:   bus,
		store: store,
		ready: make(chan struct{}),
	}
}

// Ready is closed once the recorder has subscribed for the first time.
// Publishers that must not lose startup events wait on it.
func (r *Recorder) Ready() <-chan struct{} {
	return r.ready
}

// Handle persists one event. Malformed payloads are acknowledged and dropped.
func (r *Recorder) Handle(msg *message.Message) error {
	ev, err := unmarshalEvent(msg.Payload)
	if err != nil {
		logging.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed fetch event")
		return nil
	}

	ctx := msg.Context()
	if cid := msg.Metadata.Get(correlationIDMetadata); cid != "" {
		ctx = logging.ContextWithCorrelationID(ctx, cid)
	}

	id, err := r.store.RecordUpdate(ctx, ev.UpdateLog())
	if err != nil {
		return fmt.Errorf("record update log: %w", err)
	}
	metrics.UpdateLogsRecorded.WithLabelValues(ev.Status).Inc()
	logging.Ctx(ctx).Debug().
		Int64("log_id", id).
		Str("data_source", ev.DataSource).
		Str("operation", ev.Operation).
		Str("status", ev.Status).
		Msg("Recorded update log")
	return nil
}

// Serve runs a watermill router until ctx is canceled. A fresh router is
// built on every call so the supervisor can restart it.
func (r *Recorder) Serve(ctx context.Context) error {
	logger := r.bus.Logger()
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, logger)
	if err != nil {
		return fmt.Errorf("create watermill router: %w", err)
	}

	router.AddMiddleware(middleware.Recoverer)
	retry := middleware.Retry{
		MaxRetries:      3,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          logger,
	}
	router.AddMiddleware(retry.Middleware)

	router.AddConsumerHandler(recorderHandlerName, TopicFetchCompleted, r.bus.Subscriber(), r.Handle)

	go func() {
		select {
		case <-router.Running():
			r.markReady()
		case <-ctx.Done():
		}
	}()

	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("update log recorder: %w", err)
	}
	return ctx.Err()
}

func (r *Recorder) markReady() {
	r.mu.Lock()
	defer r.mu.Unlock()
	select {
	case <-r.ready:
	default:
		close(r.ready)
	}
}

func (r *Recorder) String() string {
	return "update-log-recorder"
}

// WaitReady blocks until the recorder is subscribed, ctx ends or timeout
// elapses. It reports whether the recorder is ready.
func (r *Recorder) WaitReady(ctx context.Context, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-r.ready:
		return true
	case <-ctx.Done():
		return false
	case <-timer.C:
		logging.Warn().Dur("timeout", timeout).Msg("Update log recorder not ready, early events may be dropped")
		return false
	}
}
