// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package api

import (
	"context"
	"net/http"
	"time"
)

// readinessTimeout bounds the store ping of the readiness probe.
const readinessTimeout = 2 * time.Second

// HealthLive reports that the process is up, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady answers 200 when the store responds to a ping and 503
// otherwise. Upstream breaker states are reported but never fail the probe.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	body := map[string]interface{}{
		"ready":    true,
		"database": "ok",
	}
	status := http.StatusOK

	if h.store == nil {
		body["ready"] = false
		body["database"] = "not configured"
		status = http.StatusServiceUnavailable
	} else if err := h.store.Ping(ctx); err != nil {
		body["ready"] = false
		body["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	if h.breakers != nil {
		body["upstreams"] = h.breakers.BreakerStates()
	}

	respondJSON(w, r, status, body)
}
