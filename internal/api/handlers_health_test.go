// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package api

import (
	"net/http"
	"testing"

	"github.com/goccy/go-json"
)

func TestHealthLive(t *testing.T) {
	env := newTestEnv(t)
	env.store.pingErr = errBoom

	rec := env.get(t, "/api/health/live")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 regardless of store", rec.Code)
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantReady  bool
	}{
		{"store up", nil, http.StatusOK, true},
		{"store down", errBoom, http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.store.pingErr = tt.pingErr
			env.handler.SetBreakerReporter(fakeBreakers{"worldbank": "open"})

			rec := env.get(t, "/api/health/ready")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body struct {
				Ready     bool              `json:"ready"`
				Upstreams map[string]string `json:"upstreams"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Ready != tt.wantReady {
				t.Errorf("ready = %v, want %v", body.Ready, tt.wantReady)
			}
			if body.Upstreams["worldbank"] != "open" {
				t.Errorf("upstreams = %v", body.Upstreams)
			}
		})
	}
}

func TestHealthReady_NilStore(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)
	rec := (&testEnv{server: NewRouter(h, nil).Setup()}).get(t, "/api/health/ready")

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
