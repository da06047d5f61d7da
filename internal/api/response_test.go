// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondError_Body(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	respondError(rec, req, http.StatusBadRequest, "country parameter is required")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeError(t, rec); got != "country parameter is required" {
		t.Errorf("error = %q", got)
	}
	if rec.Header().Get("ETag") != "" {
		t.Error("error responses should not carry an ETag")
	}
}

func TestGenerateETag_Stable(t *testing.T) {
	a := generateETag([]byte(`{"labels":[]}`))
	b := generateETag([]byte(`{"labels":[]}`))
	c := generateETag([]byte(`{"labels":["2020"]}`))

	if a != b {
		t.Error("same body must give the same ETag")
	}
	if a == c {
		t.Error("different bodies should give different ETags")
	}
}

func TestSanitizeLogValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/api/countries/", "/api/countries/"},
		{"/api/x\nforged=1", "/api/xforged=1"},
		{"tab\there", "tabhere"},
	}
	for _, tt := range tests {
		if got := sanitizeLogValue(tt.in); got != tt.want {
			t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
