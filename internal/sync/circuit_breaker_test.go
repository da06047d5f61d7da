// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package sync

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/worldpulse/internal/metrics"
)

func TestBreakerOpensAfterFailures(t *testing.T) {
	b := NewBreaker("test-opens")

	if b.cb.State() != gobreaker.StateClosed {
		t.Fatalf("initial state = %v, want closed", b.cb.State())
	}

	failures := 0
	for i := 0; i < 10; i++ {
		_, err := b.execute(func() (any, error) {
			if i < 7 {
				return nil, errors.New("simulated upstream failure")
			}
			return "ok", nil
		})
		if err != nil {
			failures++
		}
	}
	if failures != 7 {
		t.Fatalf("failures = %d, want 7", failures)
	}

	// ReadyToTrip runs on failure, so one more failure with >= 10 requests trips it.
	_, _ = b.execute(func() (any, error) {
		return nil, errors.New("final failure")
	})
	if b.State() != "open" {
		t.Fatalf("state = %s, want open", b.State())
	}

	_, err := b.execute(func() (any, error) {
		t.Error("call should not run while open")
		return nil, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
	if !isRejection(err) {
		t.Error("isRejection() = false for open state error")
	}

	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-opens")); got != 2 {
		t.Errorf("state gauge = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-opens", "rejected")); got != 1 {
		t.Errorf("rejected counter = %v, want 1", got)
	}
}

func TestBreakerStaysClosedBelowMinimum(t *testing.T) {
	b := NewBreaker("test-minimum")
	for i := 0; i < 9; i++ {
		_, _ = b.execute(func() (any, error) {
			return nil, errors.New("fail")
		})
	}
	if b.State() != "closed" {
		t.Errorf("state = %s, want closed below 10 requests", b.State())
	}
}

func TestRunRestoresType(t *testing.T) {
	b := NewBreaker("test-run")

	got, err := run(b, func() ([]int, error) {
		return []int{1, 2}, nil
	})
	if err != nil || len(got) != 2 {
		t.Errorf("run() = %v, %v", got, err)
	}

	empty, err := run(b, func() ([]int, error) {
		return nil, errors.New("boom")
	})
	if err == nil || empty != nil {
		t.Errorf("run() = %v, %v; want nil slice and error", empty, err)
	}
}

func TestStateHelpers(t *testing.T) {
	tests := []struct {
		state gobreaker.State
		str   string
		num   float64
	}{
		{gobreaker.StateClosed, "closed", 0},
		{gobreaker.StateHalfOpen, "half-open", 1},
		{gobreaker.StateOpen, "open", 2},
	}
	for _, tt := range tests {
		if got := stateToString(tt.state); got != tt.str {
			t.Errorf("stateToString(%v) = %s, want %s", tt.state, got, tt.str)
		}
		if got := stateToFloat(tt.state); got != tt.num {
			t.Errorf("stateToFloat(%v) = %v, want %v", tt.state, got, tt.num)
		}
	}
}
