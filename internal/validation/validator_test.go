// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package validation

import (
	"strings"
	"testing"
)

// ===================================================================================================
// Singleton Validator Tests
// ===================================================================================================

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// ===================================================================================================
// ValidateStruct Tests
// ===================================================================================================

type windowRequest struct {
	Country   string `query:"country" validate:"required,countrycode"`
	Indicator string `query:"indicator" validate:"omitempty,indicatorcode"`
	StartYear int    `query:"start_year" validate:"gte=1960,lte=2030"`
	EndYear   int    `query:"end_year" validate:"gte=1960,lte=2030,gtefield=StartYear"`
	Limit     int    `query:"limit" validate:"min=1,max=500"`
}

func validWindow() windowRequest {
	return windowRequest{Country: "IN", Indicator: "NY.GDP.PCAP.CD", StartYear: 2000, EndYear: 2023, Limit: 50}
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*windowRequest)
	}{
		{name: "all valid fields", mutate: func(*windowRequest) {}},
		{name: "single year window", mutate: func(r *windowRequest) { r.StartYear, r.EndYear = 2020, 2020 }},
		{name: "three letter country", mutate: func(r *windowRequest) { r.Country = "IND" }},
		{name: "indicator omitted", mutate: func(r *windowRequest) { r.Indicator = "" }},
		{name: "lowest years", mutate: func(r *windowRequest) { r.StartYear, r.EndYear = 1960, 1960 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validWindow()
			tt.mutate(&req)
			if err := ValidateStruct(&req); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*windowRequest)
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{
			name:      "missing country",
			mutate:    func(r *windowRequest) { r.Country = "" },
			wantField: "country",
			wantTag:   "required",
			wantMsg:   "country parameter is required",
		},
		{
			name:      "country too long",
			mutate:    func(r *windowRequest) { r.Country = "INDIA" },
			wantField: "country",
			wantTag:   "countrycode",
		},
		{
			name:      "indicator with spaces",
			mutate:    func(r *windowRequest) { r.Indicator = "GDP per capita" },
			wantField: "indicator",
			wantTag:   "indicatorcode",
		},
		{
			name:      "reversed window",
			mutate:    func(r *windowRequest) { r.StartYear, r.EndYear = 2020, 2010 },
			wantField: "end_year",
			wantTag:   "gtefield",
			wantMsg:   "end_year must not be before start_year",
		},
		{
			name:      "year too early",
			mutate:    func(r *windowRequest) { r.StartYear = 1900 },
			wantField: "start_year",
			wantTag:   "gte",
			wantMsg:   "start_year must be greater than or equal to 1960",
		},
		{
			name:      "limit over max",
			mutate:    func(r *windowRequest) { r.Limit = 501 },
			wantField: "limit",
			wantTag:   "max",
			wantMsg:   "limit must be at most 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validWindow()
			tt.mutate(&req)
			err := ValidateStruct(&req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("field = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("tag = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
			if tt.wantMsg != "" && err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_MultipleErrorsJoined(t *testing.T) {
	req := windowRequest{StartYear: 2000, EndYear: 2023, Limit: 0}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(err.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %v", err.Errors())
	}
	if !strings.Contains(err.Error(), "; ") {
		t.Errorf("messages should be joined: %q", err.Error())
	}
}

func TestNewError(t *testing.T) {
	err := NewError("year", "year must be an integer")
	if err.Error() != "year must be an integer" || err.Errors()[0].Field() != "year" {
		t.Errorf("unexpected error %+v", err)
	}
}

func TestRequestValidationError_Empty(t *testing.T) {
	var err RequestValidationError
	if err.Error() != "validation failed" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
