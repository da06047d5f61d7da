// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package aggregate

import (
	"reflect"
	"testing"

	"github.com/tomtom215/worldpulse/internal/models"
)

func wbRow(country string, year int, v *float64) models.WorldBankObservation {
	return models.WorldBankObservation{CountryCode: country, IndicatorCode: "NY.GDP.PCAP.CD", Year: year, Value: v}
}

func happinessRow(country string, year int, score *float64) models.HappinessObservation {
	return models.HappinessObservation{CountryCode: country, Year: year, HappinessScore: score}
}

func derefAll(vs []*float64) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		if v == nil {
			out[i] = nil
			continue
		}
		out[i] = *v
	}
	return out
}

func TestSeriesFromWorldBankDropsNulls(t *testing.T) {
	s := SeriesFromWorldBank([]models.WorldBankObservation{
		wbRow("IN", 2020, models.Float(1)),
		wbRow("IN", 2021, nil),
		wbRow("IN", 2022, models.Float(3)),
	})
	if len(s) != 2 {
		t.Fatalf("expected 2 entries, got %v", s)
	}
	if _, ok := s[2021]; ok {
		t.Error("null year should be dropped")
	}
}

func TestTrendOrdersByYear(t *testing.T) {
	years, values := Trend(Series{2022: 3, 2019: 1, 2020: 2})
	if !reflect.DeepEqual(years, []int{2019, 2020, 2022}) {
		t.Errorf("years = %v", years)
	}
	if !reflect.DeepEqual(values, []float64{1, 2, 3}) {
		t.Errorf("values = %v", values)
	}
}

func TestAlignIntersection(t *testing.T) {
	tests := []struct {
		name      string
		left      Series
		right     Series
		years     []int
		leftVals  []float64
		rightVals []float64
	}{
		{
			name:      "partial overlap keeps common years only",
			left:      Series{2020: 1.0, 2021: 2.0, 2022: 3.0},
			right:     Series{2021: 5.5, 2022: 6.1, 2023: 6.5},
			years:     []int{2021, 2022},
			leftVals:  []float64{2.0, 3.0},
			rightVals: []float64{5.5, 6.1},
		},
		{
			name:      "disjoint",
			left:      Series{2010: 1},
			right:     Series{2011: 2},
			years:     []int{},
			leftVals:  []float64{},
			rightVals: []float64{},
		},
		{
			name:      "empty side",
			left:      Series{},
			right:     Series{2011: 2},
			years:     []int{},
			leftVals:  []float64{},
			rightVals: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			years, l, r := AlignIntersection(tt.left, tt.right)
			if !reflect.DeepEqual(years, tt.years) {
				t.Errorf("years = %v, want %v", years, tt.years)
			}
			if !reflect.DeepEqual(l, tt.leftVals) || !reflect.DeepEqual(r, tt.rightVals) {
				t.Errorf("values = %v / %v, want %v / %v", l, r, tt.leftVals, tt.rightVals)
			}
		})
	}
}

func TestAlignIntersectionIgnoresNullYears(t *testing.T) {
	wb := SeriesFromWorldBank([]models.WorldBankObservation{
		wbRow("IN", 2021, nil),
		wbRow("IN", 2022, models.Float(3)),
	})
	happiness := SeriesFromHappiness([]models.HappinessObservation{
		happinessRow("IN", 2021, models.Float(4.0)),
		happinessRow("IN", 2022, models.Float(4.1)),
	})
	years, _, _ := AlignIntersection(wb, happiness)
	if !reflect.DeepEqual(years, []int{2022}) {
		t.Errorf("years = %v, want [2022]", years)
	}
}

func TestAlignToAnchor(t *testing.T) {
	tests := []struct {
		name      string
		anchor    []int
		companion Series
		want      []any
	}{
		{
			name:      "gap in the middle",
			anchor:    []int{2020, 2021, 2022},
			companion: Series{2020: 10, 2022: 12},
			want:      []any{10.0, nil, 12.0},
		},
		{
			name:      "companion years outside the anchor are ignored",
			anchor:    []int{2021},
			companion: Series{2019: 1, 2021: 2, 2023: 3},
			want:      []any{2.0},
		},
		{
			name:      "empty companion",
			anchor:    []int{2020, 2021},
			companion: Series{},
			want:      []any{nil, nil},
		},
		{
			name:      "empty anchor",
			anchor:    []int{},
			companion: Series{2020: 1},
			want:      []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AlignToAnchor(tt.anchor, tt.companion)
			if len(got) != len(tt.anchor) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.anchor))
			}
			if !reflect.DeepEqual(derefAll(got), tt.want) {
				t.Errorf("got %v, want %v", derefAll(got), tt.want)
			}
		})
	}
}
