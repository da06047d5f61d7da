// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package aggregate

import (
	"sort"

	"github.com/tomtom215/worldpulse/internal/models"
)

// Series maps a year to a non-null value.
type Series map[int]float64

// SeriesFromWorldBank drops null values.
func SeriesFromWorldBank(rows []models.WorldBankObservation) Series {
	s := make(Series, len(rows))
	for i := range rows {
		if rows[i].Value != nil {
			s[rows[i].Year] = *rows[i].Value
		}
	}
	return s
}

// SeriesFromHappiness keys happiness scores by year, dropping null scores.
func SeriesFromHappiness(rows []models.HappinessObservation) Series {
	s := make(Series, len(rows))
	for i := range rows {
		if rows[i].HappinessScore != nil {
			s[rows[i].Year] = *rows[i].HappinessScore
		}
	}
	return s
}

// Years returns the keys in ascending order.
func (s Series) Years() []int {
	years := make([]int, 0, len(s))
	for y := range s {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Trend returns the series as parallel year and value slices ordered by year.
func Trend(s Series) (years []int, values []float64) {
	years = s.Years()
	values = make([]float64, len(years))
	for i, y := range years {
		values[i] = s[y]
	}
	return years, values
}

// AlignIntersection is an inner join on year. Years present in only one
// series are dropped. The returned slices have equal length and ascend by
// year.
func AlignIntersection(left, right Series) (years []int, leftValues, rightValues []float64) {
	years = []int{}
	for y := range left {
		if _, ok := right[y]; ok {
			years = append(years, y)
		}
	}
	sort.Ints(years)

	leftValues = make([]float64, len(years))
	rightValues = make([]float64, len(years))
	for i, y := range years {
		leftValues[i] = left[y]
		rightValues[i] = right[y]
	}
	return years, leftValues, rightValues
}

// AlignToAnchor is a left join against anchor. The result always has
// len(anchor) entries; an anchor year missing from companion yields nil.
func AlignToAnchor(anchor []int, companion Series) []*float64 {
	out := make([]*float64, len(anchor))
	for i, y := range anchor {
		if v, ok := companion[y]; ok {
			out[i] = models.Float(v)
		}
	}
	return out
}
