// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package aggregate

import (
	"sort"

	"github.com/tomtom215/worldpulse/internal/models"
)

// Ranked is one bar of a ranking chart.
type Ranked struct {
	Label string
	Value float64
}

// RankDescending drops null values and orders the rest by value, highest
// first. Ties keep input order. Labels are country names, falling back to
// the code.
func RankDescending(rows []models.WorldBankObservation) []Ranked {
	out := make([]Ranked, 0, len(rows))
	for i := range rows {
		if rows[i].Value == nil {
			continue
		}
		label := rows[i].CountryName
		if label == "" {
			label = rows[i].CountryCode
		}
		out = append(out, Ranked{Label: label, Value: *rows[i].Value})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	return out
}
