// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package models

// ChartData is the common output of every aggregation: category labels plus
// one or more datasets whose Data slices are positionally aligned to Labels.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one named series. A nil entry in Data renders as null (a gap).
type Dataset struct {
	Label string     `json:"label"`
	Data  []*float64 `json:"data"`
	Style
}

// Style is passed through to the chart renderer untouched.
// BackgroundColor is either a single color string or one color per label.
type Style struct {
	BorderColor     string  `json:"borderColor,omitempty"`
	BackgroundColor any     `json:"backgroundColor,omitempty"`
	BorderWidth     int     `json:"borderWidth,omitempty"`
	Tension         float64 `json:"tension,omitempty"`
	Fill            bool    `json:"fill,omitempty"`
	YAxisID         string  `json:"yAxisID,omitempty"`
}

// Values wraps plain floats as non-null data points.
func Values(vs []float64) []*float64 {
	out := make([]*float64, len(vs))
	for i := range vs {
		v := vs[i]
		out[i] = &v
	}
	return out
}

// EmptyChart returns a chart with non-nil empty slices so it encodes as
// {"labels":[],"datasets":[]} rather than nulls.
func EmptyChart() ChartData {
	return ChartData{Labels: []string{}, Datasets: []Dataset{}}
}
