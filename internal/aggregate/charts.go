// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package aggregate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tomtom215/worldpulse/internal/models"
)

// Chart colors.
const (
	colorBlue    = "rgb(37, 99, 235)"
	colorGreen   = "rgb(16, 185, 129)"
	colorAmber   = "rgb(245, 158, 11)"
	colorRed     = "rgb(239, 68, 68)"
	colorViolet  = "rgb(139, 92, 246)"
	lineTension  = 0.4
	fillOpacity  = "0.1"
	barOpacity   = "0.8"
	happinessTag = "Happiness Score"
)

// regionPalette colors one bar per region, cycled.
var regionPalette = []string{
	"rgba(37, 99, 235, 0.8)",
	"rgba(16, 185, 129, 0.8)",
	"rgba(245, 158, 11, 0.8)",
	"rgba(239, 68, 68, 0.8)",
	"rgba(139, 92, 246, 0.8)",
	"rgba(236, 72, 153, 0.8)",
	"rgba(34, 197, 94, 0.8)",
}

// companionColors are assigned to dashboard indicators in order, cycled.
var companionColors = []string{colorBlue, colorAmber, colorRed, colorViolet}

// translucent turns "rgb(r, g, b)" into "rgba(r, g, b, alpha)".
func translucent(rgb, alpha string) string {
	return strings.Replace(strings.Replace(rgb, "rgb(", "rgba(", 1), ")", ", "+alpha+")", 1)
}

func yearLabels(years []int) []string {
	labels := make([]string, len(years))
	for i, y := range years {
		labels[i] = strconv.Itoa(y)
	}
	return labels
}

// TrendChart is a single filled line.
func TrendChart(indicatorName, countryName string, years []int, values []float64) models.ChartData {
	return models.ChartData{
		Labels: yearLabels(years),
		Datasets: []models.Dataset{{
			Label: fmt.Sprintf("%s - %s", indicatorName, countryName),
			Data:  models.Values(values),
			Style: models.Style{
				BorderColor:     colorBlue,
				BackgroundColor: translucent(colorBlue, fillOpacity),
				Tension:         lineTension,
				Fill:            true,
			},
		}},
	}
}

// ComparisonChart puts happiness on the secondary axis and the indicator on
// the primary one. Both value slices are aligned to years.
func ComparisonChart(indicatorName, countryName string, years []int, indicator, happiness []float64) models.ChartData {
	return models.ChartData{
		Labels: yearLabels(years),
		Datasets: []models.Dataset{
			{
				Label: fmt.Sprintf("%s - %s", happinessTag, countryName),
				Data:  models.Values(happiness),
				Style: models.Style{
					BorderColor:     colorGreen,
					BackgroundColor: translucent(colorGreen, fillOpacity),
					Tension:         lineTension,
					YAxisID:         "y1",
				},
			},
			{
				Label: fmt.Sprintf("%s - %s", indicatorName, countryName),
				Data:  models.Values(indicator),
				Style: models.Style{
					BorderColor:     colorBlue,
					BackgroundColor: translucent(colorBlue, fillOpacity),
					Tension:         lineTension,
					YAxisID:         "y",
				},
			},
		},
	}
}

// RegionalChart is one bar per region.
func RegionalChart(year int, aggs []models.RegionalAggregate) models.ChartData {
	labels := make([]string, len(aggs))
	data := make([]*float64, len(aggs))
	colors := make([]string, len(aggs))
	for i := range aggs {
		labels[i] = aggs[i].Region
		data[i] = aggs[i].AvgHappinessScore
		colors[i] = regionPalette[i%len(regionPalette)]
	}
	return models.ChartData{
		Labels: labels,
		Datasets: []models.Dataset{{
			Label: fmt.Sprintf("Average %s (%d)", happinessTag, year),
			Data:  data,
			Style: models.Style{BackgroundColor: colors, BorderWidth: 1},
		}},
	}
}

// SnapshotChart is a bar per country in ranked order.
func SnapshotChart(indicatorName string, year int, ranked []Ranked) models.ChartData {
	labels := make([]string, len(ranked))
	values := make([]float64, len(ranked))
	for i, r := range ranked {
		labels[i] = r.Label
		values[i] = r.Value
	}
	return models.ChartData{
		Labels: labels,
		Datasets: []models.Dataset{{
			Label: fmt.Sprintf("%s (%d)", indicatorName, year),
			Data:  models.Values(values),
			Style: models.Style{
				BorderColor:     colorBlue,
				BackgroundColor: translucent(colorBlue, barOpacity),
				BorderWidth:     1,
			},
		}},
	}
}

// Companion is one indicator line of the dashboard, already aligned to the
// anchor years.
type Companion struct {
	Label  string
	Values []*float64
}

// DashboardChart puts the happiness anchor first and each companion after it.
func DashboardChart(years []int, happiness []float64, companions []Companion) models.ChartData {
	datasets := make([]models.Dataset, 0, len(companions)+1)
	datasets = append(datasets, models.Dataset{
		Label: happinessTag,
		Data:  models.Values(happiness),
		Style: models.Style{
			BorderColor:     colorGreen,
			BackgroundColor: translucent(colorGreen, fillOpacity),
			Tension:         lineTension,
			YAxisID:         "y1",
		},
	})
	for i, c := range companions {
		color := companionColors[i%len(companionColors)]
		datasets = append(datasets, models.Dataset{
			Label: c.Label,
			Data:  c.Values,
			Style: models.Style{
				BorderColor:     color,
				BackgroundColor: translucent(color, fillOpacity),
				Tension:         lineTension,
				YAxisID:         "y",
			},
		})
	}
	return models.ChartData{Labels: yearLabels(years), Datasets: datasets}
}
