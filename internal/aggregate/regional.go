// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/tomtom215/worldpulse/internal/models"
)

// averagePlaces is the rounding applied to computed regional means.
const averagePlaces = 2

// ComputeRegional groups happiness rows of one year by their country's region
// and averages the scores. Rows without a region or without a score are
// ignored. Groups come back in the order their region is first seen.
func ComputeRegional(rows []models.HappinessObservation, year int) []models.RegionalAggregate {
	type group struct {
		sum   decimal.Decimal
		count int
	}

	order := []string{}
	groups := map[string]*group{}
	for i := range rows {
		row := &rows[i]
		if row.Region == nil || *row.Region == "" || row.HappinessScore == nil {
			continue
		}
		g, ok := groups[*row.Region]
		if !ok {
			g = &group{sum: decimal.Zero}
			groups[*row.Region] = g
			order = append(order, *row.Region)
		}
		g.sum = g.sum.Add(decimal.NewFromFloat(*row.HappinessScore))
		g.count++
	}

	out := make([]models.RegionalAggregate, 0, len(order))
	for _, region := range order {
		g := groups[region]
		avg, _ := g.sum.Div(decimal.NewFromInt(int64(g.count))).Round(averagePlaces).Float64()
		out = append(out, models.RegionalAggregate{
			Region:            region,
			Year:              year,
			AvgHappinessScore: models.Float(avg),
			CountriesCount:    g.count,
		})
	}
	return out
}
