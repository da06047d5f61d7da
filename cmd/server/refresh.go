// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

package main

import (
	"context"

	"github.com/tomtom215/worldpulse/internal/cache"
	"github.com/tomtom215/worldpulse/internal/logging"
	"github.com/tomtom215/worldpulse/internal/models"
	"github.com/tomtom215/worldpulse/internal/supervisor/services"
)

// invalidatingRefresher drops cached charts after a bulk job wrote rows.
type invalidatingRefresher struct {
	services.Refresher
	charts *cache.Cache[models.ChartData]
}

func (r *invalidatingRefresher) RefreshCatalog(ctx context.Context) (models.UpsertResult, error) {
	res, err := r.Refresher.RefreshCatalog(ctx)
	r.invalidate(ctx, "catalog", res)
	return res, err
}

func (r *invalidatingRefresher) ImportHappiness(ctx context.Context, years []int) (models.UpsertResult, error) {
	res, err := r.Refresher.ImportHappiness(ctx, years)
	r.invalidate(ctx, "happiness", res)
	return res, err
}

func (r *invalidatingRefresher) invalidate(ctx context.Context, job string, res models.UpsertResult) {
	if r.charts == nil || res.Created+res.Updated == 0 {
		return
	}
	dropped := r.charts.Len()
	r.charts.Clear()
	logging.Ctx(ctx).Debug().Str("job", job).Int("dropped", dropped).Msg("Chart cache cleared after bulk write")
}
