// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

/*
Package cache provides a thread-safe in-memory TTL cache.

The API can keep built chart payloads here so that repeated requests for the
same chart do not re-run the store queries (and, on a miss, the upstream
fetch) behind it. Entries expire after the configured TTL; the ingest layer
calls Clear after a bulk import so new data shows up immediately. The server
only creates a cache when CHART_CACHE_TTL is set.

# Usage Example

	charts := cache.New[models.ChartData](time.Minute)
	defer charts.Close()

	key := cache.GenerateKey("trend", req)
	if chart, ok := charts.Get(key); ok {
	    return chart
	}
	chart, err := engine.Trend(ctx, req.Country, req.Indicator, req.window())
	if err == nil {
	    charts.Set(key, chart)
	}

# Expiration

Expired entries are dropped lazily on Get and by a background sweep every
cleanup interval. Close stops the sweep.
*/
package cache
