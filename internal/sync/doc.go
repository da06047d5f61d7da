// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

/*
Package sync adapts the two upstream data providers to WorldPulse records.

Key Components:

  - WorldBankClient: HTTP client for the World Bank v2 API (indicator series,
    country catalog, indicator catalog), paced by a token bucket limiter
  - HappinessClient: per-year CSV download of the World Happiness Report with
    column-synonym resolution and two-tier country name matching
  - Breaker: sony/gobreaker wrapper publishing Prometheus state metrics
  - Fetcher: combines both clients behind breakers and reports every call to
    the upstream metrics

Failure Model:

Fetchers never abort on a malformed row. A row that cannot be parsed, has a
null value, or names an unknown country is skipped and counted in
worldpulse_upstream_rows_skipped_total. Transport failures, non-200 status
codes and open circuits yield an empty result plus an error; callers in the
reconcile package log that error and continue with whatever is stored.

World Bank Pagination:

Series requests ask for a single page of per_page records (default 100). The
client does not follow the pages metadata, so very long windows can be
truncated. The metadata total is logged at debug level when it exceeds the
page size.
*/
package sync
