// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

/*
Package models defines the data structures shared by the store, the upstream
fetchers, the aggregation engine and the HTTP API.

Catalog:
  - Country: keyed by ISO-2 style code, optional region and income group
  - Indicator: keyed by World Bank indicator code

Observations (upserted by natural key, never deleted):
  - WorldBankObservation: (country, indicator, year)
  - HappinessObservation: (country, year)
  - RegionalAggregate: (region, year), a materialized happiness rollup

Bookkeeping:
  - DataSource: an upstream provider
  - DataUpdateLog: one fetch-and-store round trip against a DataSource

Charts:
  - ChartData: category labels plus positionally aligned Datasets

Nullable numeric fields are *float64 so that "row present, value absent" is
distinguishable from "no row".
*/
package models
