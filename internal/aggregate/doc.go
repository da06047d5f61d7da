// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

/*
Package aggregate turns stored observations into chart payloads.

The package has two layers:
  - Pure functions (align.go, regional.go, rank.go, charts.go) that take rows
    and return series. They never touch the store and are tested directly.
  - Engine (engine.go), which reads through the store and the reconcile
    service and feeds the pure functions.

Join Policies:

Two alignment functions live side by side and are deliberately separate:

  - AlignIntersection keeps only years where both series have a value. The
    happiness comparison chart uses it so neither line has gaps.
  - AlignToAnchor keeps every anchor year and emits nil for companion gaps.
    The dashboard uses it so every companion line has the anchor's length.

Ordering:

  - Trend and comparison labels ascend by year.
  - Snapshot bars descend by value.
  - Computed regional bars follow the order each region is first seen in the
    input rows; stored regional aggregates come back ordered by region.
*/
package aggregate
