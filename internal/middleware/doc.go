// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

/*
Package middleware provides HTTP middleware components for the API router.

Key Components:

  - RequestID: X-Request-ID propagation plus request and correlation IDs in
    the logging context
  - PrometheusMetrics: request count, latency and in-flight instrumentation
  - Compression: gzip for clients that accept it

Every component has the chi signature func(http.Handler) http.Handler and is
installed with router.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

Metrics Labels:

PrometheusMetrics labels requests by the matched chi route pattern (for
example /api/regions/{region}/countries/) rather than the raw path, so
region names and other path parameters never become label values. Requests
that match no route are labelled "unmatched".
*/
package middleware
