// WorldPulse - Socioeconomic Indicator Aggregation and Chart Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/worldpulse

/*
Package api exposes the WorldPulse read API over HTTP using the Chi router.

Every endpoint is a GET that returns JSON. There are three groups:

  - Catalog and raw data: countries, indicators, regions, World Bank
    observations, happiness rows, regional aggregates, data sources and the
    update log. These read the store directly.
  - Visualizations: chart-ready payloads ({labels, datasets}) built by the
    aggregate engine. Reads may trigger an upstream fetch when the store has
    no rows for the request.
  - Operations: liveness and readiness probes plus the Prometheus scrape
    endpoint.

# Errors

Invalid or missing query parameters produce HTTP 400 with a body of the form:

	{"error": "country parameter is required"}

Unexpected store or aggregation failures produce HTTP 500 with the same
shape. Upstream fetch failures never reach the caller; the endpoint answers
with whatever the store holds.

# Middleware

The router installs, in order: request ID, real IP, panic recovery, CORS,
Prometheus instrumentation, IP rate limiting and gzip compression. Health
probes and /metrics use a more permissive rate limit.

# Usage

	h := api.NewHandler(db, engine, reconciler, cfg)
	router := api.NewRouter(h, api.MiddlewareConfigFromSecurity(&cfg.Security))
	srv := &http.Server{Handler: router.Setup()}
*/
package api
